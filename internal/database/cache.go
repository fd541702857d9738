package database

import (
	"context"
	"fmt"
	"time"

	logg "elvalg/internal/logger"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"
)

// CacheBuilder wraps a single cache key. A nil client behaves as an always
// empty cache, so callers do not need to branch on whether caching is enabled.
type CacheBuilder struct {
	client CacheClient
	key    string
	value  any
	ttl    time.Duration
	ctx    context.Context
	log    logg.Logger
}

func NewCacheBuilder(client CacheClient, key any) *CacheBuilder {
	return &CacheBuilder{
		client: client,
		key:    fmt.Sprint(key),
		ctx:    context.Background(),
		log:    logg.New("cacheBuilder"),
	}
}

func (c *CacheBuilder) WithStruct(value any) *CacheBuilder {
	c.value = value
	return c
}

func (c *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	c.ttl = ttl
	return c
}

func (c *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	if ctx != nil {
		c.ctx = ctx
	}
	return c
}

func (c *CacheBuilder) Set() error {
	if c.client == nil {
		return nil
	}
	log := c.log.Function("Set")

	data, err := json.Marshal(c.value)
	if err != nil {
		return log.Err("failed to marshal cache value", err, "key", c.key)
	}

	set := c.client.B().Set().Key(c.key).Value(string(data))

	var cmd valkey.Completed
	if seconds := int64(c.ttl / time.Second); seconds > 0 {
		cmd = set.ExSeconds(seconds).Build()
	} else {
		cmd = set.Build()
	}

	if err := c.client.Do(c.ctx, cmd).Error(); err != nil {
		return log.Err("failed to set cache value", err, "key", c.key)
	}
	return nil
}

// Get decodes the cached value into target and reports whether the key existed.
func (c *CacheBuilder) Get(target any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	log := c.log.Function("Get")

	data, err := c.client.Do(c.ctx, c.client.B().Get().Key(c.key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, log.Err("failed to get cache value", err, "key", c.key)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return false, log.Err("failed to unmarshal cache value", err, "key", c.key)
	}

	return true, nil
}

func (c *CacheBuilder) Delete() error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Do(c.ctx, c.client.B().Del().Key(c.key).Build()).Error(); err != nil {
		return c.log.Function("Delete").Err("failed to delete cache value", err, "key", c.key)
	}
	return nil
}
