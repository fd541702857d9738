package database

import (
	"context"
	"path/filepath"
	"testing"

	"elvalg/config"
	"elvalg/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"gorm.io/gorm"
)

func memoryConfig() config.Config {
	return config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDbPath: ":memory:",
	}
}

func TestNew_InMemoryWithoutCache(t *testing.T) {
	db, err := New(memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.NotNil(t, db.SQL)
	assert.Nil(t, db.Cache.General)
	assert.Nil(t, db.Cache.Session)
	assert.Nil(t, db.Cache.Prices)

	for _, table := range []string{"leads", "contracts", "newsletter_subscribers", "admin_users"} {
		assert.True(t, db.SQL.Migrator().HasTable(table), table)
	}
}

func TestNew_UnreachableCache(t *testing.T) {
	testConfig := memoryConfig()
	testConfig.DatabaseCacheAddress = "127.0.0.1"
	testConfig.DatabaseCachePort = 1

	_, err := New(testConfig)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize cache database")
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(config.Config{DatabaseDriver: config.DriverSQLite})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database path is empty")

	_, err = New(config.Config{DatabaseDriver: "mysql"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestInitializeSQLiteDB_File(t *testing.T) {
	db := &DB{log: logger.New("test")}

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	err := db.initializeSQLiteDB(&gorm.Config{}, config.Config{DatabaseDbPath: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.NotNil(t, db.SQL)
	assert.FileExists(t, dbPath)
}

func TestInitializePostgresDB_EmptyHost(t *testing.T) {
	db := &DB{log: logger.New("test")}

	err := db.initializePostgresDB(&gorm.Config{}, config.Config{DatabaseDriver: config.DriverPostgres})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database host is empty")
}

func TestMigrations_RollbackAndReapply(t *testing.T) {
	db, err := New(memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.SQL.DB()
	require.NoError(t, err)

	states, err := MigrationStatus(sqlDB, db.Driver)
	require.NoError(t, err)
	require.NotEmpty(t, states)
	for _, state := range states {
		assert.NotNil(t, state.AppliedAt, state.ID)
	}

	reverted, err := Rollback(sqlDB, db.Driver, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, reverted)
	assert.False(t, db.SQL.Migrator().HasTable("leads"))

	applied, err := Migrate(sqlDB, db.Driver)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.True(t, db.SQL.Migrator().HasTable("leads"))
}

func TestClose_WithNilSQL(t *testing.T) {
	db := &DB{log: logger.New("test")}
	assert.NoError(t, db.Close())
}

func TestSQLWithContext(t *testing.T) {
	db, err := New(memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB := db.SQLWithContext(context.Background())
	assert.NotNil(t, gormDB)
	assert.NotSame(t, db.SQL, gormDB)
}

func TestFlushAllCaches_WithoutCache(t *testing.T) {
	db := &DB{log: logger.New("test")}
	assert.NoError(t, db.FlushAllCaches(context.Background()))
}

func TestCacheBuilder_NilClient(t *testing.T) {
	type payload struct {
		Zone string `json:"zone"`
	}

	builder := NewCacheBuilder(nil, "prices:NO1").
		WithStruct(payload{Zone: "NO1"}).
		WithContext(context.Background())

	assert.NoError(t, builder.Set())

	var got payload
	found, err := NewCacheBuilder(nil, "prices:NO1").Get(&got)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, got.Zone)

	assert.NoError(t, NewCacheBuilder(nil, 42).Delete())
	assert.Equal(t, "42", NewCacheBuilder(nil, 42).key)
}

type unreachableClient struct {
	valkey.Client
}

func TestCacheBuilder_MarshalError(t *testing.T) {
	err := NewCacheBuilder(unreachableClient{}, "prices:NO1").
		WithStruct(make(chan int)).
		Set()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal cache value")
}
