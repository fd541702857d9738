package adminController

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessions(t *testing.T) {
	store := NewSessionStore(nil)
	ctx := context.Background()
	issued := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	first := Session{Token: "first", Login: "admin", ExpiresAt: issued.Add(time.Hour)}
	require.NoError(t, store.Save(ctx, first, time.Hour))

	got, found, err := store.Get(ctx, "first")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, first, *got)

	second := Session{Token: "second", Login: "admin", ExpiresAt: issued.Add(3 * time.Hour)}
	require.NoError(t, store.Save(ctx, second, time.Hour))

	_, found, err = store.Get(ctx, "first")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.Get(ctx, "second")
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, store.Delete(ctx, "second"))
	_, found, err = store.Get(ctx, "second")
	require.NoError(t, err)
	assert.False(t, found)
}
