package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type ExampleStruct struct {
	ID   int
	Name string
}

func newStringCache() *InMemoryCacheManager[string, string] {
	return NewInMemoryCacheManager[string, string]("food-cache", NoExpiration, DefaultCleanupInterval)
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", NoExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, ExampleStruct]("food-cache", NoExpiration, DefaultCleanupInterval)
	example := ExampleStruct{Name: "apple"}
	cache.Set(context.Background(), "ex:1", example, NoExpiration)

	got, ok := cache.Get(context.Background(), "ex:1")
	require.True(t, ok)
	require.Equal(t, example, got)
}

func TestInMemoryCacheManager_GetReturnsSameSlice(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []*ExampleStruct]("ptr-cache", NoExpiration, DefaultCleanupInterval)
	stored := []*ExampleStruct{{ID: 1}, {ID: 2}}
	cache.Set(context.Background(), "list", stored, NoExpiration)

	got, ok := cache.Get(context.Background(), "list")
	require.True(t, ok)
	require.Same(t, stored[0], got[0])
	require.Same(t, &stored[0], &got[0], "slice header shares the backing array")
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := newStringCache()

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := newStringCache()

	cache.cache.Set("food", 123, NoExpiration)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_ExpiredValueIsMissing(t *testing.T) {
	cache := newStringCache()
	cache.Set(context.Background(), "food", "apple", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "food")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_DeleteWithNoKeysDoesNothing(t *testing.T) {
	cache := newStringCache()
	cache.Set(context.Background(), "food", "apple", NoExpiration)

	require.NoError(t, cache.Delete(context.Background()))
	require.Equal(t, 1, cache.Len())
}

func TestInMemoryCacheManager_DeleteExistingValue(t *testing.T) {
	cache := newStringCache()
	cache.Set(context.Background(), "food", "apple", NoExpiration)
	cache.Set(context.Background(), "drink", "juice", NoExpiration)

	require.NoError(t, cache.Delete(context.Background(), "food", "missing"))

	_, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	got, ok := cache.Get(context.Background(), "drink")
	require.True(t, ok)
	require.Equal(t, "juice", got)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := newStringCache()
	cache.Set(context.Background(), "food", "apple", NoExpiration)

	require.NoError(t, cache.Flush(context.Background()))

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Equal(t, "", got)
	require.Zero(t, cache.Len())
}
