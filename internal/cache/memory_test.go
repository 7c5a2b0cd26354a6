package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory(10)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", `{"a":1}`, time.Minute))

	val, hit, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, `{"a":1}`, val)
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory(10)

	_, hit, err := m.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(10)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, hit, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryEvictsAtCapacity(t *testing.T) {
	m := NewMemory(2)
	ctx := context.Background()

	m.Set(ctx, "a", "1", time.Minute)
	m.Set(ctx, "b", "2", 2*time.Minute)
	m.Set(ctx, "c", "3", 3*time.Minute)

	assert.LessOrEqual(t, m.Size(), 2)
}

func TestNoopAlwaysMisses(t *testing.T) {
	var s Store = Noop{}
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	_, hit, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}
