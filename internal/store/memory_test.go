package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAddGet(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	id, err := mem.Add(ctx, "risks", Document{"title": "X", "score": 15})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := mem.Get(ctx, "risks", id)
	require.NoError(t, err)
	assert.Equal(t, "X", doc["title"])
	// JSON round-trip: numbers come back as float64, like jsonb
	assert.Equal(t, float64(15), doc["score"])
}

func TestMemoryGetMissing(t *testing.T) {
	mem := NewMemory()

	_, err := mem.Get(context.Background(), "risks", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateMerges(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	id, err := mem.Add(ctx, "risks", Document{"title": "X", "owner": "Y"})
	require.NoError(t, err)

	require.NoError(t, mem.Update(ctx, "risks", id, Document{"title": "Z"}))

	doc, err := mem.Get(ctx, "risks", id)
	require.NoError(t, err)
	assert.Equal(t, "Z", doc["title"])
	assert.Equal(t, "Y", doc["owner"])
}

func TestMemoryUpdateMissing(t *testing.T) {
	err := NewMemory().Update(context.Background(), "risks", "nope", Document{"a": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	id, err := mem.Add(ctx, "risks", Document{"title": "X"})
	require.NoError(t, err)

	require.NoError(t, mem.Delete(ctx, "risks", id))
	require.NoError(t, mem.Delete(ctx, "risks", id))

	_, err = mem.Get(ctx, "risks", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListOrdering(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	a, err := mem.Add(ctx, "risks", Document{"createdAt": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	b, err := mem.Add(ctx, "risks", Document{"createdAt": time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	snaps, err := mem.List(ctx, "risks", "createdAt", true)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, b, snaps[0].ID)
	assert.Equal(t, a, snaps[1].ID)

	snaps, err = mem.List(ctx, "risks", "createdAt", false)
	require.NoError(t, err)
	assert.Equal(t, a, snaps[0].ID)
}

func TestMemoryServerTimestamp(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	id, err := mem.Add(ctx, "auditLogs", Document{"timestamp": ServerTimestamp})
	require.NoError(t, err)

	doc, err := mem.Get(ctx, "auditLogs", id)
	require.NoError(t, err)

	raw, ok := doc["timestamp"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, 5*time.Second)
}
