package audit

import (
	"context"
	"testing"

	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var actor = models.Actor{UserID: "7", Email: "leder@echomedic.local"}

func TestRecordRequiresActor(t *testing.T) {
	rec := NewRecorder(store.NewMemory())

	err := rec.Record(context.Background(), Event{
		Action: ActionRiskCreated,
		RiskID: "r1",
	})
	assert.Error(t, err)
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(store.NewMemory())

	require.NoError(t, rec.Record(ctx, Event{
		Action:      ActionRiskCreated,
		RiskID:      "r1",
		Description: "Risk created: X",
		Actor:       actor,
		After:       store.Document{"title": "X"},
	}))
	require.NoError(t, rec.Record(ctx, Event{
		Action:      ActionRiskDeleted,
		RiskID:      "r1",
		Description: "Risk deleted (r1)",
		Actor:       actor,
		Before:      store.Document{"title": "X"},
	}))

	entries, err := rec.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first, server-assigned timestamps
	assert.Equal(t, ActionRiskDeleted, entries[0].Action)
	assert.Equal(t, ActionRiskCreated, entries[1].Action)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.True(t, !entries[0].Timestamp.Before(entries[1].Timestamp))

	created := entries[1]
	assert.Equal(t, "r1", created.RiskID)
	assert.Equal(t, "7", created.UserID)
	require.NotNil(t, created.UserEmail)
	assert.Equal(t, "leder@echomedic.local", *created.UserEmail)
	assert.Nil(t, created.Before)
	after, ok := created.After.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "X", after["title"])
}

func TestRecordWithoutEmail(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(store.NewMemory())

	require.NoError(t, rec.Record(ctx, Event{
		Action:      ActionPolicyCreated,
		PolicyID:    "p1",
		Description: "New policy created: t (v1.0)",
		Actor:       models.Actor{UserID: "9"},
	}))

	entries, err := rec.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].UserEmail)
	assert.Equal(t, "p1", entries[0].PolicyID)
}

func TestListLimit(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(store.NewMemory())

	for i := 0; i < 5; i++ {
		require.NoError(t, rec.Record(ctx, Event{
			Action:      ActionControlUpdated,
			ControlID:   "c1",
			Description: "Control updated (c1)",
			Actor:       actor,
		}))
	}

	entries, err := rec.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
