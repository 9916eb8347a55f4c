package service

import (
	"context"
	"testing"

	"github.com/bdybsjord/Echomedic/internal/audit"
	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newControlFixture() (*ControlService, *audit.Recorder) {
	mem := store.NewMemory()
	rec := audit.NewRecorder(mem)
	return NewControlService(mem, rec), rec
}

func TestCreateControl(t *testing.T) {
	ctx := context.Background()
	svc, rec := newControlFixture()

	id, err := svc.Create(ctx, ControlInput{
		ISOID:       "A.9.2.3",
		Title:       "Management of privileged access rights",
		Description: "Review quarterly",
		Status:      models.ControlImplemented,
	}, testActor)
	require.NoError(t, err)

	control, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A.9.2.3", control.ISOID)
	assert.Equal(t, models.ControlImplemented, control.Status)

	entries, err := rec.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionControlCreated, entries[0].Action)
	assert.Equal(t, id, entries[0].ControlID)
	assert.Empty(t, entries[0].RiskID)
}

func TestCreateControlValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newControlFixture()

	cases := []ControlInput{
		{Title: "t", Description: "d"},                          // missing isoId
		{ISOID: "A.5.1", Description: "d"},                      // missing title
		{ISOID: "A.5.1", Title: "t"},                            // missing description
		{ISOID: "A.5.1", Title: "t", Description: "d", Status: "Done"},
	}
	for i, input := range cases {
		_, err := svc.Create(ctx, input, testActor)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "case %d", i)
	}
}

func TestCreateControlDefaultsStatusPlanned(t *testing.T) {
	ctx := context.Background()
	svc, _ := newControlFixture()

	id, err := svc.Create(ctx, ControlInput{
		ISOID: "A.12.4.1", Title: "Event logging", Description: "d",
	}, testActor)
	require.NoError(t, err)

	control, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ControlPlanned, control.Status)
}

func TestUpdateControlPartial(t *testing.T) {
	ctx := context.Background()
	svc, rec := newControlFixture()

	id, err := svc.Create(ctx, ControlInput{
		ISOID: "A.9.2.3", Title: "t", Description: "d", Owner: "Security",
	}, testActor)
	require.NoError(t, err)

	status := models.ControlNotRelevant
	justification := "Covered by managed service"
	require.NoError(t, svc.Update(ctx, id, ControlPatch{
		Status:        &status,
		Justification: &justification,
	}, testActor))

	control, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ControlNotRelevant, control.Status)
	assert.Equal(t, justification, control.Justification)
	assert.Equal(t, "Security", control.Owner) // untouched

	entries, err := rec.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionControlUpdated, entries[0].Action)
}

func TestUpdateControlNotFound(t *testing.T) {
	svc, _ := newControlFixture()

	status := models.ControlImplemented
	err := svc.Update(context.Background(), "missing", ControlPatch{Status: &status}, testActor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteControlIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, rec := newControlFixture()

	require.NoError(t, svc.Delete(ctx, "missing", testActor))

	entries, err := rec.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteControl(t *testing.T) {
	ctx := context.Background()
	svc, rec := newControlFixture()

	id, err := svc.Create(ctx, ControlInput{
		ISOID: "A.9.2.3", Title: "t", Description: "d",
	}, testActor)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id, testActor))

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := rec.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionControlDeleted, entries[0].Action)
	assert.Nil(t, entries[0].After)
}

func TestControlMutationsRequireActor(t *testing.T) {
	ctx := context.Background()
	svc, _ := newControlFixture()

	var verr *ValidationError
	_, err := svc.Create(ctx, ControlInput{ISOID: "A.5.1", Title: "t", Description: "d"}, models.Actor{})
	assert.ErrorAs(t, err, &verr)

	err = svc.Update(ctx, "x", ControlPatch{}, models.Actor{})
	assert.ErrorAs(t, err, &verr)

	err = svc.Delete(ctx, "x", models.Actor{})
	assert.ErrorAs(t, err, &verr)
}
