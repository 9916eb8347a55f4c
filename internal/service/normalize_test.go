package service

import (
	"testing"
	"time"

	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskFromDocRecomputesMissingScore(t *testing.T) {
	r := RiskFromDoc("r1", store.Document{
		"title":       "Server room flooding",
		"owner":       "Ops",
		"likelihood":  float64(3),
		"consequence": float64(5),
	})

	assert.Equal(t, 15, r.Score)
	assert.Equal(t, models.LevelHigh, r.Level)
}

func TestRiskFromDocTrustsStoredScore(t *testing.T) {
	// stored score surfaces verbatim on read for display compatibility
	r := RiskFromDoc("r1", store.Document{
		"likelihood":  float64(2),
		"consequence": float64(2),
		"score":       float64(20),
		"level":       "High",
	})

	assert.Equal(t, 20, r.Score)
	assert.Equal(t, models.LevelHigh, r.Level)
}

func TestRiskFromDocDefaultsMissingInputs(t *testing.T) {
	r := RiskFromDoc("r1", store.Document{})

	assert.Equal(t, 1, r.Likelihood)
	assert.Equal(t, 1, r.Consequence)
	assert.Equal(t, 1, r.Score)
	assert.Equal(t, models.LevelLow, r.Level)
	assert.Equal(t, models.StatusOpen, r.Status)
}

func TestRiskFromDocDerivesLevelFromBadStoredLevel(t *testing.T) {
	r := RiskFromDoc("r1", store.Document{
		"likelihood":  float64(4),
		"consequence": float64(4),
		"level":       "Critical",
	})

	assert.Equal(t, 16, r.Score)
	assert.Equal(t, models.LevelHigh, r.Level)
}

func TestRiskFromDocResidualAllOrNothing(t *testing.T) {
	r := RiskFromDoc("r1", store.Document{
		"likelihood":         float64(3),
		"consequence":        float64(3),
		"residualLikelihood": float64(2),
	})

	assert.Nil(t, r.ResidualLikelihood)
	assert.Nil(t, r.ResidualConsequence)
	assert.Nil(t, r.ResidualScore)
	assert.Empty(t, r.ResidualLevel)
}

func TestRiskFromDocResidualOutOfRangeDropped(t *testing.T) {
	r := RiskFromDoc("r1", store.Document{
		"residualLikelihood":  float64(9),
		"residualConsequence": float64(2),
	})

	assert.Nil(t, r.ResidualLikelihood)
	assert.Nil(t, r.ResidualScore)
}

func TestRiskFromDocResidualDerived(t *testing.T) {
	r := RiskFromDoc("r1", store.Document{
		"residualLikelihood":  float64(2),
		"residualConsequence": float64(4),
	})

	require.NotNil(t, r.ResidualScore)
	assert.Equal(t, 8, *r.ResidualScore)
	assert.Equal(t, models.LevelMedium, r.ResidualLevel)
}

func TestRiskFromDocEnumFallbacks(t *testing.T) {
	r := RiskFromDoc("r1", store.Document{
		"status":          "Archived",
		"category":        "Organizational",
		"treatment":       "Ignore",
		"treatmentStatus": "Done",
	})

	assert.Equal(t, models.StatusOpen, r.Status)
	assert.Empty(t, r.Category)
	assert.Empty(t, r.Treatment)
	assert.Empty(t, r.TreatmentStatus)
}

func TestRiskFromDocArraysRequireStrings(t *testing.T) {
	r := RiskFromDoc("r1", store.Document{
		"affectedAssets": []any{"A-01", float64(2)},
		"controlIds":     []any{"c1", "c2"},
		"policyIds":      "not-an-array",
	})

	assert.Nil(t, r.AffectedAssets)
	assert.Equal(t, []string{"c1", "c2"}, r.ControlIDs)
	assert.Nil(t, r.PolicyIDs)
}

func TestRiskFromDocTimestampFallback(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	r := RiskFromDoc("r1", store.Document{})
	after := time.Now().UTC().Add(time.Second)

	assert.True(t, r.CreatedAt.After(before) && r.CreatedAt.Before(after))
}

func TestRiskFromDocParsesWireTimestamps(t *testing.T) {
	r := RiskFromDoc("r1", store.Document{
		"createdAt": "2024-03-01T10:00:00.000000000Z",
		"updatedAt": "2024-03-02T11:30:00Z",
	})

	assert.Equal(t, 2024, r.CreatedAt.Year())
	assert.Equal(t, time.March, r.UpdatedAt.Month())
	assert.Equal(t, 2, r.UpdatedAt.Day())
}

func TestControlFromDocStatusFallback(t *testing.T) {
	c := ControlFromDoc("c1", store.Document{
		"isoId":  "A.9.2.3",
		"title":  "Access review",
		"status": "Unknown",
	})

	assert.Equal(t, models.ControlPlanned, c.Status)
	assert.Equal(t, "A.9.2.3", c.ISOID)
}

func TestPolicyFromDocDefaults(t *testing.T) {
	p := PolicyFromDoc("p1", store.Document{
		"title":     "Access policy",
		"body":      "...",
		"status":    "Draft",
		"createdAt": "2024-01-15T09:00:00Z",
	})

	assert.Equal(t, models.PolicyValid, p.Status)
	assert.Equal(t, "Access", p.Category)
	assert.Equal(t, "1.0", p.Version)
	// missing updatedAt mirrors createdAt
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}
