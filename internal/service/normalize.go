package service

import (
	"math"
	"strings"
	"time"

	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/scoring"
	"github.com/bdybsjord/Echomedic/internal/store"
)

// This file is the single path from raw stored documents to typed entities.
// List queries and single-record fetches go through the same functions, so
// defaulting and recompute rules cannot diverge between the two.

// RiskFromDoc normalizes a stored risk document. A stored score/level is
// trusted when well-typed; otherwise it is recomputed from the document's own
// likelihood/consequence. Residual fields surface all-or-nothing.
func RiskFromDoc(id string, data store.Document) models.Risk {
	likelihood, ok := asInt(data["likelihood"])
	if !ok {
		likelihood = 1
	}
	consequence, ok := asInt(data["consequence"])
	if !ok {
		consequence = 1
	}

	score, ok := asInt(data["score"])
	if !ok {
		score = scoring.Score(likelihood, consequence)
	}
	level := models.RiskLevel(asString(data["level"]))
	if !level.Valid() {
		level = scoring.Level(score)
	}
	status := models.RiskStatus(asString(data["status"]))
	if !status.Valid() {
		status = models.StatusOpen
	}

	r := models.Risk{
		ID:          id,
		Title:       asString(data["title"]),
		Description: asString(data["description"]),
		Measures:    asString(data["measures"]),
		Owner:       asString(data["owner"]),
		Likelihood:  likelihood,
		Consequence: consequence,
		Score:       score,
		Level:       level,
		Status:      status,
		CreatedAt:   timeOrNow(data["createdAt"]),
		UpdatedAt:   timeOrNow(data["updatedAt"]),
	}

	if s := strings.TrimSpace(asString(data["reportId"])); s != "" {
		r.ReportID = s
	}
	if c := models.RiskCategory(asString(data["category"])); c.Valid() {
		r.Category = c
	}
	if t := models.RiskTreatment(asString(data["treatment"])); t.Valid() {
		r.Treatment = t
	}
	if t := models.TreatmentStatus(asString(data["treatmentStatus"])); t.Valid() {
		r.TreatmentStatus = t
	}
	if h, ok := asNumber(data["estimatedHours"]); ok {
		r.EstimatedHours = &h
	}

	r.AffectedAssets = asStringSlice(data["affectedAssets"])
	r.ControlIDs = asStringSlice(data["controlIds"])
	r.PolicyIDs = asStringSlice(data["policyIds"])

	rl, okL := asInt(data["residualLikelihood"])
	rc, okC := asInt(data["residualConsequence"])
	if okL && okC && inRange(rl) && inRange(rc) {
		rs, ok := asInt(data["residualScore"])
		if !ok {
			rs = scoring.Score(rl, rc)
		}
		rlevel := models.RiskLevel(asString(data["residualLevel"]))
		if !rlevel.Valid() {
			rlevel = scoring.Level(rs)
		}
		r.ResidualLikelihood = &rl
		r.ResidualConsequence = &rc
		r.ResidualScore = &rs
		r.ResidualLevel = rlevel
	}

	return r
}

// ControlFromDoc normalizes a stored control document. Unknown status falls
// back to Planned.
func ControlFromDoc(id string, data store.Document) models.Control {
	status := models.ControlStatus(asString(data["status"]))
	if !status.Valid() {
		status = models.ControlPlanned
	}
	return models.Control{
		ID:            id,
		ISOID:         asString(data["isoId"]),
		Title:         asString(data["title"]),
		Description:   asString(data["description"]),
		Status:        status,
		Justification: asString(data["justification"]),
		Owner:         asString(data["owner"]),
	}
}

// PolicyFromDoc normalizes a stored policy document. Unknown status falls
// back to Valid; a missing updatedAt mirrors createdAt.
func PolicyFromDoc(id string, data store.Document) models.Policy {
	status := models.PolicyStatus(asString(data["status"]))
	if !status.Valid() {
		status = models.PolicyValid
	}

	category := asString(data["category"])
	if category == "" {
		category = "Access"
	}
	version := asString(data["version"])
	if version == "" {
		version = "1.0"
	}

	createdAt := timeOrNow(data["createdAt"])
	updatedAt, ok := asTime(data["updatedAt"])
	if !ok {
		updatedAt = createdAt
	}

	return models.Policy{
		ID:        id,
		Title:     asString(data["title"]),
		Category:  category,
		Version:   version,
		Body:      asString(data["body"]),
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

func inRange(n int) bool { return n >= 1 && n <= 5 }

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	f, ok := asNumber(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// asStringSlice returns nil unless every element is a string. Mixed arrays
// are treated as absent, never coerced.
func asStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		if len(s) == 0 {
			return nil
		}
		out := make([]string, len(s))
		copy(out, s)
		return out
	case []any:
		if len(s) == 0 {
			return nil
		}
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil
			}
			out = append(out, str)
		}
		return out
	}
	return nil
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

// timeOrNow substitutes the current time for a missing timestamp. Degraded
// fallback, not a normal path.
func timeOrNow(v any) time.Time {
	if t, ok := asTime(v); ok {
		return t
	}
	return time.Now().UTC()
}
