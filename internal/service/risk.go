package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bdybsjord/Echomedic/internal/audit"
	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/scoring"
	"github.com/bdybsjord/Echomedic/internal/store"
)

// RiskService orchestrates risk mutations: validate, normalize, derive score,
// persist, audit. Score and level are always recomputed on write, never taken
// from the caller.
type RiskService struct {
	store store.Store
	audit *audit.Recorder
}

func NewRiskService(s store.Store, rec *audit.Recorder) *RiskService {
	return &RiskService{store: s, audit: rec}
}

type RiskInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Measures    string            `json:"measures"`
	Owner       string            `json:"owner"`
	Status      models.RiskStatus `json:"status"`
	Likelihood  int               `json:"likelihood"`
	Consequence int               `json:"consequence"`

	ReportID        string                 `json:"reportId"`
	Category        models.RiskCategory    `json:"category"`
	Treatment       models.RiskTreatment   `json:"treatment"`
	TreatmentStatus models.TreatmentStatus `json:"treatmentStatus"`
	EstimatedHours  *float64               `json:"estimatedHours"`

	AffectedAssets []string `json:"affectedAssets"`
	ControlIDs     []string `json:"controlIds"`
	PolicyIDs      []string `json:"policyIds"`

	ResidualLikelihood  *int `json:"residualLikelihood"`
	ResidualConsequence *int `json:"residualConsequence"`
}

// RiskPatch is a partial update; nil fields keep the stored value.
type RiskPatch struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Measures    *string            `json:"measures"`
	Owner       *string            `json:"owner"`
	Status      *models.RiskStatus `json:"status"`
	Likelihood  *int               `json:"likelihood"`
	Consequence *int               `json:"consequence"`

	ReportID        *string                 `json:"reportId"`
	Category        *models.RiskCategory    `json:"category"`
	Treatment       *models.RiskTreatment   `json:"treatment"`
	TreatmentStatus *models.TreatmentStatus `json:"treatmentStatus"`
	EstimatedHours  *float64                `json:"estimatedHours"`

	AffectedAssets []string `json:"affectedAssets"`
	ControlIDs     []string `json:"controlIds"`
	PolicyIDs      []string `json:"policyIds"`

	ResidualLikelihood  *int `json:"residualLikelihood"`
	ResidualConsequence *int `json:"residualConsequence"`
}

func (s *RiskService) List(ctx context.Context) ([]models.Risk, error) {
	snaps, err := s.store.List(ctx, store.CollectionRisks, "createdAt", true)
	if err != nil {
		return nil, fmt.Errorf("list risks: %w", err)
	}
	out := make([]models.Risk, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, RiskFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

func (s *RiskService) Get(ctx context.Context, id string) (models.Risk, error) {
	doc, err := s.store.Get(ctx, store.CollectionRisks, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Risk{}, ErrNotFound
	}
	if err != nil {
		return models.Risk{}, fmt.Errorf("get risk %s: %w", id, err)
	}
	return RiskFromDoc(id, doc), nil
}

func (s *RiskService) Create(ctx context.Context, input RiskInput, actor models.Actor) (string, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}

	title := strings.TrimSpace(input.Title)
	owner := strings.TrimSpace(input.Owner)
	if title == "" {
		return "", invalidf("title is required")
	}
	if owner == "" {
		return "", invalidf("owner is required")
	}
	if !inRange(input.Likelihood) {
		return "", invalidf("likelihood must be between 1 and 5")
	}
	if !inRange(input.Consequence) {
		return "", invalidf("consequence must be between 1 and 5")
	}

	status := input.Status
	if status == "" {
		status = models.StatusOpen
	}
	if !status.Valid() {
		return "", invalidf("unknown status %q", status)
	}
	if input.Category != "" && !input.Category.Valid() {
		return "", invalidf("unknown category %q", input.Category)
	}
	if input.Treatment != "" && !input.Treatment.Valid() {
		return "", invalidf("unknown treatment %q", input.Treatment)
	}
	if input.TreatmentStatus != "" && !input.TreatmentStatus.Valid() {
		return "", invalidf("unknown treatment status %q", input.TreatmentStatus)
	}
	if input.EstimatedHours != nil && *input.EstimatedHours < 0 {
		return "", invalidf("estimatedHours must not be negative")
	}
	if err := validateResidualPair(input.ResidualLikelihood, input.ResidualConsequence); err != nil {
		return "", err
	}

	score := scoring.Score(input.Likelihood, input.Consequence)
	level := scoring.Level(score)
	now := time.Now().UTC()

	// sparse payload: absent optional fields are never written as nulls
	payload := store.Document{
		"title":       title,
		"owner":       owner,
		"status":      string(status),
		"likelihood":  input.Likelihood,
		"consequence": input.Consequence,
		"score":       score,
		"level":       string(level),
		"createdAt":   now,
		"updatedAt":   now,
	}
	addIfString(payload, "description", input.Description)
	addIfString(payload, "measures", input.Measures)
	addIfString(payload, "reportId", input.ReportID)
	if input.Category != "" {
		payload["category"] = string(input.Category)
	}
	if input.Treatment != "" {
		payload["treatment"] = string(input.Treatment)
	}
	if input.TreatmentStatus != "" {
		payload["treatmentStatus"] = string(input.TreatmentStatus)
	}
	if input.EstimatedHours != nil {
		payload["estimatedHours"] = *input.EstimatedHours
	}
	addIfStringSlice(payload, "affectedAssets", input.AffectedAssets)
	addIfStringSlice(payload, "controlIds", input.ControlIDs)
	addIfStringSlice(payload, "policyIds", input.PolicyIDs)
	if input.ResidualLikelihood != nil && input.ResidualConsequence != nil {
		rs := scoring.Score(*input.ResidualLikelihood, *input.ResidualConsequence)
		payload["residualLikelihood"] = *input.ResidualLikelihood
		payload["residualConsequence"] = *input.ResidualConsequence
		payload["residualScore"] = rs
		payload["residualLevel"] = string(scoring.Level(rs))
	}

	id, err := s.store.Add(ctx, store.CollectionRisks, payload)
	if err != nil {
		return "", fmt.Errorf("create risk: %w", err)
	}

	recordAudit(ctx, s.audit, audit.Event{
		Action:      audit.ActionRiskCreated,
		RiskID:      id,
		Description: "Risk created: " + title,
		Actor:       actor,
		After:       payload,
	})
	return id, nil
}

func (s *RiskService) Update(ctx context.Context, id string, patch RiskPatch, actor models.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	before, err := s.store.Get(ctx, store.CollectionRisks, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update risk %s: %w", id, err)
	}

	// only caller-supplied values are validated; inherited stored values get
	// the same defaulting the normalizer applies
	if patch.Likelihood != nil && !inRange(*patch.Likelihood) {
		return invalidf("likelihood must be between 1 and 5")
	}
	if patch.Consequence != nil && !inRange(*patch.Consequence) {
		return invalidf("consequence must be between 1 and 5")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return invalidf("unknown status %q", *patch.Status)
	}
	if patch.Category != nil && *patch.Category != "" && !patch.Category.Valid() {
		return invalidf("unknown category %q", *patch.Category)
	}
	if patch.Treatment != nil && *patch.Treatment != "" && !patch.Treatment.Valid() {
		return invalidf("unknown treatment %q", *patch.Treatment)
	}
	if patch.TreatmentStatus != nil && *patch.TreatmentStatus != "" && !patch.TreatmentStatus.Valid() {
		return invalidf("unknown treatment status %q", *patch.TreatmentStatus)
	}
	if patch.EstimatedHours != nil && *patch.EstimatedHours < 0 {
		return invalidf("estimatedHours must not be negative")
	}
	if patch.ResidualLikelihood != nil && !inRange(*patch.ResidualLikelihood) {
		return invalidf("residualLikelihood must be between 1 and 5")
	}
	if patch.ResidualConsequence != nil && !inRange(*patch.ResidualConsequence) {
		return invalidf("residualConsequence must be between 1 and 5")
	}

	title := strings.TrimSpace(mergeString(patch.Title, before["title"]))
	owner := strings.TrimSpace(mergeString(patch.Owner, before["owner"]))
	if title == "" {
		return invalidf("title is required")
	}
	if owner == "" {
		return invalidf("owner is required")
	}

	likelihood := mergeInt(patch.Likelihood, before["likelihood"], 1)
	consequence := mergeInt(patch.Consequence, before["consequence"], 1)
	score := scoring.Score(likelihood, consequence)
	level := scoring.Level(score)

	status := models.StatusOpen
	if patch.Status != nil {
		status = *patch.Status
	} else if st := models.RiskStatus(asString(before["status"])); st.Valid() {
		status = st
	}

	now := time.Now().UTC()
	update := store.Document{
		"title":       title,
		"owner":       owner,
		"status":      string(status),
		"likelihood":  likelihood,
		"consequence": consequence,
		"score":       score,
		"level":       string(level),
		"createdAt":   timeOrNow(before["createdAt"]), // never altered
		"updatedAt":   now,
	}
	addIfString(update, "description", mergeString(patch.Description, before["description"]))
	addIfString(update, "measures", mergeString(patch.Measures, before["measures"]))
	addIfString(update, "reportId", mergeString(patch.ReportID, before["reportId"]))

	if patch.Category != nil {
		if *patch.Category != "" {
			update["category"] = string(*patch.Category)
		}
	} else if c := models.RiskCategory(asString(before["category"])); c.Valid() {
		update["category"] = string(c)
	}
	if patch.Treatment != nil {
		if *patch.Treatment != "" {
			update["treatment"] = string(*patch.Treatment)
		}
	} else if t := models.RiskTreatment(asString(before["treatment"])); t.Valid() {
		update["treatment"] = string(t)
	}
	if patch.TreatmentStatus != nil {
		if *patch.TreatmentStatus != "" {
			update["treatmentStatus"] = string(*patch.TreatmentStatus)
		}
	} else if t := models.TreatmentStatus(asString(before["treatmentStatus"])); t.Valid() {
		update["treatmentStatus"] = string(t)
	}
	if patch.EstimatedHours != nil {
		update["estimatedHours"] = *patch.EstimatedHours
	} else if h, ok := asNumber(before["estimatedHours"]); ok {
		update["estimatedHours"] = h
	}

	assets := patch.AffectedAssets
	if assets == nil {
		assets = asStringSlice(before["affectedAssets"])
	}
	addIfStringSlice(update, "affectedAssets", assets)

	controlIDs := patch.ControlIDs
	if controlIDs == nil {
		controlIDs = asStringSlice(before["controlIds"])
	}
	addIfStringSlice(update, "controlIds", controlIDs)

	policyIDs := patch.PolicyIDs
	if policyIDs == nil {
		policyIDs = asStringSlice(before["policyIds"])
	}
	addIfStringSlice(update, "policyIds", policyIDs)

	// residual written only when the merged pair is co-present and in range;
	// stale stored residuals are filtered by the normalizer on read
	rl, okL := mergeOptInt(patch.ResidualLikelihood, before["residualLikelihood"])
	rc, okC := mergeOptInt(patch.ResidualConsequence, before["residualConsequence"])
	if okL && okC && inRange(rl) && inRange(rc) {
		rs := scoring.Score(rl, rc)
		update["residualLikelihood"] = rl
		update["residualConsequence"] = rc
		update["residualScore"] = rs
		update["residualLevel"] = string(scoring.Level(rs))
	}

	if err := s.store.Update(ctx, store.CollectionRisks, id, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update risk %s: %w", id, err)
	}

	recordAudit(ctx, s.audit, audit.Event{
		Action:      audit.ActionRiskUpdated,
		RiskID:      id,
		Description: fmt.Sprintf("Risk updated (%s)", id),
		Actor:       actor,
		Before:      before,
		After:       update,
	})
	return nil
}

// Delete removes a risk. A missing id is an idempotent no-op and writes no
// audit entry.
func (s *RiskService) Delete(ctx context.Context, id string, actor models.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	before, err := s.store.Get(ctx, store.CollectionRisks, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete risk %s: %w", id, err)
	}

	if err := s.store.Delete(ctx, store.CollectionRisks, id); err != nil {
		return fmt.Errorf("delete risk %s: %w", id, err)
	}

	recordAudit(ctx, s.audit, audit.Event{
		Action:      audit.ActionRiskDeleted,
		RiskID:      id,
		Description: fmt.Sprintf("Risk deleted (%s)", id),
		Actor:       actor,
		Before:      before,
	})
	return nil
}

func requireActor(actor models.Actor) error {
	if actor.UserID == "" {
		return invalidf("actor is required")
	}
	return nil
}

func validateResidualPair(l, c *int) error {
	if (l == nil) != (c == nil) {
		return invalidf("residualLikelihood and residualConsequence must be set together")
	}
	if l != nil {
		if !inRange(*l) {
			return invalidf("residualLikelihood must be between 1 and 5")
		}
		if !inRange(*c) {
			return invalidf("residualConsequence must be between 1 and 5")
		}
	}
	return nil
}

// recordAudit reports append failures without failing the committed mutation.
func recordAudit(ctx context.Context, rec *audit.Recorder, e audit.Event) {
	if err := rec.Record(ctx, e); err != nil {
		log.Printf("audit append failed (%s): %v", e.Action, err)
	}
}

func addIfString(doc store.Document, key, v string) {
	if s := strings.TrimSpace(v); s != "" {
		doc[key] = s
	}
}

func addIfStringSlice(doc store.Document, key string, v []string) {
	if len(v) == 0 {
		return
	}
	doc[key] = v
}

func mergeString(p *string, raw any) string {
	if p != nil {
		return *p
	}
	return asString(raw)
}

func mergeInt(p *int, raw any, def int) int {
	if p != nil {
		return *p
	}
	if n, ok := asInt(raw); ok {
		return n
	}
	return def
}

func mergeOptInt(p *int, raw any) (int, bool) {
	if p != nil {
		return *p, true
	}
	return asInt(raw)
}
