package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bdybsjord/Echomedic/internal/audit"
	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/store"
)

// PolicyService mutates governance policies. updatedAt is refreshed on every
// write, createdAt is set once.
type PolicyService struct {
	store store.Store
	audit *audit.Recorder
}

func NewPolicyService(s store.Store, rec *audit.Recorder) *PolicyService {
	return &PolicyService{store: s, audit: rec}
}

type PolicyInput struct {
	Title    string              `json:"title"`
	Category string              `json:"category"`
	Version  string              `json:"version"`
	Body     string              `json:"body"`
	Status   models.PolicyStatus `json:"status"`
}

type PolicyPatch struct {
	Title    *string              `json:"title"`
	Category *string              `json:"category"`
	Version  *string              `json:"version"`
	Body     *string              `json:"body"`
	Status   *models.PolicyStatus `json:"status"`
}

func (s *PolicyService) List(ctx context.Context) ([]models.Policy, error) {
	snaps, err := s.store.List(ctx, store.CollectionPolicies, "updatedAt", true)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	out := make([]models.Policy, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, PolicyFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

func (s *PolicyService) Get(ctx context.Context, id string) (models.Policy, error) {
	doc, err := s.store.Get(ctx, store.CollectionPolicies, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Policy{}, ErrNotFound
	}
	if err != nil {
		return models.Policy{}, fmt.Errorf("get policy %s: %w", id, err)
	}
	return PolicyFromDoc(id, doc), nil
}

func (s *PolicyService) Create(ctx context.Context, input PolicyInput, actor models.Actor) (string, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}

	title := strings.TrimSpace(input.Title)
	version := strings.TrimSpace(input.Version)
	body := strings.TrimSpace(input.Body)
	if title == "" {
		return "", invalidf("title is required")
	}
	if version == "" {
		return "", invalidf("version is required")
	}
	if body == "" {
		return "", invalidf("body is required")
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "Access"
	}
	status := input.Status
	if status == "" {
		status = models.PolicyValid
	}
	if !status.Valid() {
		return "", invalidf("unknown status %q", status)
	}

	now := time.Now().UTC()
	payload := store.Document{
		"title":     title,
		"category":  category,
		"version":   version,
		"body":      body,
		"status":    string(status),
		"createdAt": now,
		"updatedAt": now,
	}

	id, err := s.store.Add(ctx, store.CollectionPolicies, payload)
	if err != nil {
		return "", fmt.Errorf("create policy: %w", err)
	}

	recordAudit(ctx, s.audit, audit.Event{
		Action:      audit.ActionPolicyCreated,
		PolicyID:    id,
		Description: fmt.Sprintf("New policy created: %s (v%s)", title, version),
		Actor:       actor,
		After:       payload,
	})
	return id, nil
}

func (s *PolicyService) Update(ctx context.Context, id string, patch PolicyPatch, actor models.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	before, err := s.store.Get(ctx, store.CollectionPolicies, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update policy %s: %w", id, err)
	}

	update := store.Document{}
	if patch.Title != nil {
		v := strings.TrimSpace(*patch.Title)
		if v == "" {
			return invalidf("title is required")
		}
		update["title"] = v
	}
	if patch.Category != nil {
		update["category"] = strings.TrimSpace(*patch.Category)
	}
	if patch.Version != nil {
		v := strings.TrimSpace(*patch.Version)
		if v == "" {
			return invalidf("version is required")
		}
		update["version"] = v
	}
	if patch.Body != nil {
		v := strings.TrimSpace(*patch.Body)
		if v == "" {
			return invalidf("body is required")
		}
		update["body"] = v
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return invalidf("unknown status %q", *patch.Status)
		}
		update["status"] = string(*patch.Status)
	}
	update["updatedAt"] = time.Now().UTC()

	if err := s.store.Update(ctx, store.CollectionPolicies, id, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update policy %s: %w", id, err)
	}

	recordAudit(ctx, s.audit, audit.Event{
		Action:      audit.ActionPolicyUpdated,
		PolicyID:    id,
		Description: fmt.Sprintf("Policy updated (%s)", id),
		Actor:       actor,
		Before:      before,
		After:       update,
	})
	return nil
}

func (s *PolicyService) Delete(ctx context.Context, id string, actor models.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	before, err := s.store.Get(ctx, store.CollectionPolicies, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete policy %s: %w", id, err)
	}

	if err := s.store.Delete(ctx, store.CollectionPolicies, id); err != nil {
		return fmt.Errorf("delete policy %s: %w", id, err)
	}

	recordAudit(ctx, s.audit, audit.Event{
		Action:      audit.ActionPolicyDeleted,
		PolicyID:    id,
		Description: fmt.Sprintf("Policy deleted (%s)", id),
		Actor:       actor,
		Before:      before,
	})
	return nil
}
