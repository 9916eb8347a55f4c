package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bdybsjord/Echomedic/internal/audit"
	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/store"
)

// ControlService mutates security controls. Controls carry no derived fields;
// the flow is validate, persist, audit.
type ControlService struct {
	store store.Store
	audit *audit.Recorder
}

func NewControlService(s store.Store, rec *audit.Recorder) *ControlService {
	return &ControlService{store: s, audit: rec}
}

type ControlInput struct {
	ISOID         string               `json:"isoId"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Status        models.ControlStatus `json:"status"`
	Justification string               `json:"justification"`
	Owner         string               `json:"owner"`
}

type ControlPatch struct {
	ISOID         *string               `json:"isoId"`
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	Status        *models.ControlStatus `json:"status"`
	Justification *string               `json:"justification"`
	Owner         *string               `json:"owner"`
}

func (s *ControlService) List(ctx context.Context) ([]models.Control, error) {
	snaps, err := s.store.List(ctx, store.CollectionControls, "", false)
	if err != nil {
		return nil, fmt.Errorf("list controls: %w", err)
	}
	out := make([]models.Control, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, ControlFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

func (s *ControlService) Get(ctx context.Context, id string) (models.Control, error) {
	doc, err := s.store.Get(ctx, store.CollectionControls, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Control{}, ErrNotFound
	}
	if err != nil {
		return models.Control{}, fmt.Errorf("get control %s: %w", id, err)
	}
	return ControlFromDoc(id, doc), nil
}

func (s *ControlService) Create(ctx context.Context, input ControlInput, actor models.Actor) (string, error) {
	if err := requireActor(actor); err != nil {
		return "", err
	}

	isoID := strings.TrimSpace(input.ISOID)
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if isoID == "" {
		return "", invalidf("isoId is required")
	}
	if title == "" {
		return "", invalidf("title is required")
	}
	if description == "" {
		return "", invalidf("description is required")
	}

	status := input.Status
	if status == "" {
		status = models.ControlPlanned
	}
	if !status.Valid() {
		return "", invalidf("unknown status %q", status)
	}

	payload := store.Document{
		"isoId":       isoID,
		"title":       title,
		"description": description,
		"status":      string(status),
	}
	addIfString(payload, "justification", input.Justification)
	addIfString(payload, "owner", input.Owner)

	id, err := s.store.Add(ctx, store.CollectionControls, payload)
	if err != nil {
		return "", fmt.Errorf("create control: %w", err)
	}

	recordAudit(ctx, s.audit, audit.Event{
		Action:      audit.ActionControlCreated,
		ControlID:   id,
		Description: fmt.Sprintf("New control created: %s - %s", isoID, title),
		Actor:       actor,
		After:       payload,
	})
	return id, nil
}

func (s *ControlService) Update(ctx context.Context, id string, patch ControlPatch, actor models.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	before, err := s.store.Get(ctx, store.CollectionControls, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update control %s: %w", id, err)
	}

	update := store.Document{}
	if patch.ISOID != nil {
		v := strings.TrimSpace(*patch.ISOID)
		if v == "" {
			return invalidf("isoId is required")
		}
		update["isoId"] = v
	}
	if patch.Title != nil {
		v := strings.TrimSpace(*patch.Title)
		if v == "" {
			return invalidf("title is required")
		}
		update["title"] = v
	}
	if patch.Description != nil {
		v := strings.TrimSpace(*patch.Description)
		if v == "" {
			return invalidf("description is required")
		}
		update["description"] = v
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return invalidf("unknown status %q", *patch.Status)
		}
		update["status"] = string(*patch.Status)
	}
	if patch.Justification != nil {
		update["justification"] = strings.TrimSpace(*patch.Justification)
	}
	if patch.Owner != nil {
		update["owner"] = strings.TrimSpace(*patch.Owner)
	}
	if len(update) == 0 {
		return nil
	}

	if err := s.store.Update(ctx, store.CollectionControls, id, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update control %s: %w", id, err)
	}

	recordAudit(ctx, s.audit, audit.Event{
		Action:      audit.ActionControlUpdated,
		ControlID:   id,
		Description: fmt.Sprintf("Control updated (%s)", id),
		Actor:       actor,
		Before:      before,
		After:       update,
	})
	return nil
}

func (s *ControlService) Delete(ctx context.Context, id string, actor models.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	before, err := s.store.Get(ctx, store.CollectionControls, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete control %s: %w", id, err)
	}

	if err := s.store.Delete(ctx, store.CollectionControls, id); err != nil {
		return fmt.Errorf("delete control %s: %w", id, err)
	}

	recordAudit(ctx, s.audit, audit.Event{
		Action:      audit.ActionControlDeleted,
		ControlID:   id,
		Description: fmt.Sprintf("Control deleted (%s)", id),
		Actor:       actor,
		Before:      before,
	})
	return nil
}
