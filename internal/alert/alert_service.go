// Package alert manages barangay alerts: officials publish them, every signed-in
// user reads them, and each change is pushed to the live feed.
package alert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/audit"
	"brgyalert/backend/internal/config"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/policy"
	"brgyalert/backend/internal/sanitize"
	"brgyalert/backend/internal/storage"
)

type CreateInput struct {
	Type     string
	Title    string
	Message  string
	Priority string
	Areas    []string
}

// UpdateInput changes only the fields that are non-nil.
type UpdateInput struct {
	Type     *string
	Title    *string
	Message  *string
	Priority *string
	Status   *string
	Areas    *[]string
}

type ListOptions struct {
	ActiveOnly bool
	Since      *time.Time
}

// Service handles the business logic for alerts.
type Service struct {
	Storage storage.Storage
}

func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

func (s *Service) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Alert, error) {
	if err := policy.Require(actor.Role, policy.AlertCreate); err != nil {
		return nil, err
	}

	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	message, err := cleanMessage(in.Message)
	if err != nil {
		return nil, err
	}
	areas, err := cleanAreas(in.Areas)
	if err != nil {
		return nil, err
	}

	a := &models.Alert{
		Type:      models.NormalizeAlertType(in.Type),
		Title:     title,
		Message:   message,
		Priority:  models.NormalizeAlertPriority(in.Priority),
		Status:    models.AlertActive,
		Areas:     areas,
		CreatedBy: actor.ID,
	}

	err = s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		if err := tx.CreateAlert(ctx, a); err != nil {
			return err
		}
		if err := audit.Append(ctx, tx, audit.ActionAlertCreate, actor.ID,
			fmt.Sprintf("Alert created: %s (%s)", a.Title, a.Type)); err != nil {
			return err
		}
		return storage.EnqueueEvent(ctx, tx, models.RoutingAlertCreated, a)
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	a.CreatedByName = actor.Name
	s.publish(ctx, models.EventAlertCreated, a.ID, a)
	return a, nil
}

// List returns the newest alerts first. Since restricts the result to alerts
// created after that instant, for clients polling for new alerts.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]models.Alert, error) {
	alerts, err := s.Storage.ListAlerts(ctx, storage.AlertFilter{
		ActiveOnly: opts.ActiveOnly,
		Since:      opts.Since,
		Limit:      config.AlertPage,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.resolveNames(ctx, alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Alert, error) {
	a, err := s.Storage.GetAlert(ctx, id)
	if err != nil {
		return nil, apperr.From(notFound(err))
	}
	one := []models.Alert{*a}
	if err := s.resolveNames(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *Service) Update(ctx context.Context, actor *models.User, id string, in UpdateInput) (*models.Alert, error) {
	if err := policy.Require(actor.Role, policy.AlertUpdate); err != nil {
		return nil, err
	}

	var updated *models.Alert
	err := s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		a, err := tx.GetAlertForUpdate(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if err := apply(a, in); err != nil {
			return err
		}
		if err := tx.SaveAlert(ctx, a); err != nil {
			return err
		}
		if err := audit.Append(ctx, tx, audit.ActionAlertUpdate, actor.ID,
			fmt.Sprintf("Alert updated: %s (%s, %s)", a.Title, a.Type, a.Status)); err != nil {
			return err
		}
		if err := storage.EnqueueEvent(ctx, tx, models.RoutingAlertUpdated, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	one := []models.Alert{*updated}
	if err := s.resolveNames(ctx, one); err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventAlertUpdated, updated.ID, &one[0])
	return &one[0], nil
}

func (s *Service) Delete(ctx context.Context, actor *models.User, id string) error {
	if err := policy.Require(actor.Role, policy.AlertDelete); err != nil {
		return err
	}

	err := s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		a, err := tx.GetAlert(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if err := tx.DeleteAlert(ctx, a.ID); err != nil {
			return notFound(err)
		}
		if err := audit.Append(ctx, tx, audit.ActionAlertDelete, actor.ID,
			fmt.Sprintf("Alert deleted: %s", a.Title)); err != nil {
			return err
		}
		return storage.EnqueueEvent(ctx, tx, models.RoutingAlertDeleted, models.AlertEvent{
			Type: models.EventAlertDeleted, AlertID: a.ID,
		})
	})
	if err != nil {
		return apperr.From(err)
	}

	s.publish(ctx, models.EventAlertDeleted, id, nil)
	return nil
}

// publish runs after commit. The live feed is best effort: a failed push never
// undoes a stored alert.
func (s *Service) publish(ctx context.Context, eventType, id string, a *models.Alert) {
	event := models.AlertEvent{Type: eventType, AlertID: id, Alert: a}
	if err := s.Storage.PublishAlert(ctx, event); err != nil {
		log.Printf("WARN: failed to publish %s for alert %s: %v", eventType, id, err)
	}
}

func (s *Service) resolveNames(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(alerts))
	seen := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		if !seen[a.CreatedBy] {
			seen[a.CreatedBy] = true
			ids = append(ids, a.CreatedBy)
		}
	}

	names, err := s.Storage.UserNames(ctx, ids)
	if err != nil {
		return apperr.Internal(err)
	}
	for i := range alerts {
		alerts[i].CreatedByName = names[alerts[i].CreatedBy]
	}
	return nil
}

func apply(a *models.Alert, in UpdateInput) error {
	if in.Title != nil {
		title, err := cleanTitle(*in.Title)
		if err != nil {
			return err
		}
		a.Title = title
	}
	if in.Message != nil {
		message, err := cleanMessage(*in.Message)
		if err != nil {
			return err
		}
		a.Message = message
	}
	if in.Type != nil {
		a.Type = models.NormalizeAlertType(*in.Type)
	}
	if in.Priority != nil {
		a.Priority = models.NormalizeAlertPriority(*in.Priority)
	}
	if in.Status != nil {
		status, ok := models.ParseAlertStatus(*in.Status)
		if !ok {
			return apperr.Validation("invalid alert status %q", *in.Status)
		}
		a.Status = status
	}
	if in.Areas != nil {
		areas, err := cleanAreas(*in.Areas)
		if err != nil {
			return err
		}
		a.Areas = areas
	}
	return nil
}

func cleanTitle(raw string) (string, error) {
	title := sanitize.Text(raw, config.MaxTitleLength)
	if utf8.RuneCountInString(title) < config.MinTitleLength {
		return "", apperr.Validation("title must be at least %d characters", config.MinTitleLength)
	}
	return title, nil
}

func cleanMessage(raw string) (string, error) {
	message := sanitize.Text(raw, config.MaxBodyLength)
	if utf8.RuneCountInString(message) < config.MinBodyLength {
		return "", apperr.Validation("message must be at least %d characters", config.MinBodyLength)
	}
	return message, nil
}

// cleanAreas sanitises area names, dropping blanks and case-insensitive duplicates.
func cleanAreas(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, area := range raw {
		v := sanitize.Text(area, config.MaxAreaLength)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	if len(out) > config.MaxAreas {
		return nil, apperr.Validation("at most %d areas may be listed", config.MaxAreas)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("alert")
	}
	return err
}
