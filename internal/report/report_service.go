// Package report implements the incident report lifecycle: residents file
// reports, officials move them through pending, in_progress, resolved and rejected.
package report

import (
	"context"
	"errors"
	"fmt"
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
	Type        string
	Title       string
	Description string
	Location    *string
}

type StatusInput struct {
	Status           string
	OfficialResponse *string
}

// Event is the outbox payload for report changes.
type Event struct {
	ReportID   string              `json:"report_id"`
	Type       models.ReportType   `json:"type"`
	Status     models.ReportStatus `json:"status"`
	PrevStatus models.ReportStatus `json:"prev_status,omitempty"`
	OwnerID    string              `json:"owner_id"`
	ActorID    string              `json:"actor_id"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// Service handles the business logic for reports.
type Service struct {
	Storage     storage.Storage
	Transitions Transitions
	now         func() time.Time
}

func NewService(s storage.Storage, transitions Transitions) *Service {
	return &Service{
		Storage:     s,
		Transitions: transitions,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create files a new pending report owned by actor.
func (s *Service) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Report, error) {
	title := sanitize.Text(in.Title, config.MaxTitleLength)
	if utf8.RuneCountInString(title) < config.MinTitleLength {
		return nil, apperr.Validation("title must be at least %d characters", config.MinTitleLength)
	}
	description := sanitize.Text(in.Description, config.MaxBodyLength)
	if utf8.RuneCountInString(description) < config.MinBodyLength {
		return nil, apperr.Validation("description must be at least %d characters", config.MinBodyLength)
	}

	r := &models.Report{
		Type:        models.NormalizeReportType(in.Type),
		Title:       title,
		Description: description,
		Location:    sanitize.Optional(in.Location, config.MaxLocationLength),
		Status:      models.ReportPending,
		CreatedBy:   actor.ID,
	}

	err := s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		if err := tx.CreateReport(ctx, r); err != nil {
			return err
		}
		if err := audit.Append(ctx, tx, audit.ActionReportCreate, actor.ID,
			fmt.Sprintf("Report submitted: %s (%s)", r.Title, r.Type)); err != nil {
			return err
		}
		return storage.EnqueueEvent(ctx, tx, models.RoutingReportCreated, s.event(r, "", actor.ID))
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	r.CreatedByName = actor.Name
	return r, nil
}

// List returns the caller's own reports, or every report for staff, newest first.
func (s *Service) List(ctx context.Context, actor *models.User) ([]models.Report, error) {
	ownerID, limit := actor.ID, config.ResidentReportPage
	if policy.Authorize(actor.Role, policy.ReportViewAny) {
		ownerID, limit = "", config.StaffReportPage
	}

	reports, err := s.Storage.ListReports(ctx, ownerID, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.resolveNames(ctx, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Service) Get(ctx context.Context, actor *models.User, id string) (*models.Report, error) {
	r, err := s.Storage.GetReport(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !policy.CanAccessReport(actor.Role, actor.ID, r.CreatedBy) {
		return nil, apperr.Forbidden("you can only view your own reports")
	}

	one := []models.Report{*r}
	if err := s.resolveNames(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// UpdateStatus moves a report to a new status and optionally sets the official
// response. The change, its audit entry and its outbox event commit together.
func (s *Service) UpdateStatus(ctx context.Context, actor *models.User, id string, in StatusInput) (*models.Report, error) {
	if err := policy.Require(actor.Role, policy.ReportUpdateStatus); err != nil {
		return nil, err
	}
	status, ok := models.ParseReportStatus(in.Status)
	if !ok {
		return nil, apperr.Validation("invalid status %q", in.Status)
	}

	var updated *models.Report
	err := s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		// concurrent staff updates serialise on the row lock
		r, err := tx.GetReportForUpdate(ctx, id)
		if err != nil {
			return notFound(err)
		}
		prev := r.Status
		if !s.Transitions.Allowed(prev, status) {
			return apperr.Validation("cannot change report status from %s to %s", prev, status)
		}

		r.Status = status
		if status == models.ReportResolved && (prev != models.ReportResolved || r.ResolvedAt == nil) {
			resolvedAt := s.now()
			if resolvedAt.Before(r.CreatedAt) {
				resolvedAt = r.CreatedAt
			}
			r.ResolvedAt = &resolvedAt
		}
		if in.OfficialResponse != nil {
			r.OfficialResponse = sanitize.Optional(in.OfficialResponse, config.MaxResponseLength)
		}

		if err := tx.SaveReport(ctx, r); err != nil {
			return err
		}
		if err := audit.Append(ctx, tx, audit.ActionReportStatusUpdate, actor.ID,
			fmt.Sprintf("Report %s status updated from %s to %s", r.ID, prev, status)); err != nil {
			return err
		}
		if err := storage.EnqueueEvent(ctx, tx, models.RoutingReportStatusUpdated, s.event(r, prev, actor.ID)); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	one := []models.Report{*updated}
	if err := s.resolveNames(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Delete removes a report. Residents may only delete their own.
func (s *Service) Delete(ctx context.Context, actor *models.User, id string) error {
	err := s.Storage.WithinTx(ctx, func(tx storage.Repository) error {
		r, err := tx.GetReport(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if !policy.CanDeleteReport(actor.Role, actor.ID, r.CreatedBy) {
			return apperr.Forbidden("you can only delete your own reports")
		}
		if err := tx.DeleteReport(ctx, r.ID); err != nil {
			return notFound(err)
		}
		if err := audit.Append(ctx, tx, audit.ActionReportDelete, actor.ID,
			fmt.Sprintf("Report deleted: %s", r.Title)); err != nil {
			return err
		}
		return storage.EnqueueEvent(ctx, tx, models.RoutingReportDeleted, s.event(r, "", actor.ID))
	})
	if err != nil {
		return apperr.From(err)
	}
	return nil
}

func (s *Service) resolveNames(ctx context.Context, reports []models.Report) error {
	if len(reports) == 0 {
		return nil
	}
	ids := make([]string, 0, len(reports))
	seen := make(map[string]bool, len(reports))
	for _, r := range reports {
		if !seen[r.CreatedBy] {
			seen[r.CreatedBy] = true
			ids = append(ids, r.CreatedBy)
		}
	}

	names, err := s.Storage.UserNames(ctx, ids)
	if err != nil {
		return apperr.Internal(err)
	}
	for i := range reports {
		reports[i].CreatedByName = names[reports[i].CreatedBy]
	}
	return nil
}

func (s *Service) event(r *models.Report, prev models.ReportStatus, actorID string) Event {
	return Event{
		ReportID:   r.ID,
		Type:       r.Type,
		Status:     r.Status,
		PrevStatus: prev,
		OwnerID:    r.CreatedBy,
		ActorID:    actorID,
		OccurredAt: s.now(),
	}
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("report")
	}
	return err
}
