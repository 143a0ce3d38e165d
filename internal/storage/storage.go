package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"brgyalert/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AlertChannel is the Redis pub/sub channel carrying live alert events.
const AlertChannel = "brgyalert:alerts"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// AlertFilter narrows ListAlerts. Zero values mean "no filter".
type AlertFilter struct {
	ActiveOnly bool
	Since      *time.Time
	Limit      int
}

// Repository is every read and write the services need. The same interface is
// handed to WithinTx callbacks, bound to the open transaction.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, limit int) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role) error
	UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) error
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	UserNames(ctx context.Context, ids []string) (map[string]string, error)
	CountUsersByRole(ctx context.Context) (map[models.Role]int64, error)

	CreateReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	GetReportForUpdate(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context, ownerID string, limit int) ([]models.Report, error)
	SaveReport(ctx context.Context, report *models.Report) error
	DeleteReport(ctx context.Context, id string) error
	CountReportsByStatus(ctx context.Context) (map[models.ReportStatus]int64, error)
	CountReportsByType(ctx context.Context) (map[models.ReportType]int64, error)
	RecentReports(ctx context.Context, limit int) ([]models.Report, error)

	CreateAlert(ctx context.Context, alert *models.Alert) error
	GetAlert(ctx context.Context, id string) (*models.Alert, error)
	GetAlertForUpdate(ctx context.Context, id string) (*models.Alert, error)
	ListAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error)
	SaveAlert(ctx context.Context, alert *models.Alert) error
	DeleteAlert(ctx context.Context, id string) error
	CountAlertsByStatus(ctx context.Context) (map[models.AlertStatus]int64, error)

	AppendLog(ctx context.Context, entry *models.SystemLog) error
	ListLogs(ctx context.Context, limit int) ([]models.SystemLog, error)

	EnqueueOutbox(ctx context.Context, msg *models.OutboxMessage) error
	PendingOutbox(ctx context.Context, limit int) ([]models.OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, id string) error
	MarkOutboxFailed(ctx context.Context, id, reason string) error
	DeletePublishedOutbox(ctx context.Context, before time.Time) (int64, error)
}

type Storage interface {
	Repository

	// WithinTx runs fn in one database transaction. Any error returned by fn,
	// or a panic inside it, rolls back every write made through the tx repository.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	// PublishAlert fans an alert event out to live subscribers.
	PublishAlert(ctx context.Context, event models.AlertEvent) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client

	// LocalFanout receives alert events when no Redis client is configured.
	LocalFanout func(models.AlertEvent)
}

// NewStorageService Constructor. rdb may be nil for single-instance deployments.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

func (s *Service) WithinTx(ctx context.Context, fn func(tx Repository) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis, LocalFanout: s.LocalFanout})
	})
}

// PublishAlert sends an alert event to every live hub, through Redis when configured.
func (s *Service) PublishAlert(ctx context.Context, event models.AlertEvent) error {
	if s.Redis == nil {
		if s.LocalFanout != nil {
			s.LocalFanout(event)
		}
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, AlertChannel, payload).Err()
}

// SubscribeToAlerts opens the pub/sub subscription consumed by the live hub.
func (s *Service) SubscribeToAlerts(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, AlertChannel)
}

func (s *Service) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// translate maps driver and gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// affected turns a zero-row update or delete into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
