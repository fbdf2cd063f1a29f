// AngelaMos | 2026
// service.go

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/stillmind/internal/billing"
	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
)

const newUserWindow = 7 * 24 * time.Hour

// UserCounter is the slice of the user repository the analytics need.
type UserCounter interface {
	CountTotal(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// BillingAnalytics is the slice of the billing service the analytics
// need.
type BillingAnalytics interface {
	CountPaymentsToday(ctx context.Context) (int, error)
	ExpiringWithin(
		ctx context.Context,
		window time.Duration,
	) ([]billing.SubscriptionDetail, error)
}

type Service struct {
	repo    Repository
	dir     *directory.Directory
	users   UserCounter
	billing BillingAnalytics
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	dir *directory.Directory,
	users UserCounter,
	billingSvc BillingAnalytics,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		dir:     dir,
		users:   users,
		billing: billingSvc,
		logger:  logger,
	}
}

func (s *Service) Create(ctx context.Context, req CreateAdminRequest) (*Admin, error) {
	email := directory.NormalizeEmail(req.Email)

	taken, err := s.dir.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("create admin: %w", core.ErrDuplicateKey)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	admin := &Admin{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("admin created", "admin_id", admin.ID, "email", admin.Email)

	return admin, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Admin, error) {
	return s.repo.List(ctx)
}

func (s *Service) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return s.repo.SetBlocked(ctx, id, blocked)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Analytics aggregates the platform dashboard numbers. Billing figures
// degrade to zero with a warning when the provider is unreachable so
// the user counts still render.
func (s *Service) Analytics(ctx context.Context) (*AnalyticsResponse, error) {
	total, err := s.users.CountTotal(ctx)
	if err != nil {
		return nil, err
	}

	active, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	newUsers, err := s.users.CountCreatedSince(
		ctx, time.Now().Add(-newUserWindow))
	if err != nil {
		return nil, err
	}

	paymentsToday := 0
	expiringTomorrow := 0
	if s.billing != nil {
		paymentsToday, err = s.billing.CountPaymentsToday(ctx)
		if err != nil {
			s.logger.Warn("payments-today lookup failed", "error", err)
			paymentsToday = 0
		}

		expiring, expErr := s.billing.ExpiringWithin(ctx, 24*time.Hour)
		if expErr != nil {
			s.logger.Warn("expiring-subscriptions lookup failed", "error", expErr)
		} else {
			expiringTomorrow = len(expiring)
		}
	}

	return &AnalyticsResponse{
		TotalUsers:           total,
		ActiveUsers:          active,
		NewUsersLastWeek:     newUsers,
		PaymentsToday:        paymentsToday,
		SubsExpiringTomorrow: expiringTomorrow,
	}, nil
}
