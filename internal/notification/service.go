// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/stillmind/internal/user"
)

// UserLister is the slice of the user repository the dispatcher needs
// to resolve a tenant's recipients.
type UserLister interface {
	ListByCompany(ctx context.Context, companyID string) ([]user.User, error)
}

type Service struct {
	repo   Repository
	users  UserLister
	logger *slog.Logger
}

func NewService(repo Repository, users UserLister, logger *slog.Logger) *Service {
	return &Service{repo: repo, users: users, logger: logger}
}

// CreateForUsers writes one notification fanned out to the given
// recipients.
func (s *Service) CreateForUsers(
	ctx context.Context,
	title, message string,
	userIDs []string,
) (*Notification, error) {
	notification := &Notification{
		ID:      uuid.New().String(),
		Title:   title,
		Message: message,
	}

	if err := s.repo.Create(ctx, notification, userIDs); err != nil {
		return nil, err
	}

	s.logger.Info("notification created",
		"notification_id", notification.ID,
		"recipients", len(userIDs),
	)

	return notification, nil
}

// CreateForCompany fans a notification out to every user of the tenant.
func (s *Service) CreateForCompany(
	ctx context.Context,
	companyID, title, message string,
) (*Notification, error) {
	users, err := s.users.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	return s.CreateForUsers(ctx, title, message, userIDs)
}

// NotifyPromotion announces a new promotion code to the tenant's users.
func (s *Service) NotifyPromotion(
	ctx context.Context,
	companyID, code string,
) error {
	_, err := s.CreateForCompany(
		ctx,
		companyID,
		"New promotion available",
		fmt.Sprintf("A new promotion code is available: %s", code),
	)
	return err
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID string,
) ([]UserNotification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(
	ctx context.Context,
	userID, notificationID string,
) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
