// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/stillmind/internal/core"
)

type Repository interface {
	Create(
		ctx context.Context,
		notification *Notification,
		userIDs []string,
	) error
	ListForUser(ctx context.Context, userID string) ([]UserNotification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	notification *Notification,
	userIDs []string,
) error {
	insertQuery := `
		INSERT INTO notifications (id, title, message)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, notification, insertQuery,
		notification.ID,
		notification.Title,
		notification.Message,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	recipientQuery := `
		INSERT INTO notification_recipients (notification_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (notification_id, user_id) DO NOTHING`
	for _, userID := range userIDs {
		if _, err := r.db.ExecContext(
			ctx, recipientQuery, notification.ID, userID,
		); err != nil {
			return fmt.Errorf("create notification recipient: %w", err)
		}
	}

	return nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
) ([]UserNotification, error) {
	query := `
		SELECT n.id, n.title, n.message, nr.read_at, n.created_at
		FROM notifications n
		JOIN notification_recipients nr ON nr.notification_id = n.id
		WHERE nr.user_id = $1
		ORDER BY n.created_at DESC`

	var notifications []UserNotification
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

func (r *repository) CountUnread(
	ctx context.Context,
	userID string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notification_recipients
		WHERE user_id = $1 AND read_at IS NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

func (r *repository) MarkRead(
	ctx context.Context,
	userID, notificationID string,
) error {
	// COALESCE keeps the original read time when the client retries.
	query := `
		UPDATE notification_recipients
		SET read_at = COALESCE(read_at, NOW())
		WHERE user_id = $1 AND notification_id = $2
		RETURNING notification_id`

	var id string
	err := r.db.GetContext(ctx, &id, query, userID, notificationID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("mark notification read: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID string) error {
	query := `
		UPDATE notification_recipients
		SET read_at = NOW()
		WHERE user_id = $1 AND read_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	return nil
}
