// AngelaMos | 2026
// service_test.go

package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/user"
)

type fakeRepo struct {
	notifications map[string]*Notification
	recipients    map[string][]string
	read          map[string]time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		notifications: make(map[string]*Notification),
		recipients:    make(map[string][]string),
		read:          make(map[string]time.Time),
	}
}

func (f *fakeRepo) Create(
	_ context.Context,
	n *Notification,
	userIDs []string,
) error {
	clone := *n
	clone.CreatedAt = time.Now()
	f.notifications[n.ID] = &clone
	f.recipients[n.ID] = append([]string(nil), userIDs...)
	n.CreatedAt = clone.CreatedAt
	return nil
}

func (f *fakeRepo) ListForUser(
	_ context.Context,
	userID string,
) ([]UserNotification, error) {
	var out []UserNotification
	for id, n := range f.notifications {
		for _, recipient := range f.recipients[id] {
			if recipient != userID {
				continue
			}
			un := UserNotification{
				ID:        n.ID,
				Title:     n.Title,
				Message:   n.Message,
				CreatedAt: n.CreatedAt,
			}
			if at, ok := f.read[userID+"/"+id]; ok {
				un.ReadAt = &at
			}
			out = append(out, un)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountUnread(
	ctx context.Context,
	userID string,
) (int, error) {
	all, err := f.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range all {
		if !n.Read() {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkRead(
	_ context.Context,
	userID, notificationID string,
) error {
	found := false
	for _, recipient := range f.recipients[notificationID] {
		if recipient == userID {
			found = true
		}
	}
	if !found {
		return core.ErrNotFound
	}
	key := userID + "/" + notificationID
	if _, ok := f.read[key]; !ok {
		f.read[key] = time.Now()
	}
	return nil
}

func (f *fakeRepo) MarkAllRead(ctx context.Context, userID string) error {
	for id := range f.notifications {
		if err := f.MarkRead(ctx, userID, id); err != nil &&
			!errors.Is(err, core.ErrNotFound) {
			return err
		}
	}
	return nil
}

type fakeUsers struct {
	byCompany map[string][]user.User
}

func (f *fakeUsers) ListByCompany(
	_ context.Context,
	companyID string,
) ([]user.User, error) {
	return f.byCompany[companyID], nil
}

func newNotificationService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	users := &fakeUsers{
		byCompany: map[string][]user.User{
			"comp-1": {{ID: "user-1"}, {ID: "user-2"}},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, users, logger), repo
}

func TestCreateForCompanyFansOut(t *testing.T) {
	svc, repo := newNotificationService()
	ctx := context.Background()

	n, err := svc.CreateForCompany(ctx, "comp-1", "Maintenance", "Back at noon.")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, repo.recipients[n.ID])

	got, err := svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Maintenance", got[0].Title)
	assert.False(t, got[0].Read())
}

func TestNotifyPromotionReachesTenantUsers(t *testing.T) {
	svc, _ := newNotificationService()
	ctx := context.Background()

	require.NoError(t, svc.NotifyPromotion(ctx, "comp-1", "SUMMER20"))

	got, err := svc.ListForUser(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "SUMMER20")
}

func TestMarkReadFlow(t *testing.T) {
	svc, _ := newNotificationService()
	ctx := context.Background()

	n, err := svc.CreateForCompany(ctx, "comp-1", "Maintenance", "Back at noon.")
	require.NoError(t, err)

	unread, err := svc.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	require.NoError(t, svc.MarkRead(ctx, "user-1", n.ID))

	unread, err = svc.CountUnread(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	// Marking again is harmless.
	require.NoError(t, svc.MarkRead(ctx, "user-1", n.ID))

	err = svc.MarkRead(ctx, "user-3", n.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}
