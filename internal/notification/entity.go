// AngelaMos | 2026
// entity.go

package notification

import "time"

type Notification struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// UserNotification is a notification joined with one recipient's read
// state.
type UserNotification struct {
	ID        string     `db:"id"`
	Title     string     `db:"title"`
	Message   string     `db:"message"`
	ReadAt    *time.Time `db:"read_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (n *UserNotification) Read() bool {
	return n.ReadAt != nil
}
