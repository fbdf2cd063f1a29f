// AngelaMos | 2026
// entity.go

package admin

import "time"

const RoleAdmin = "admin"

// Admin accounts are provisioned by operators, never self-signed-up,
// so they are born verified.
type Admin struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	PhoneNumber  string    `db:"phone_number"`
	IsBlocked    bool      `db:"is_blocked"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
