// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID                    string     `db:"id"`
	Email                 string     `db:"email"`
	PasswordHash          string     `db:"password_hash"`
	Name                  string     `db:"name"`
	PhoneNumber           string     `db:"phone_number"`
	CompanyID             string     `db:"company_id"`
	EmailVerified         bool       `db:"email_verified"`
	IsVerifiedByCompany   bool       `db:"is_verified_by_company"`
	IsBlocked             bool       `db:"is_blocked"`
	IsActive              bool       `db:"is_active"`
	VerificationTokenHash *string    `db:"verification_token_hash"`
	VerificationExpires   *time.Time `db:"verification_expires"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

// JoinRequest is a user's application to a company, resolved by that
// company.
type JoinRequest struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	CompanyID  string     `db:"company_id"`
	Status     string     `db:"status"`
	ResolvedBy *string    `db:"resolved_by"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

const (
	JoinStatusPending  = "pending"
	JoinStatusApproved = "approved"
	JoinStatusDenied   = "denied"
)

// AudioHistory tracks per-user playback state keyed by (user, audio).
type AudioHistory struct {
	UserID        string    `db:"user_id"`
	AudioID       string    `db:"audio_id"`
	HasListened   bool      `db:"has_listened"`
	HasDownloaded bool      `db:"has_downloaded"`
	UpdatedAt     time.Time `db:"updated_at"`
}

const RoleUser = "user"
