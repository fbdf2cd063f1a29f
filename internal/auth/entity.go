// AngelaMos | 2026
// entity.go

package auth

import (
	"errors"
	"time"

	"github.com/carterperez-dev/stillmind/internal/directory"
)

// Login failures surface as distinct sentinels so handlers can map them
// to the right status without string matching.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrAccountInactive    = errors.New("account inactive")
	ErrOTPExpired         = errors.New("one-time code expired")
	ErrOTPInvalid         = errors.New("one-time code invalid")
)

// PasswordResetToken stores only a hash of the one-time code. The code
// itself leaves the process exactly once, inside the mail or SMS body.
type PasswordResetToken struct {
	ID          string         `db:"id"`
	AccountKind directory.Kind `db:"account_kind"`
	AccountID   string         `db:"account_id"`
	TokenHash   string         `db:"token_hash"`
	Channel     string         `db:"channel"`
	ExpiresAt   time.Time      `db:"expires_at"`
	ConsumedAt  *time.Time     `db:"consumed_at"`
	CreatedAt   time.Time      `db:"created_at"`
}

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *PasswordResetToken) Consumed() bool {
	return t.ConsumedAt != nil
}
