// AngelaMos | 2026
// sender.go

package mail

import "context"

// Sender delivers transactional email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TextSender delivers SMS messages, used for phone-based one-time codes.
type TextSender interface {
	SendText(ctx context.Context, to, body string) error
}
