// AngelaMos | 2026
// sendgrid.go

package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/carterperez-dev/stillmind/internal/config"
)

type sendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *slog.Logger
}

func NewSendGridSender(cfg config.MailConfig, logger *slog.Logger) Sender {
	return &sendGridSender{
		client:    sendgrid.NewSendClient(cfg.SendGridKey),
		fromEmail: cfg.FromAddress,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

func (s *sendGridSender) Send(
	ctx context.Context,
	to, subject, body string,
) error {
	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	recipient := sgmail.NewEmail("", to)

	message := sgmail.NewSingleEmail(
		from,
		subject,
		recipient,
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}

	if resp.StatusCode >= 400 {
		s.logger.Error("sendgrid rejected message",
			"status", resp.StatusCode,
			"body", resp.Body,
		)
		return fmt.Errorf("sendgrid send failed: status=%d", resp.StatusCode)
	}

	s.logger.Debug("mail sent",
		"to", to,
		"subject", subject,
		"status", resp.StatusCode,
	)

	return nil
}
