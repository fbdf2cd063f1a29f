// AngelaMos | 2026
// twilio.go

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/carterperez-dev/stillmind/internal/config"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type twilioSender struct {
	client     *resty.Client
	accountSID string
	fromNumber string
	logger     *slog.Logger
}

func NewTwilioSender(cfg config.SMSConfig, logger *slog.Logger) TextSender {
	client := resty.New().
		SetBaseURL(twilioBaseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetBasicAuth(cfg.TwilioAccountSID, cfg.TwilioAuthToken)

	return &twilioSender{
		client:     client,
		accountSID: cfg.TwilioAccountSID,
		fromNumber: cfg.FromNumber,
		logger:     logger,
	}
}

func (s *twilioSender) SendText(ctx context.Context, to, body string) error {
	var result twilioResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   to,
			"From": s.fromNumber,
			"Body": body,
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/Accounts/%s/Messages.json", s.accountSID))

	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}

	if resp.IsError() {
		s.logger.Error("twilio rejected message",
			"status", resp.StatusCode(),
			"code", result.Code,
			"message", result.Message,
		)
		return fmt.Errorf(
			"twilio send failed: status=%d code=%d",
			resp.StatusCode(),
			result.Code,
		)
	}

	s.logger.Debug("sms sent", "to", to, "sid", result.SID)

	return nil
}
