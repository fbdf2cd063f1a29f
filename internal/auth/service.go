// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/stillmind/internal/config"
	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
	"github.com/carterperez-dev/stillmind/internal/mail"
)

const ClientTypeMobile = "mobile"

type TokenMinter interface {
	CreateSessionToken(claims SessionTokenClaims) (string, error)
}

type LoginResult struct {
	Account *directory.Account
	// Token is set only for mobile clients.
	Token string
}

type ServiceConfig struct {
	Repo      Repository
	Directory *directory.Directory
	Tokens    TokenMinter
	Mailer    mail.Sender
	Texter    mail.TextSender
	Auth      config.AuthConfig
	SMS       config.SMSConfig
	Logger    *slog.Logger
}

type Service struct {
	repo        Repository
	dir         *directory.Directory
	tokens      TokenMinter
	mailer      mail.Sender
	texter      mail.TextSender
	authCfg     config.AuthConfig
	countryCode string
	logger      *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:        cfg.Repo,
		dir:         cfg.Directory,
		tokens:      cfg.Tokens,
		mailer:      cfg.Mailer,
		texter:      cfg.Texter,
		authCfg:     cfg.Auth,
		countryCode: cfg.SMS.CountryCode,
		logger:      cfg.Logger,
	}
}

// Login resolves the identifier across all account stores and applies
// the account gates before the password is ever compared: unknown
// account, unverified email, blocked, inactive, then credential check.
// A dummy hash is verified on the unknown-account path so response
// timing does not reveal whether the identifier exists.
func (s *Service) Login(
	ctx context.Context,
	identifier, password, clientType string,
) (*LoginResult, error) {
	account, err := s.dir.FindByIdentifier(ctx, identifier, s.countryCode)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // burn the same hashing cost as a real lookup
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, fmt.Errorf("login: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !account.EmailVerified {
		return nil, fmt.Errorf("login: %w", ErrEmailNotVerified)
	}
	if account.IsBlocked {
		return nil, fmt.Errorf("login: %w", ErrAccountBlocked)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("login: %w", ErrAccountInactive)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		password,
		&account.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !valid {
		return nil, fmt.Errorf("login: %w", ErrInvalidCredentials)
	}

	if newHash != "" {
		if upErr := s.dir.UpdatePassword(ctx, account, newHash); upErr != nil {
			s.logger.Warn("password rehash update failed",
				"kind", account.Kind,
				"account_id", account.ID,
				"error", upErr,
			)
		}
	}

	result := &LoginResult{Account: account}

	if clientType == ClientTypeMobile {
		token, tokenErr := s.tokens.CreateSessionToken(SessionTokenClaims{
			AccountID: account.ID,
			Role:      account.Role,
		})
		if tokenErr != nil {
			return nil, fmt.Errorf("login: %w", tokenErr)
		}
		result.Token = token
	}

	return result, nil
}

// RequestPasswordReset issues a one-time code over email or SMS,
// depending on the shape of the identifier. Any previous codes for the
// account are invalidated first.
func (s *Service) RequestPasswordReset(
	ctx context.Context,
	identifier string,
) error {
	account, err := s.dir.FindByIdentifier(ctx, identifier, s.countryCode)
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	otp, err := core.GenerateOTP(s.authCfg.ResetTokenLength)
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	channel := ChannelEmail
	if directory.IsPhoneNumber(identifier) {
		channel = ChannelSMS
	}

	if err := s.repo.DeleteResetTokens(ctx, account.Kind, account.ID); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	token := &PasswordResetToken{
		ID:          uuid.New().String(),
		AccountKind: account.Kind,
		AccountID:   account.ID,
		TokenHash:   core.HashToken(otp),
		Channel:     channel,
		ExpiresAt:   time.Now().Add(s.authCfg.ResetTokenExpire),
	}

	if err := s.repo.CreateResetToken(ctx, token); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	body := fmt.Sprintf("Your password reset code is %s", otp)

	if channel == ChannelSMS {
		phone := directory.CanonicalPhone(identifier, s.countryCode)
		if err := s.texter.SendText(ctx, phone, body); err != nil {
			return fmt.Errorf("request password reset: %w", core.ErrUpstream)
		}
		return nil
	}

	if err := s.mailer.Send(ctx, account.Email, "Password reset", body); err != nil {
		return fmt.Errorf("request password reset: %w", core.ErrUpstream)
	}

	return nil
}

// VerifyOTP checks a code without consuming it, so clients can gate the
// new-password form before submitting.
func (s *Service) VerifyOTP(
	ctx context.Context,
	identifier, otp string,
) error {
	_, _, err := s.checkResetToken(ctx, identifier, otp)
	return err
}

// ResetPassword applies a new password after re-verifying the code.
// Consumption of the code is configurable; when disabled, the code
// stays usable until it expires.
func (s *Service) ResetPassword(
	ctx context.Context,
	identifier, otp, newPassword string,
) error {
	account, token, err := s.checkResetToken(ctx, identifier, otp)
	if err != nil {
		return err
	}

	hash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	if err := s.dir.UpdatePassword(ctx, account, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	if s.authCfg.SingleUseResetTokens {
		if err := s.repo.ConsumeResetToken(ctx, token.ID); err != nil {
			return fmt.Errorf("reset password: %w", err)
		}
	}

	return nil
}

func (s *Service) checkResetToken(
	ctx context.Context,
	identifier, otp string,
) (*directory.Account, *PasswordResetToken, error) {
	account, err := s.dir.FindByIdentifier(ctx, identifier, s.countryCode)
	if err != nil {
		return nil, nil, fmt.Errorf("verify reset code: %w", err)
	}

	token, err := s.repo.LatestResetToken(ctx, account.Kind, account.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil, fmt.Errorf("verify reset code: %w", ErrOTPInvalid)
		}
		return nil, nil, fmt.Errorf("verify reset code: %w", err)
	}

	if !core.CompareTokenHash(otp, token.TokenHash) {
		return nil, nil, fmt.Errorf("verify reset code: %w", ErrOTPInvalid)
	}
	if token.Consumed() {
		return nil, nil, fmt.Errorf("verify reset code: %w", ErrOTPInvalid)
	}
	if token.Expired(time.Now()) {
		return nil, nil, fmt.Errorf("verify reset code: %w", ErrOTPExpired)
	}

	return account, token, nil
}
