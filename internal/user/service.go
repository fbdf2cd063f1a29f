// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/stillmind/internal/company"
	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
	"github.com/carterperez-dev/stillmind/internal/mail"
)

const (
	verificationExpire = 24 * time.Hour
	verificationDigits = 6
)

// CompanyFinder resolves the company a user signs up against.
// Satisfied by the company repository.
type CompanyFinder interface {
	GetByName(ctx context.Context, name string) (*company.Company, error)
}

type Service struct {
	repo      Repository
	dir       *directory.Directory
	companies CompanyFinder
	mailer    mail.Sender
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	dir *directory.Directory,
	companies CompanyFinder,
	mailer mail.Sender,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		dir:       dir,
		companies: companies,
		mailer:    mailer,
		logger:    logger,
	}
}

// Signup registers an end user against an existing company. The account
// starts unverified on both axes: email (OTP mail) and company
// membership (join request).
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*User, error) {
	email := directory.NormalizeEmail(req.Email)

	taken, err := s.dir.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user signup: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("user signup: email: %w", core.ErrDuplicateKey)
	}

	comp, err := s.companies.GetByName(ctx, req.CompanyName)
	if err != nil {
		return nil, fmt.Errorf("user signup: company: %w", err)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("user signup: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		CompanyID:    comp.ID,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	join := &JoinRequest{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CompanyID: comp.ID,
		Status:    JoinStatusPending,
	}
	if err := s.repo.CreateJoinRequest(ctx, join); err != nil {
		return nil, err
	}

	if err := s.issueVerification(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) issueVerification(ctx context.Context, user *User) error {
	otp, err := core.GenerateOTP(verificationDigits)
	if err != nil {
		return fmt.Errorf("issue verification: %w", err)
	}

	expires := time.Now().Add(verificationExpire)
	err = s.repo.SetVerificationToken(ctx, user.ID, core.HashToken(otp), expires)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is %s", otp)
	if err := s.mailer.Send(ctx, user.Email, "Verify your email", body); err != nil {
		return fmt.Errorf("issue verification: %w", core.ErrUpstream)
	}

	return nil
}

// VerifyEmail consumes the emailed code, marks the address verified and
// sends the welcome mail.
func (s *Service) VerifyEmail(ctx context.Context, email, otp string) error {
	user, err := s.repo.GetByEmail(ctx, directory.NormalizeEmail(email))
	if err != nil {
		return err
	}

	if user.VerificationTokenHash == nil ||
		!core.CompareTokenHash(otp, *user.VerificationTokenHash) {
		return fmt.Errorf("verify email: %w", core.ErrInvalidInput)
	}

	if user.VerificationExpires == nil ||
		time.Now().After(*user.VerificationExpires) {
		return fmt.Errorf("verify email: %w", core.ErrTokenExpired)
	}

	if err := s.repo.SetEmailVerified(ctx, user.ID); err != nil {
		return err
	}

	if mailErr := s.mailer.Send(ctx, user.Email, "Welcome",
		"Your email has been verified."); mailErr != nil {
		s.logger.Warn("welcome mail failed",
			"user_id", user.ID,
			"error", mailErr,
		)
	}

	return nil
}

// CreateByCompany provisions a user directly under a company:
// pre-verified on both axes, credentials mailed out.
func (s *Service) CreateByCompany(
	ctx context.Context,
	companyID string,
	req CreateUserRequest,
) (*User, error) {
	email := directory.NormalizeEmail(req.Email)

	taken, err := s.dir.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("create user: email: %w", core.ErrDuplicateKey)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user := &User{
		ID:                  uuid.New().String(),
		Email:               email,
		PasswordHash:        hash,
		Name:                req.Name,
		PhoneNumber:         req.PhoneNumber,
		CompanyID:           companyID,
		EmailVerified:       true,
		IsVerifiedByCompany: true,
		IsActive:            true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if mailErr := s.mailer.Send(ctx, user.Email, "Your account",
		"An account was created for you."); mailErr != nil {
		s.logger.Warn("credentials mail failed",
			"user_id", user.ID,
			"error", mailErr,
		)
	}

	return user, nil
}

// ApproveJoinRequest is the company-side resolution of a user's join
// request.
func (s *Service) ApproveJoinRequest(
	ctx context.Context,
	requestID, resolverID string,
) error {
	join, err := s.repo.GetJoinRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if join.Status != JoinStatusPending {
		return fmt.Errorf(
			"approve join request: already resolved: %w",
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.ResolveJoinRequest(
		ctx, requestID, JoinStatusApproved, resolverID,
	); err != nil {
		return err
	}

	return s.repo.SetVerifiedByCompany(ctx, join.UserID)
}

func (s *Service) DenyJoinRequest(
	ctx context.Context,
	requestID, resolverID string,
) error {
	join, err := s.repo.GetJoinRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if join.Status != JoinStatusPending {
		return fmt.Errorf(
			"deny join request: already resolved: %w",
			core.ErrInvalidInput,
		)
	}

	return s.repo.ResolveJoinRequest(ctx, requestID, JoinStatusDenied, resolverID)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

func (s *Service) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return s.repo.SetBlocked(ctx, id, blocked)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByCompany(
	ctx context.Context,
	companyID string,
) ([]User, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

func (s *Service) ListBlockedByCompany(
	ctx context.Context,
	companyID string,
) ([]User, error) {
	return s.repo.ListBlockedByCompany(ctx, companyID)
}

func (s *Service) ListJoinRequests(
	ctx context.Context,
	companyID, status string,
) ([]JoinRequest, error) {
	return s.repo.ListJoinRequestsByCompany(ctx, companyID, status)
}

func (s *Service) CountByCompany(
	ctx context.Context,
	companyID string,
) (int, error) {
	return s.repo.CountByCompany(ctx, companyID)
}

// RecordAudioHistory upserts the (user, audio) row; flags only ever
// flip on, so replays are idempotent.
func (s *Service) RecordAudioHistory(
	ctx context.Context,
	userID string,
	req AudioHistoryRequest,
) (*AudioHistory, error) {
	entry := &AudioHistory{
		UserID:        userID,
		AudioID:       req.AudioID,
		HasListened:   req.HasListened,
		HasDownloaded: req.HasDownloaded,
	}

	if err := s.repo.UpsertAudioHistory(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *Service) ListAudioHistory(
	ctx context.Context,
	userID string,
) ([]AudioHistory, error) {
	return s.repo.ListAudioHistory(ctx, userID)
}
