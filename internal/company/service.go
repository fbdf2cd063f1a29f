// AngelaMos | 2026
// service.go

package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
	"github.com/carterperez-dev/stillmind/internal/mail"
)

const (
	verificationExpire = 24 * time.Hour
	verificationDigits = 6
)

// CustomerCreator lazily provisions a billing customer for an approved
// tenant. Satisfied by the billing provider.
type CustomerCreator interface {
	CreateCustomer(
		ctx context.Context,
		email, name, description string,
	) (string, error)
}

// UserCounter reports how many end users belong to a tenant.
type UserCounter interface {
	CountByCompany(ctx context.Context, companyID string) (int, error)
}

type Service struct {
	repo      Repository
	dir       *directory.Directory
	mailer    mail.Sender
	customers CustomerCreator
	users     UserCounter
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	dir *directory.Directory,
	mailer mail.Sender,
	customers CustomerCreator,
	users UserCounter,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		dir:       dir,
		mailer:    mailer,
		customers: customers,
		users:     users,
		logger:    logger,
	}
}

// Signup registers a pending tenant: unverified, with a join request
// awaiting admin approval and a verification code in the mail.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*Company, error) {
	email := directory.NormalizeEmail(req.Email)

	taken, err := s.dir.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("company signup: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("company signup: email: %w", core.ErrDuplicateKey)
	}

	if _, err := s.repo.GetByName(ctx, req.CompanyName); err == nil {
		return nil, fmt.Errorf("company signup: name: %w", core.ErrDuplicateKey)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("company signup: %w", err)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("company signup: %w", err)
	}

	company := &Company{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CompanyName:  req.CompanyName,
		PhoneNumber:  req.PhoneNumber,
		IsActive:     true,
	}

	join := &JoinRequest{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		Status:    JoinStatusPending,
	}
	if err := s.repo.CreateWithJoinRequest(ctx, company, join); err != nil {
		return nil, err
	}

	if err := s.issueVerification(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

func (s *Service) issueVerification(ctx context.Context, company *Company) error {
	otp, err := core.GenerateOTP(verificationDigits)
	if err != nil {
		return fmt.Errorf("issue verification: %w", err)
	}

	expires := time.Now().Add(verificationExpire)
	err = s.repo.SetVerificationToken(ctx, company.ID, core.HashToken(otp), expires)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is %s", otp)
	if err := s.mailer.Send(ctx, company.Email, "Verify your email", body); err != nil {
		return fmt.Errorf("issue verification: %w", core.ErrUpstream)
	}

	return nil
}

// VerifyEmail consumes the emailed code and marks the tenant's email
// verified. Admin approval independently sets the same flag.
func (s *Service) VerifyEmail(ctx context.Context, email, otp string) error {
	company, err := s.repo.GetByEmail(ctx, directory.NormalizeEmail(email))
	if err != nil {
		return err
	}

	if company.VerificationTokenHash == nil ||
		!core.CompareTokenHash(otp, *company.VerificationTokenHash) {
		return fmt.Errorf("verify email: %w", core.ErrInvalidInput)
	}

	if company.VerificationExpires == nil ||
		time.Now().After(*company.VerificationExpires) {
		return fmt.Errorf("verify email: %w", core.ErrTokenExpired)
	}

	return s.repo.SetEmailVerified(ctx, company.ID)
}

// ApproveJoinRequest resolves a pending request: the tenant is marked
// verified and a billing customer is created if one does not already
// exist. The welcome mail goes out only on first provisioning.
func (s *Service) ApproveJoinRequest(
	ctx context.Context,
	requestID, adminID string,
) (*Company, error) {
	join, err := s.repo.GetJoinRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if join.Status != JoinStatusPending {
		return nil, fmt.Errorf(
			"approve join request: already resolved: %w",
			core.ErrInvalidInput,
		)
	}

	company, err := s.repo.GetByID(ctx, join.CompanyID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ResolveJoinRequest(
		ctx, requestID, JoinStatusApproved, adminID,
	); err != nil {
		return nil, err
	}

	if err := s.repo.SetEmailVerified(ctx, company.ID); err != nil {
		return nil, err
	}
	company.EmailVerified = true

	if !company.HasCustomer() {
		customerID, custErr := s.customers.CreateCustomer(
			ctx,
			company.Email,
			company.CompanyName,
			fmt.Sprintf("tenant %s", company.ID),
		)
		if custErr != nil {
			return nil, fmt.Errorf("approve join request: %w", custErr)
		}

		if err := s.repo.SetPaymentCustomerID(ctx, company.ID, customerID); err != nil {
			return nil, err
		}
		company.PaymentCustomerID = &customerID

		if mailErr := s.mailer.Send(
			ctx,
			company.Email,
			"Welcome",
			fmt.Sprintf("Your workspace %s has been approved.", company.CompanyName),
		); mailErr != nil {
			s.logger.Warn("welcome mail failed",
				"company_id", company.ID,
				"error", mailErr,
			)
		}
	}

	return company, nil
}

// DenyJoinRequest resolves a pending request negatively and deactivates
// the tenant.
func (s *Service) DenyJoinRequest(
	ctx context.Context,
	requestID, adminID string,
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

	if err := s.repo.ResolveJoinRequest(
		ctx, requestID, JoinStatusDenied, adminID,
	); err != nil {
		return err
	}

	return s.repo.SetActive(ctx, join.CompanyID, false)
}

// AdminCreate provisions a tenant directly: pre-verified, with a billing
// customer and the credentials mailed out.
func (s *Service) AdminCreate(
	ctx context.Context,
	req AdminCreateRequest,
) (*Company, error) {
	email := directory.NormalizeEmail(req.Email)

	taken, err := s.dir.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("admin create company: %w", err)
	}
	if taken {
		return nil, fmt.Errorf(
			"admin create company: email: %w", core.ErrDuplicateKey)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("admin create company: %w", err)
	}

	company := &Company{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  hash,
		CompanyName:   req.CompanyName,
		PhoneNumber:   req.PhoneNumber,
		EmailVerified: true,
		IsActive:      true,
	}

	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}

	customerID, err := s.customers.CreateCustomer(
		ctx,
		company.Email,
		company.CompanyName,
		fmt.Sprintf("tenant %s", company.ID),
	)
	if err != nil {
		return nil, fmt.Errorf("admin create company: %w", err)
	}

	if err := s.repo.SetPaymentCustomerID(ctx, company.ID, customerID); err != nil {
		return nil, err
	}
	company.PaymentCustomerID = &customerID

	if mailErr := s.mailer.Send(
		ctx,
		company.Email,
		"Your account",
		fmt.Sprintf("An account was created for %s.", company.CompanyName),
	); mailErr != nil {
		s.logger.Warn("credentials mail failed",
			"company_id", company.ID,
			"error", mailErr,
		)
	}

	return company, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Company, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateRequest,
) (*Company, error) {
	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		company.CompanyName = *req.CompanyName
	}
	if req.PhoneNumber != nil {
		company.PhoneNumber = *req.PhoneNumber
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

func (s *Service) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return s.repo.SetBlocked(ctx, id, blocked)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	page, pageSize int,
) ([]Company, int, error) {
	return s.repo.List(ctx, page, pageSize)
}

func (s *Service) ListJoinRequests(
	ctx context.Context,
	status string,
) ([]JoinRequest, error) {
	return s.repo.ListJoinRequests(ctx, status)
}

// Dashboard summarizes a tenant: user count plus current subscription
// fields.
func (s *Service) Dashboard(ctx context.Context, id string) (*DashboardResponse, error) {
	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	userCount, err := s.users.CountByCompany(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return ToDashboardResponse(company, userCount), nil
}
