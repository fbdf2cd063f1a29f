// AngelaMos | 2026
// service_test.go

package company

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
)

type fakeRepo struct {
	companies map[string]*Company
	joins     map[string]*JoinRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		companies: make(map[string]*Company),
		joins:     make(map[string]*JoinRequest),
	}
}

func (f *fakeRepo) Create(_ context.Context, c *Company) error {
	for _, existing := range f.companies {
		if existing.Email == c.Email {
			return core.ErrDuplicateKey
		}
		if existing.CompanyName == c.CompanyName {
			return core.ErrDuplicateKey
		}
	}
	clone := *c
	f.companies[c.ID] = &clone
	return nil
}

func (f *fakeRepo) CreateWithJoinRequest(
	ctx context.Context,
	c *Company,
	join *JoinRequest,
) error {
	if err := f.Create(ctx, c); err != nil {
		return err
	}
	return f.CreateJoinRequest(ctx, join)
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*Company, error) {
	for _, c := range f.companies {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetByName(_ context.Context, name string) (*Company, error) {
	for _, c := range f.companies {
		if c.CompanyName == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetByPaymentCustomerID(
	_ context.Context,
	customerID string,
) (*Company, error) {
	for _, c := range f.companies {
		if c.PaymentCustomerID != nil && *c.PaymentCustomerID == customerID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, c *Company) error {
	stored, ok := f.companies[c.ID]
	if !ok {
		return core.ErrNotFound
	}
	stored.CompanyName = c.CompanyName
	stored.PhoneNumber = c.PhoneNumber
	return nil
}

func (f *fakeRepo) SetBlocked(_ context.Context, id string, blocked bool) error {
	c, ok := f.companies[id]
	if !ok {
		return core.ErrNotFound
	}
	c.IsBlocked = blocked
	return nil
}

func (f *fakeRepo) SetActive(_ context.Context, id string, active bool) error {
	c, ok := f.companies[id]
	if !ok {
		return core.ErrNotFound
	}
	c.IsActive = active
	return nil
}

func (f *fakeRepo) SetEmailVerified(_ context.Context, id string) error {
	c, ok := f.companies[id]
	if !ok {
		return core.ErrNotFound
	}
	c.EmailVerified = true
	c.VerificationTokenHash = nil
	c.VerificationExpires = nil
	return nil
}

func (f *fakeRepo) SetVerificationToken(
	_ context.Context,
	id, tokenHash string,
	expires time.Time,
) error {
	c, ok := f.companies[id]
	if !ok {
		return core.ErrNotFound
	}
	c.VerificationTokenHash = &tokenHash
	c.VerificationExpires = &expires
	return nil
}

func (f *fakeRepo) SetPaymentCustomerID(
	_ context.Context,
	id, customerID string,
) error {
	c, ok := f.companies[id]
	if !ok {
		return core.ErrNotFound
	}
	c.PaymentCustomerID = &customerID
	return nil
}

func (f *fakeRepo) UpdateSubscription(
	_ context.Context,
	id string,
	patch SubscriptionPatch,
) error {
	c, ok := f.companies[id]
	if !ok {
		return core.ErrNotFound
	}
	c.SubscriptionID = &patch.SubscriptionID
	c.SubscriptionStatus = &patch.Status
	return nil
}

func (f *fakeRepo) ClearSubscription(_ context.Context, id string) error {
	c, ok := f.companies[id]
	if !ok {
		return core.ErrNotFound
	}
	c.SubscriptionID = nil
	c.SubscriptionStatus = nil
	c.SubscriptionPlanType = nil
	c.SubscriptionInterval = nil
	c.SubscriptionStart = nil
	c.SubscriptionEnd = nil
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.companies[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.companies, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, _, _ int) ([]Company, int, error) {
	out := make([]Company, 0, len(f.companies))
	for _, c := range f.companies {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeRepo) CreateJoinRequest(_ context.Context, req *JoinRequest) error {
	clone := *req
	f.joins[req.ID] = &clone
	return nil
}

func (f *fakeRepo) GetJoinRequest(
	_ context.Context,
	id string,
) (*JoinRequest, error) {
	j, ok := f.joins[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *j
	return &clone, nil
}

func (f *fakeRepo) ListJoinRequests(
	_ context.Context,
	status string,
) ([]JoinRequest, error) {
	var out []JoinRequest
	for _, j := range f.joins {
		if status == "" || j.Status == status {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeRepo) ResolveJoinRequest(
	_ context.Context,
	id, status, resolvedBy string,
) error {
	j, ok := f.joins[id]
	if !ok {
		return core.ErrNotFound
	}
	j.Status = status
	j.ResolvedBy = &resolvedBy
	return nil
}

func (f *fakeRepo) Kind() directory.Kind {
	return directory.KindCompany
}

func (f *fakeRepo) FindByEmail(
	ctx context.Context,
	email string,
) (*directory.Account, error) {
	c, err := f.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &directory.Account{
		Kind:         directory.KindCompany,
		ID:           c.ID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         RoleCompany,
		IsActive:     c.IsActive,
		CompanyName:  c.CompanyName,
	}, nil
}

func (f *fakeRepo) FindByPhone(
	_ context.Context,
	_ string,
) (*directory.Account, error) {
	return nil, core.ErrNotFound
}

func (f *fakeRepo) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	c, ok := f.companies[id]
	if !ok {
		return core.ErrNotFound
	}
	c.PasswordHash = passwordHash
	return nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) Send(_ context.Context, to, _, body string) error {
	f.sent = append(f.sent, fmt.Sprintf("%s: %s", to, body))
	return nil
}

type fakeCustomers struct {
	created int
}

func (f *fakeCustomers) CreateCustomer(
	_ context.Context,
	_, _, _ string,
) (string, error) {
	f.created++
	return fmt.Sprintf("cus_%d", f.created), nil
}

type fakeUserCounter struct {
	count int
}

func (f *fakeUserCounter) CountByCompany(
	_ context.Context,
	_ string,
) (int, error) {
	return f.count, nil
}

type companyFixture struct {
	svc       *Service
	repo      *fakeRepo
	mailer    *fakeMailer
	customers *fakeCustomers
}

func newCompanyFixture() *companyFixture {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	customers := &fakeCustomers{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(
		repo,
		directory.New(repo),
		mailer,
		customers,
		&fakeUserCounter{},
		logger,
	)
	return &companyFixture{
		svc:       svc,
		repo:      repo,
		mailer:    mailer,
		customers: customers,
	}
}

func signupRequest() SignupRequest {
	return SignupRequest{
		Email:       "Founder@Example.com",
		Password:    "correct horse battery",
		CompanyName: "Stillmind Yoga",
		PhoneNumber: "+4512345678",
	}
}

func TestSignupCreatesPendingTenant(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	company, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	assert.Equal(t, "founder@example.com", company.Email)
	assert.False(t, company.EmailVerified)
	assert.True(t, company.IsActive)

	pending, err := fx.repo.ListJoinRequests(ctx, JoinStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, company.ID, pending[0].CompanyID)

	require.Len(t, fx.mailer.sent, 1)
	assert.Contains(t, fx.mailer.sent[0], "founder@example.com")
	assert.Contains(t, fx.mailer.sent[0], "verification code")

	assert.Zero(t, fx.customers.created,
		"billing customer is not provisioned before approval")
}

func TestSignupRejectsTakenEmail(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	_, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	second := signupRequest()
	second.CompanyName = "Another Studio"
	_, err = fx.svc.Signup(ctx, second)
	require.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestSignupRejectsTakenCompanyName(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	_, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	second := signupRequest()
	second.Email = "other@example.com"
	_, err = fx.svc.Signup(ctx, second)
	require.ErrorIs(t, err, core.ErrDuplicateKey)
}

func lastMailedOTP(t *testing.T, mailer *fakeMailer) string {
	t.Helper()
	require.NotEmpty(t, mailer.sent)
	body := mailer.sent[len(mailer.sent)-1]
	require.GreaterOrEqual(t, len(body), 6)
	return body[len(body)-6:]
}

func TestVerifyEmailConsumesCode(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	company, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	otp := lastMailedOTP(t, fx.mailer)
	require.NoError(t, fx.svc.VerifyEmail(ctx, company.Email, otp))

	stored, err := fx.repo.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
}

func TestVerifyEmailRejectsWrongCode(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	company, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	err = fx.svc.VerifyEmail(ctx, company.Email, "000000")
	if err == nil {
		t.Skip("guessed the generated code")
	}
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestVerifyEmailRejectsExpiredCode(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	company, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	fx.repo.companies[company.ID].VerificationExpires = &expired

	otp := lastMailedOTP(t, fx.mailer)
	err = fx.svc.VerifyEmail(ctx, company.Email, otp)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func pendingJoinID(t *testing.T, repo *fakeRepo) string {
	t.Helper()
	pending, err := repo.ListJoinRequests(context.Background(), JoinStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	return pending[0].ID
}

func TestApproveJoinRequestProvisionsTenant(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	company, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	joinID := pendingJoinID(t, fx.repo)

	approved, err := fx.svc.ApproveJoinRequest(ctx, joinID, "admin-1")
	require.NoError(t, err)

	assert.True(t, approved.EmailVerified)
	require.True(t, approved.HasCustomer())
	assert.Equal(t, 1, fx.customers.created)

	join, err := fx.repo.GetJoinRequest(ctx, joinID)
	require.NoError(t, err)
	assert.Equal(t, JoinStatusApproved, join.Status)
	require.NotNil(t, join.ResolvedBy)
	assert.Equal(t, "admin-1", *join.ResolvedBy)

	// Signup verification mail plus the welcome mail.
	require.Len(t, fx.mailer.sent, 2)
	assert.Contains(t, fx.mailer.sent[1], "approved")

	stored, err := fx.repo.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
}

func TestApproveJoinRequestRejectsResolved(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	_, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	joinID := pendingJoinID(t, fx.repo)

	_, err = fx.svc.ApproveJoinRequest(ctx, joinID, "admin-1")
	require.NoError(t, err)

	_, err = fx.svc.ApproveJoinRequest(ctx, joinID, "admin-2")
	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Equal(t, 1, fx.customers.created)
}

func TestApproveDoesNotReprovisionExistingCustomer(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	company, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	joinID := pendingJoinID(t, fx.repo)

	_, err = fx.svc.ApproveJoinRequest(ctx, joinID, "admin-1")
	require.NoError(t, err)

	// A second pending request for the same tenant resolves without
	// touching billing or sending another welcome mail.
	again := &JoinRequest{
		ID:        "join-2",
		CompanyID: company.ID,
		Status:    JoinStatusPending,
	}
	require.NoError(t, fx.repo.CreateJoinRequest(ctx, again))

	_, err = fx.svc.ApproveJoinRequest(ctx, "join-2", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, fx.customers.created)
	assert.Len(t, fx.mailer.sent, 2)
}

func TestDenyJoinRequestDeactivatesTenant(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	company, err := fx.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	joinID := pendingJoinID(t, fx.repo)

	require.NoError(t, fx.svc.DenyJoinRequest(ctx, joinID, "admin-1"))

	join, err := fx.repo.GetJoinRequest(ctx, joinID)
	require.NoError(t, err)
	assert.Equal(t, JoinStatusDenied, join.Status)

	stored, err := fx.repo.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Zero(t, fx.customers.created)

	err = fx.svc.DenyJoinRequest(ctx, joinID, "admin-1")
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestAdminCreateSkipsApproval(t *testing.T) {
	fx := newCompanyFixture()
	ctx := context.Background()

	company, err := fx.svc.AdminCreate(ctx, AdminCreateRequest{
		Email:       "direct@example.com",
		Password:    "correct horse battery",
		CompanyName: "Direct Studio",
	})
	require.NoError(t, err)

	assert.True(t, company.EmailVerified)
	require.True(t, company.HasCustomer())
	assert.Equal(t, 1, fx.customers.created)

	pending, err := fx.repo.ListJoinRequests(ctx, JoinStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.Len(t, fx.mailer.sent, 1)
	assert.Contains(t, fx.mailer.sent[0], "direct@example.com")
}
