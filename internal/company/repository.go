// AngelaMos | 2026
// repository.go

package company

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
)

type Repository interface {
	Create(ctx context.Context, company *Company) error
	CreateWithJoinRequest(
		ctx context.Context,
		company *Company,
		join *JoinRequest,
	) error
	GetByID(ctx context.Context, id string) (*Company, error)
	GetByEmail(ctx context.Context, email string) (*Company, error)
	GetByName(ctx context.Context, name string) (*Company, error)
	GetByPaymentCustomerID(ctx context.Context, customerID string) (*Company, error)
	Update(ctx context.Context, company *Company) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
	SetActive(ctx context.Context, id string, active bool) error
	SetEmailVerified(ctx context.Context, id string) error
	SetVerificationToken(
		ctx context.Context,
		id, tokenHash string,
		expires time.Time,
	) error
	SetPaymentCustomerID(ctx context.Context, id, customerID string) error
	UpdateSubscription(ctx context.Context, id string, patch SubscriptionPatch) error
	ClearSubscription(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]Company, int, error)

	CreateJoinRequest(ctx context.Context, req *JoinRequest) error
	GetJoinRequest(ctx context.Context, id string) (*JoinRequest, error)
	ListJoinRequests(ctx context.Context, status string) ([]JoinRequest, error)
	ResolveJoinRequest(ctx context.Context, id, status, resolvedBy string) error

	directory.Store
}

type repository struct {
	db   core.DBTX
	pool *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, pool: db}
}

const companyColumns = `
	id, email, password_hash, company_name, phone_number,
	email_verified, is_blocked, is_active,
	verification_token_hash, verification_expires,
	payment_customer_id, subscription_id, subscription_status,
	subscription_plan_type, subscription_interval,
	subscription_start, subscription_end,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, company *Company) error {
	query := `
		INSERT INTO companies
			(id, email, password_hash, company_name, phone_number,
			 email_verified, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, company, query,
		company.ID,
		company.Email,
		company.PasswordHash,
		company.CompanyName,
		company.PhoneNumber,
		company.EmailVerified,
		company.IsActive,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create company: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create company: %w", err)
	}

	return nil
}

// CreateWithJoinRequest inserts the tenant and its pending join request
// in one transaction; a signup never leaves a tenant without a request
// for admins to resolve.
func (r *repository) CreateWithJoinRequest(
	ctx context.Context,
	company *Company,
	join *JoinRequest,
) error {
	return core.InTx(ctx, r.pool, func(tx *sqlx.Tx) error {
		txRepo := &repository{db: tx}
		if err := txRepo.Create(ctx, company); err != nil {
			return err
		}
		return txRepo.CreateJoinRequest(ctx, join)
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Company, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM companies WHERE id = $1`, companyColumns)

	var company Company
	err := r.db.GetContext(ctx, &company, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get company: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}

	return &company, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Company, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM companies WHERE email = $1`, companyColumns)

	var company Company
	err := r.db.GetContext(ctx, &company, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get company by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get company by email: %w", err)
	}

	return &company, nil
}

func (r *repository) GetByName(
	ctx context.Context,
	name string,
) (*Company, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM companies WHERE company_name = $1`, companyColumns)

	var company Company
	err := r.db.GetContext(ctx, &company, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get company by name: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get company by name: %w", err)
	}

	return &company, nil
}

func (r *repository) GetByPaymentCustomerID(
	ctx context.Context,
	customerID string,
) (*Company, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM companies WHERE payment_customer_id = $1`,
		companyColumns)

	var company Company
	err := r.db.GetContext(ctx, &company, query, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get company by customer: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get company by customer: %w", err)
	}

	return &company, nil
}

func (r *repository) Update(ctx context.Context, company *Company) error {
	query := `
		UPDATE companies
		SET company_name = $2, phone_number = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &company.UpdatedAt, query,
		company.ID,
		company.CompanyName,
		company.PhoneNumber,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update company: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update company: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update company: %w", err)
	}

	return nil
}

func (r *repository) SetBlocked(
	ctx context.Context,
	id string,
	blocked bool,
) error {
	return r.execOne(ctx, "set blocked",
		`UPDATE companies SET is_blocked = $2, updated_at = NOW() WHERE id = $1`,
		id, blocked)
}

func (r *repository) SetActive(
	ctx context.Context,
	id string,
	active bool,
) error {
	return r.execOne(ctx, "set active",
		`UPDATE companies SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active)
}

func (r *repository) SetEmailVerified(ctx context.Context, id string) error {
	return r.execOne(ctx, "set email verified",
		`UPDATE companies
		 SET email_verified = TRUE,
		     verification_token_hash = NULL,
		     verification_expires = NULL,
		     updated_at = NOW()
		 WHERE id = $1`,
		id)
}

func (r *repository) SetVerificationToken(
	ctx context.Context,
	id, tokenHash string,
	expires time.Time,
) error {
	return r.execOne(ctx, "set verification token",
		`UPDATE companies
		 SET verification_token_hash = $2,
		     verification_expires = $3,
		     updated_at = NOW()
		 WHERE id = $1`,
		id, tokenHash, expires)
}

func (r *repository) SetPaymentCustomerID(
	ctx context.Context,
	id, customerID string,
) error {
	return r.execOne(ctx, "set payment customer",
		`UPDATE companies
		 SET payment_customer_id = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, customerID)
}

func (r *repository) UpdateSubscription(
	ctx context.Context,
	id string,
	patch SubscriptionPatch,
) error {
	return r.execOne(ctx, "update subscription",
		`UPDATE companies
		 SET subscription_id = $2,
		     subscription_status = $3,
		     subscription_plan_type = $4,
		     subscription_interval = $5,
		     subscription_start = $6,
		     subscription_end = $7,
		     updated_at = NOW()
		 WHERE id = $1`,
		id,
		patch.SubscriptionID,
		patch.Status,
		patch.PlanType,
		patch.Interval,
		patch.Start,
		patch.End,
	)
}

func (r *repository) ClearSubscription(ctx context.Context, id string) error {
	return r.execOne(ctx, "clear subscription",
		`UPDATE companies
		 SET subscription_id = NULL,
		     subscription_status = NULL,
		     subscription_plan_type = NULL,
		     subscription_interval = NULL,
		     subscription_start = NULL,
		     subscription_end = NULL,
		     updated_at = NOW()
		 WHERE id = $1`,
		id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete company",
		`DELETE FROM companies WHERE id = $1`, id)
}

func (r *repository) List(
	ctx context.Context,
	page, pageSize int,
) ([]Company, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM companies`); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM companies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, companyColumns)

	var companies []Company
	err := r.db.SelectContext(ctx, &companies, query,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}

	return companies, total, nil
}

func (r *repository) CreateJoinRequest(
	ctx context.Context,
	req *JoinRequest,
) error {
	query := `
		INSERT INTO company_join_requests (id, company_id, status)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, req, query, req.ID, req.CompanyID, req.Status)
	if err != nil {
		return fmt.Errorf("create join request: %w", err)
	}

	return nil
}

func (r *repository) GetJoinRequest(
	ctx context.Context,
	id string,
) (*JoinRequest, error) {
	query := `
		SELECT id, company_id, status, resolved_by, created_at, updated_at
		FROM company_join_requests
		WHERE id = $1`

	var req JoinRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get join request: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get join request: %w", err)
	}

	return &req, nil
}

func (r *repository) ListJoinRequests(
	ctx context.Context,
	status string,
) ([]JoinRequest, error) {
	query := `
		SELECT id, company_id, status, resolved_by, created_at, updated_at
		FROM company_join_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`

	var reqs []JoinRequest
	if err := r.db.SelectContext(ctx, &reqs, query, status); err != nil {
		return nil, fmt.Errorf("list join requests: %w", err)
	}

	return reqs, nil
}

func (r *repository) ResolveJoinRequest(
	ctx context.Context,
	id, status, resolvedBy string,
) error {
	return r.execOne(ctx, "resolve join request",
		`UPDATE company_join_requests
		 SET status = $2, resolved_by = $3, updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`,
		id, status, resolvedBy)
}

// directory.Store

func (r *repository) Kind() directory.Kind {
	return directory.KindCompany
}

func (r *repository) FindByEmail(
	ctx context.Context,
	email string,
) (*directory.Account, error) {
	company, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toAccount(company), nil
}

func (r *repository) FindByPhone(
	ctx context.Context,
	phone string,
) (*directory.Account, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM companies WHERE phone_number = $1`, companyColumns)

	var company Company
	err := r.db.GetContext(ctx, &company, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get company by phone: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get company by phone: %w", err)
	}

	return toAccount(&company), nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.execOne(ctx, "update password",
		`UPDATE companies
		 SET password_hash = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, passwordHash)
}

func toAccount(c *Company) *directory.Account {
	return &directory.Account{
		Kind:          directory.KindCompany,
		ID:            c.ID,
		Email:         c.Email,
		PhoneNumber:   c.PhoneNumber,
		PasswordHash:  c.PasswordHash,
		Role:          RoleCompany,
		EmailVerified: c.EmailVerified,
		IsBlocked:     c.IsBlocked,
		IsActive:      c.IsActive,
		CompanyName:   c.CompanyName,
	}
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
