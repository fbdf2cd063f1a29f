// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	SetActive(ctx context.Context, id string, active bool) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
	SetEmailVerified(ctx context.Context, id string) error
	SetVerificationToken(
		ctx context.Context,
		id, tokenHash string,
		expires time.Time,
	) error
	SetVerifiedByCompany(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string) ([]User, error)
	ListBlockedByCompany(ctx context.Context, companyID string) ([]User, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	CountTotal(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)

	UpsertAudioHistory(ctx context.Context, entry *AudioHistory) error
	ListAudioHistory(ctx context.Context, userID string) ([]AudioHistory, error)

	CreateJoinRequest(ctx context.Context, req *JoinRequest) error
	GetJoinRequest(ctx context.Context, id string) (*JoinRequest, error)
	ListJoinRequestsByCompany(
		ctx context.Context,
		companyID, status string,
	) ([]JoinRequest, error)
	ResolveJoinRequest(ctx context.Context, id, status, resolvedBy string) error

	directory.Store
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, email, password_hash, name, phone_number, company_id,
	email_verified, is_verified_by_company, is_blocked, is_active,
	verification_token_hash, verification_expires,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users
			(id, email, password_hash, name, phone_number, company_id,
			 email_verified, is_verified_by_company, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.PhoneNumber,
		user.CompanyID,
		user.EmailVerified,
		user.IsVerifiedByCompany,
		user.IsActive,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, phone_number = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.PhoneNumber,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) SetActive(
	ctx context.Context,
	id string,
	active bool,
) error {
	return r.execOne(ctx, "set active",
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active)
}

func (r *repository) SetBlocked(
	ctx context.Context,
	id string,
	blocked bool,
) error {
	return r.execOne(ctx, "set blocked",
		`UPDATE users SET is_blocked = $2, updated_at = NOW() WHERE id = $1`,
		id, blocked)
}

func (r *repository) SetEmailVerified(ctx context.Context, id string) error {
	return r.execOne(ctx, "set email verified",
		`UPDATE users
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
		`UPDATE users
		 SET verification_token_hash = $2,
		     verification_expires = $3,
		     updated_at = NOW()
		 WHERE id = $1`,
		id, tokenHash, expires)
}

func (r *repository) SetVerifiedByCompany(ctx context.Context, id string) error {
	return r.execOne(ctx, "set verified by company",
		`UPDATE users
		 SET is_verified_by_company = TRUE, updated_at = NOW()
		 WHERE id = $1`,
		id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete user",
		`DELETE FROM users WHERE id = $1`, id)
}

func (r *repository) ListByCompany(
	ctx context.Context,
	companyID string,
) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE company_id = $1
		ORDER BY created_at DESC`, userColumns)

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, companyID); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *repository) ListBlockedByCompany(
	ctx context.Context,
	companyID string,
) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE company_id = $1 AND is_blocked
		ORDER BY created_at DESC`, userColumns)

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, companyID); err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}

	return users, nil
}

func (r *repository) CountByCompany(
	ctx context.Context,
	companyID string,
) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE company_id = $1`, companyID)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

func (r *repository) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

func (r *repository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE is_active AND NOT is_blocked`)
	if err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}

	return count, nil
}

func (r *repository) CountCreatedSince(
	ctx context.Context,
	since time.Time,
) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE created_at >= $1`, since)
	if err != nil {
		return 0, fmt.Errorf("count new users: %w", err)
	}

	return count, nil
}

func (r *repository) UpsertAudioHistory(
	ctx context.Context,
	entry *AudioHistory,
) error {
	query := `
		INSERT INTO user_audio_history
			(user_id, audio_id, has_listened, has_downloaded, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, audio_id) DO UPDATE
		SET has_listened = user_audio_history.has_listened OR EXCLUDED.has_listened,
		    has_downloaded = user_audio_history.has_downloaded OR EXCLUDED.has_downloaded,
		    updated_at = NOW()
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &entry.UpdatedAt, query,
		entry.UserID,
		entry.AudioID,
		entry.HasListened,
		entry.HasDownloaded,
	)
	if err != nil {
		return fmt.Errorf("upsert audio history: %w", err)
	}

	return nil
}

func (r *repository) ListAudioHistory(
	ctx context.Context,
	userID string,
) ([]AudioHistory, error) {
	query := `
		SELECT user_id, audio_id, has_listened, has_downloaded, updated_at
		FROM user_audio_history
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	var entries []AudioHistory
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list audio history: %w", err)
	}

	return entries, nil
}

func (r *repository) CreateJoinRequest(
	ctx context.Context,
	req *JoinRequest,
) error {
	query := `
		INSERT INTO join_requests (id, user_id, company_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, req, query,
		req.ID, req.UserID, req.CompanyID, req.Status)
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
		SELECT id, user_id, company_id, status, resolved_by,
		       created_at, updated_at
		FROM join_requests
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

func (r *repository) ListJoinRequestsByCompany(
	ctx context.Context,
	companyID, status string,
) ([]JoinRequest, error) {
	query := `
		SELECT id, user_id, company_id, status, resolved_by,
		       created_at, updated_at
		FROM join_requests
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`

	var reqs []JoinRequest
	if err := r.db.SelectContext(ctx, &reqs, query, companyID, status); err != nil {
		return nil, fmt.Errorf("list join requests: %w", err)
	}

	return reqs, nil
}

func (r *repository) ResolveJoinRequest(
	ctx context.Context,
	id, status, resolvedBy string,
) error {
	return r.execOne(ctx, "resolve join request",
		`UPDATE join_requests
		 SET status = $2, resolved_by = $3, updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`,
		id, status, resolvedBy)
}

// directory.Store

func (r *repository) Kind() directory.Kind {
	return directory.KindUser
}

func (r *repository) FindByEmail(
	ctx context.Context,
	email string,
) (*directory.Account, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toAccount(user), nil
}

func (r *repository) FindByPhone(
	ctx context.Context,
	phone string,
) (*directory.Account, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE phone_number = $1`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by phone: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}

	return toAccount(&user), nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.execOne(ctx, "update password",
		`UPDATE users
		 SET password_hash = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, passwordHash)
}

func toAccount(u *User) *directory.Account {
	return &directory.Account{
		Kind:          directory.KindUser,
		ID:            u.ID,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		PasswordHash:  u.PasswordHash,
		Role:          RoleUser,
		EmailVerified: u.EmailVerified,
		IsBlocked:     u.IsBlocked,
		IsActive:      u.IsActive,
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
