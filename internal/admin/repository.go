// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
)

type Repository interface {
	Create(ctx context.Context, admin *Admin) error
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	List(ctx context.Context) ([]Admin, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
	Delete(ctx context.Context, id string) error

	directory.Store
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const adminColumns = `
	id, email, password_hash, name, phone_number, is_blocked, is_active,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, admin *Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash, name, phone_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, admin, query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.Name,
		admin.PhoneNumber,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create admin: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create admin: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE id = $1`, adminColumns)

	var admin Admin
	err := r.db.GetContext(ctx, &admin, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get admin: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}

	return &admin, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE email = $1`, adminColumns)

	var admin Admin
	err := r.db.GetContext(ctx, &admin, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get admin by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by email: %w", err)
	}

	return &admin, nil
}

func (r *repository) List(ctx context.Context) ([]Admin, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM admins ORDER BY created_at DESC`, adminColumns)

	var admins []Admin
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	return admins, nil
}

func (r *repository) SetBlocked(
	ctx context.Context,
	id string,
	blocked bool,
) error {
	return r.execOne(ctx, "set admin blocked",
		`UPDATE admins SET is_blocked = $2, updated_at = NOW() WHERE id = $1`,
		id, blocked)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx,
		"delete admin", `DELETE FROM admins WHERE id = $1`, id)
}

func (r *repository) Kind() directory.Kind {
	return directory.KindAdmin
}

func (r *repository) FindByEmail(
	ctx context.Context,
	email string,
) (*directory.Account, error) {
	admin, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toAccount(admin), nil
}

func (r *repository) FindByPhone(
	ctx context.Context,
	phone string,
) (*directory.Account, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM admins WHERE phone_number = $1`, adminColumns)

	var admin Admin
	err := r.db.GetContext(ctx, &admin, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get admin by phone: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by phone: %w", err)
	}

	return toAccount(&admin), nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.execOne(ctx, "update password",
		`UPDATE admins
		 SET password_hash = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, passwordHash)
}

func toAccount(a *Admin) *directory.Account {
	return &directory.Account{
		Kind:          directory.KindAdmin,
		ID:            a.ID,
		Email:         a.Email,
		PhoneNumber:   a.PhoneNumber,
		PasswordHash:  a.PasswordHash,
		Role:          RoleAdmin,
		EmailVerified: true,
		IsBlocked:     a.IsBlocked,
		IsActive:      a.IsActive,
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
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
