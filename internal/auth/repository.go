// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/stillmind/internal/core"
	"github.com/carterperez-dev/stillmind/internal/directory"
)

type Repository interface {
	CreateResetToken(ctx context.Context, token *PasswordResetToken) error
	LatestResetToken(
		ctx context.Context,
		kind directory.Kind,
		accountID string,
	) (*PasswordResetToken, error)
	ConsumeResetToken(ctx context.Context, id string) error
	DeleteResetTokens(
		ctx context.Context,
		kind directory.Kind,
		accountID string,
	) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateResetToken(
	ctx context.Context,
	token *PasswordResetToken,
) error {
	query := `
		INSERT INTO password_reset_tokens
			(id, account_kind, account_id, token_hash, channel, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &token.CreatedAt, query,
		token.ID,
		token.AccountKind,
		token.AccountID,
		token.TokenHash,
		token.Channel,
		token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}

	return nil
}

func (r *repository) LatestResetToken(
	ctx context.Context,
	kind directory.Kind,
	accountID string,
) (*PasswordResetToken, error) {
	query := `
		SELECT id, account_kind, account_id, token_hash, channel,
		       expires_at, consumed_at, created_at
		FROM password_reset_tokens
		WHERE account_kind = $1 AND account_id = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var token PasswordResetToken
	err := r.db.GetContext(ctx, &token, query, kind, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get reset token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get reset token: %w", err)
	}

	return &token, nil
}

func (r *repository) ConsumeResetToken(ctx context.Context, id string) error {
	query := `
		UPDATE password_reset_tokens
		SET consumed_at = NOW()
		WHERE id = $1 AND consumed_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("consume reset token: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteResetTokens(
	ctx context.Context,
	kind directory.Kind,
	accountID string,
) error {
	query := `
		DELETE FROM password_reset_tokens
		WHERE account_kind = $1 AND account_id = $2`

	if _, err := r.db.ExecContext(ctx, query, kind, accountID); err != nil {
		return fmt.Errorf("delete reset tokens: %w", err)
	}

	return nil
}
