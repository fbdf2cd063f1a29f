// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/stillmind/internal/core"
)

type Repository interface {
	CreateLevel(ctx context.Context, level *Level) error
	GetLevel(ctx context.Context, id string) (*Level, error)
	UpdateLevel(ctx context.Context, level *Level) error
	DeleteLevel(ctx context.Context, id string) error

	CreateBestFor(ctx context.Context, bestFor *BestFor) error
	GetBestFor(ctx context.Context, id string) (*BestFor, error)
	UpdateBestFor(ctx context.Context, bestFor *BestFor) error
	DeleteBestFor(ctx context.Context, id string) error

	CreateCollection(ctx context.Context, collection *Collection) error
	GetCollection(ctx context.Context, id string) (*Collection, error)
	UpdateCollection(ctx context.Context, collection *Collection) error
	DeleteCollection(ctx context.Context, id string) error
	ReplaceCollectionLevels(
		ctx context.Context,
		collectionID string,
		levelIDs []string,
	) error

	CreateAudio(ctx context.Context, audio *Audio) error
	GetAudio(ctx context.Context, id string) (*Audio, error)
	UpdateAudio(ctx context.Context, audio *Audio) error
	DeleteAudio(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateLevel(ctx context.Context, level *Level) error {
	query := `
		INSERT INTO levels (id, name, is_active)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, level, query, level.ID, level.Name, level.Active)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create level: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create level: %w", err)
	}

	return nil
}

func (r *repository) GetLevel(ctx context.Context, id string) (*Level, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM levels WHERE id = $1`

	var level Level
	err := r.db.GetContext(ctx, &level, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get level: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get level: %w", err)
	}

	return &level, nil
}

func (r *repository) UpdateLevel(ctx context.Context, level *Level) error {
	query := `
		UPDATE levels
		SET name = $2, is_active = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, level, query, level.ID, level.Name, level.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update level: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update level: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update level: %w", err)
	}

	return nil
}

func (r *repository) DeleteLevel(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete level", `DELETE FROM levels WHERE id = $1`, id)
}

func (r *repository) CreateBestFor(ctx context.Context, bestFor *BestFor) error {
	query := `
		INSERT INTO best_fors (id, name, is_active)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, bestFor, query,
		bestFor.ID, bestFor.Name, bestFor.Active)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create best-for: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create best-for: %w", err)
	}

	return nil
}

func (r *repository) GetBestFor(ctx context.Context, id string) (*BestFor, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM best_fors WHERE id = $1`

	var bestFor BestFor
	err := r.db.GetContext(ctx, &bestFor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get best-for: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get best-for: %w", err)
	}

	return &bestFor, nil
}

func (r *repository) UpdateBestFor(ctx context.Context, bestFor *BestFor) error {
	query := `
		UPDATE best_fors
		SET name = $2, is_active = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, bestFor, query,
		bestFor.ID, bestFor.Name, bestFor.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update best-for: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update best-for: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update best-for: %w", err)
	}

	return nil
}

func (r *repository) DeleteBestFor(ctx context.Context, id string) error {
	return r.execOne(ctx,
		"delete best-for", `DELETE FROM best_fors WHERE id = $1`, id)
}

const collectionColumns = `
	id, name, description, image_url, best_for_id, is_active,
	created_at, updated_at`

func (r *repository) CreateCollection(
	ctx context.Context,
	collection *Collection,
) error {
	query := `
		INSERT INTO collections
			(id, name, description, image_url, best_for_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, collection, query,
		collection.ID,
		collection.Name,
		collection.Description,
		collection.ImageURL,
		collection.BestForID,
		collection.Active,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create collection: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create collection: %w", err)
	}

	return nil
}

func (r *repository) GetCollection(
	ctx context.Context,
	id string,
) (*Collection, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM collections WHERE id = $1`, collectionColumns)

	var collection Collection
	err := r.db.GetContext(ctx, &collection, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get collection: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	levelQuery := `
		SELECT level_id FROM collection_levels
		WHERE collection_id = $1
		ORDER BY level_id`

	if err := r.db.SelectContext(
		ctx, &collection.LevelIDs, levelQuery, id,
	); err != nil {
		return nil, fmt.Errorf("get collection levels: %w", err)
	}

	return &collection, nil
}

func (r *repository) UpdateCollection(
	ctx context.Context,
	collection *Collection,
) error {
	query := `
		UPDATE collections
		SET name = $2, description = $3, image_url = $4, best_for_id = $5,
		    is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, collection, query,
		collection.ID,
		collection.Name,
		collection.Description,
		collection.ImageURL,
		collection.BestForID,
		collection.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update collection: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update collection: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update collection: %w", err)
	}

	return nil
}

func (r *repository) DeleteCollection(ctx context.Context, id string) error {
	return r.execOne(ctx,
		"delete collection", `DELETE FROM collections WHERE id = $1`, id)
}

// ReplaceCollectionLevels swaps the collection's level set wholesale.
func (r *repository) ReplaceCollectionLevels(
	ctx context.Context,
	collectionID string,
	levelIDs []string,
) error {
	deleteQuery := `DELETE FROM collection_levels WHERE collection_id = $1`
	if _, err := r.db.ExecContext(ctx, deleteQuery, collectionID); err != nil {
		return fmt.Errorf("replace collection levels: %w", err)
	}

	insertQuery := `
		INSERT INTO collection_levels (collection_id, level_id)
		VALUES ($1, $2)`
	for _, levelID := range levelIDs {
		if _, err := r.db.ExecContext(
			ctx, insertQuery, collectionID, levelID,
		); err != nil {
			return fmt.Errorf("replace collection levels: %w", err)
		}
	}

	return nil
}

const audioColumns = `
	id, collection_id, title, description, audio_url, image_url, duration,
	is_active, created_at, updated_at`

func (r *repository) CreateAudio(ctx context.Context, audio *Audio) error {
	query := `
		INSERT INTO audios
			(id, collection_id, title, description, audio_url, image_url,
			 duration, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, audio, query,
		audio.ID,
		audio.CollectionID,
		audio.Title,
		audio.Description,
		audio.AudioURL,
		audio.ImageURL,
		audio.Duration,
		audio.Active,
	)
	if err != nil {
		return fmt.Errorf("create audio: %w", err)
	}

	return nil
}

func (r *repository) GetAudio(ctx context.Context, id string) (*Audio, error) {
	query := fmt.Sprintf(`SELECT %s FROM audios WHERE id = $1`, audioColumns)

	var audio Audio
	err := r.db.GetContext(ctx, &audio, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get audio: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get audio: %w", err)
	}

	return &audio, nil
}

func (r *repository) UpdateAudio(ctx context.Context, audio *Audio) error {
	query := `
		UPDATE audios
		SET collection_id = $2, title = $3, description = $4, audio_url = $5,
		    image_url = $6, duration = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, audio, query,
		audio.ID,
		audio.CollectionID,
		audio.Title,
		audio.Description,
		audio.AudioURL,
		audio.ImageURL,
		audio.Duration,
		audio.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update audio: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update audio: %w", err)
	}

	return nil
}

func (r *repository) DeleteAudio(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete audio", `DELETE FROM audios WHERE id = $1`, id)
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

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
