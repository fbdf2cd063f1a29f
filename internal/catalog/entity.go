// AngelaMos | 2026
// entity.go

package catalog

import "time"

// Level tags content difficulty (beginner, intermediate, ...).
type Level struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Active    bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BestFor tags the situation a collection suits (sleep, focus, ...).
type BestFor struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Active    bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Collection groups audios under one theme. A collection carries at
// most one BestFor tag and any number of levels through a join table.
type Collection struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	ImageURL    *string   `db:"image_url"`
	BestForID   *string   `db:"best_for_id"`
	Active      bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	// LevelIDs is hydrated from collection_levels, not a column.
	LevelIDs []string `db:"-"`
}

// Audio is a single track inside a collection. Duration is stored as
// HH:mm:ss text.
type Audio struct {
	ID           string    `db:"id"`
	CollectionID string    `db:"collection_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	AudioURL     string    `db:"audio_url"`
	ImageURL     *string   `db:"image_url"`
	Duration     string    `db:"duration"`
	Active       bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
