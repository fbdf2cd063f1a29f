// AngelaMos | 2026
// dto.go

package catalog

import "time"

type CreateLevelRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Active bool   `json:"isActive"`
}

type UpdateLevelRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Active *bool   `json:"isActive,omitempty"`
}

type CreateBestForRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Active bool   `json:"isActive"`
}

type UpdateBestForRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Active *bool   `json:"isActive,omitempty"`
}

type CreateCollectionRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	ImageURL    *string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
	BestForID   *string  `json:"bestForId,omitempty" validate:"omitempty,uuid4"`
	LevelIDs    []string `json:"levelIds,omitempty" validate:"omitempty,dive,uuid4"`
	Active      bool     `json:"isActive"`
}

type UpdateCollectionRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL    *string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	BestForID   *string   `json:"bestForId,omitempty" validate:"omitempty,uuid4"`
	LevelIDs    *[]string `json:"levelIds,omitempty" validate:"omitempty,dive,uuid4"`
	Active      *bool     `json:"isActive,omitempty"`
}

type CreateAudioRequest struct {
	CollectionID string  `json:"collectionId" validate:"required,uuid4"`
	Title        string  `json:"title" validate:"required,min=2,max=200"`
	Description  string  `json:"description" validate:"max=2000"`
	AudioURL     string  `json:"audioUrl" validate:"required,url"`
	ImageURL     *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Duration     string  `json:"duration" validate:"required"`
	Active       bool    `json:"isActive"`
}

type UpdateAudioRequest struct {
	CollectionID *string `json:"collectionId,omitempty" validate:"omitempty,uuid4"`
	Title        *string `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	AudioURL     *string `json:"audioUrl,omitempty" validate:"omitempty,url"`
	ImageURL     *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Duration     *string `json:"duration,omitempty"`
	Active       *bool   `json:"isActive,omitempty"`
}

type LevelResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BestForResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CollectionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	BestForID   *string   `json:"bestForId,omitempty"`
	LevelIDs    []string  `json:"levelIds"`
	Active      bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type AudioResponse struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collectionId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	AudioURL     string    `json:"audioUrl"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Duration     string    `json:"duration"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ToLevelResponse(l *Level) LevelResponse {
	return LevelResponse{
		ID:        l.ID,
		Name:      l.Name,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func ToBestForResponse(b *BestFor) BestForResponse {
	return BestForResponse{
		ID:        b.ID,
		Name:      b.Name,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func ToCollectionResponse(c *Collection) CollectionResponse {
	levelIDs := c.LevelIDs
	if levelIDs == nil {
		levelIDs = []string{}
	}

	return CollectionResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		BestForID:   c.BestForID,
		LevelIDs:    levelIDs,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToAudioResponse(a *Audio) AudioResponse {
	return AudioResponse{
		ID:           a.ID,
		CollectionID: a.CollectionID,
		Title:        a.Title,
		Description:  a.Description,
		AudioURL:     a.AudioURL,
		ImageURL:     a.ImageURL,
		Duration:     a.Duration,
		Active:       a.Active,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
