package service

import (
	"context"
	"time"

	"github.com/dom/battle-arena/internal/repository"
)

const (
	galleryDefaultLimit = 48
	galleryMaxLimit     = 120
)

// GalleryService lists recent characters across all rooms, read-only.
type GalleryService struct {
	charRepo repository.CharacterRepository
}

func NewGalleryService(charRepo repository.CharacterRepository) *GalleryService {
	return &GalleryService{charRepo: charRepo}
}

type GalleryItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Description string   `json:"description"`
	StyleLabel string    `json:"styleLabel"`
	ImageURL   string    `json:"imageUrl"`
	RoomCode   string    `json:"roomCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (s *GalleryService) List(ctx context.Context, limit, offset int) ([]GalleryItem, error) {
	if limit <= 0 {
		limit = galleryDefaultLimit
	}
	if limit > galleryMaxLimit {
		limit = galleryMaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	characters, err := s.charRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]GalleryItem, 0, len(characters))
	for _, c := range characters {
		item := GalleryItem{
			ID:          c.ID.String(),
			Name:        c.PlayerName,
			Description: c.Description,
			StyleLabel:  c.StyleLabel,
			ImageURL:    c.ImageURL,
			CreatedAt:   c.CreatedAt,
		}
		if c.Room != nil {
			item.RoomCode = c.Room.Code
		}
		items = append(items, item)
	}
	return items, nil
}
