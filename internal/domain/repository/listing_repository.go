package repository

import (
	"context"

	"salefinder/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, postID string) (*entity.Listing, error)
	// GetByIDs batch-fetches listings; ids with no backing document are
	// silently skipped.
	GetByIDs(ctx context.Context, postIDs []string) ([]*entity.Listing, error)
	ListByStatus(ctx context.Context, status entity.Status) ([]*entity.Listing, error)
	ListByOwner(ctx context.Context, hashUID string) ([]*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	UpdateStatus(ctx context.Context, postID string, status entity.Status) error
	Delete(ctx context.Context, postID string) error
}
