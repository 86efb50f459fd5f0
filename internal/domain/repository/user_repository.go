package repository

import (
	"context"

	"salefinder/internal/domain/entity"
)

type UserRepository interface {
	// Create fails with BadRequest when a profile already exists for the
	// hashUid; there are no upsert semantics.
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, hashUID string) (*entity.Profile, error)
	// Update merges the given fields into the profile document.
	Update(ctx context.Context, hashUID string, fields map[string]interface{}) error
	Delete(ctx context.Context, hashUID string) error

	// Saved-listings mutations run as transactional read-modify-writes so
	// concurrent saves from the same user cannot lose an update.
	AddSavedListing(ctx context.Context, hashUID, postID string) error
	RemoveSavedListing(ctx context.Context, hashUID, postID string) error
	// SetSavedListings overwrites the saved set; used by the read-time
	// prune of stale references.
	SetSavedListings(ctx context.Context, hashUID string, postIDs []string) error
}
