package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salefinder/internal/domain/entity"
	"salefinder/internal/domain/repository"
	"salefinder/pkg/errors"
	"salefinder/pkg/logger"
)

type UserUseCase struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	accounts    AuthAccounts
	storage     FileStorage
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	accounts AuthAccounts,
	storage FileStorage,
) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		listingRepo: listingRepo,
		accounts:    accounts,
		storage:     storage,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, hashUID string) (*entity.Profile, error) {
	return uc.userRepo.GetByID(ctx, hashUID)
}

type CreateProfileInput struct {
	First   string
	Last    string
	Zipcode int
	Street  string
	City    string
	State   string
}

// CreateProfile builds the profile document for the authenticated caller.
// Email and creation time come from the auth provider, never the request
// body.
func (uc *UserUseCase) CreateProfile(ctx context.Context, hashUID, uid string, input CreateProfileInput) (*entity.Profile, error) {
	email, created, err := uc.accounts.GetAccount(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to look up account", err)
	}

	profile := &entity.Profile{
		HashUID:       hashUID,
		First:         input.First,
		Last:          input.Last,
		Email:         email,
		Zipcode:       input.Zipcode,
		Street:        input.Street,
		City:          input.City,
		State:         input.State,
		SavedListings: []string{},
		CreatedAt:     created,
	}

	if err := uc.userRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// updatableProfileFields maps patchable field names to a decoder producing
// the Firestore merge value. Email, createdAt and savedListings are absent
// on purpose; email and createdAt in a patch are dropped silently.
var updatableProfileFields = map[string]func(json.RawMessage) (interface{}, error){
	"first":   decodeString,
	"last":    decodeString,
	"zipcode": decodeInt,
	"street":  decodeString,
	"city":    decodeString,
	"state":   decodeString,
}

func decodeString(raw json.RawMessage) (interface{}, error) {
	var v string
	err := json.Unmarshal(raw, &v)
	return v, err
}

func decodeInt(raw json.RawMessage) (interface{}, error) {
	var v int
	err := json.Unmarshal(raw, &v)
	return v, err
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, hashUID string, patch map[string]json.RawMessage) (*entity.Profile, error) {
	delete(patch, "email")
	delete(patch, "createdAt")

	if len(patch) == 0 {
		return nil, errors.BadRequest("Patch must contain at least one updatable field", nil)
	}

	fields := make(map[string]interface{}, len(patch))
	for field, raw := range patch {
		decode, ok := updatableProfileFields[field]
		if !ok {
			return nil, errors.BadRequest(fmt.Sprintf("Field %q is not updatable", field), nil)
		}
		value, err := decode(raw)
		if err != nil {
			if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
				return nil, errors.BadRequest(fmt.Sprintf("%s must be of type %s", field, jsonKindName(typeErr.Type.Kind())), nil)
			}
			return nil, errors.BadRequest(fmt.Sprintf("%s is invalid", field), nil)
		}
		fields[field] = value
	}

	if err := uc.userRepo.Update(ctx, hashUID, fields); err != nil {
		return nil, err
	}

	return uc.userRepo.GetByID(ctx, hashUID)
}

// DeleteProfile tears down the account in dependency order: the auth record
// first so a failure there aborts cleanly, then the profile document, then
// every listing the user owns along with its image blobs.
func (uc *UserUseCase) DeleteProfile(ctx context.Context, hashUID, uid string) error {
	if _, err := uc.userRepo.GetByID(ctx, hashUID); err != nil {
		return err
	}

	if err := uc.accounts.DeleteAccount(ctx, uid); err != nil {
		return errors.Internal("Failed to delete account", err)
	}

	if err := uc.userRepo.Delete(ctx, hashUID); err != nil {
		return err
	}

	owned, err := uc.listingRepo.ListByOwner(ctx, hashUID)
	if err != nil {
		logger.Warn("failed to list owned listings during account deletion for %s: %v", hashUID, err)
		return nil
	}
	for _, l := range owned {
		if err := uc.listingRepo.Delete(ctx, l.PostID); err != nil {
			logger.Warn("failed to delete listing %s during account deletion: %v", l.PostID, err)
			continue
		}
		for _, img := range l.Images {
			if err := uc.storage.DeleteImage(ctx, img.URI); err != nil {
				logger.Warn("failed to delete image blob %s during account deletion: %v", img.URI, err)
			}
		}
	}

	return nil
}

// ListOwned returns every listing belonging to the caller, regardless of
// status, with statuses refreshed in the response.
func (uc *UserUseCase) ListOwned(ctx context.Context, hashUID string) ([]*entity.Listing, error) {
	listings, err := uc.listingRepo.ListByOwner(ctx, hashUID)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, errors.NotFound("Listings", nil)
	}

	now := time.Now()
	for _, l := range listings {
		refreshStatus(l, now)
	}

	return listings, nil
}

// ListSaved resolves the caller's saved ids to listings, dropping any that
// no longer exist or are no longer retrievable. When stale ids are found
// the pruned set is written back so the list self-heals.
func (uc *UserUseCase) ListSaved(ctx context.Context, hashUID string) ([]*entity.Listing, error) {
	profile, err := uc.userRepo.GetByID(ctx, hashUID)
	if err != nil {
		return nil, err
	}
	if len(profile.SavedListings) == 0 {
		return nil, errors.NotFound("Saved listings", nil)
	}

	fetched, err := uc.listingRepo.GetByIDs(ctx, profile.SavedListings)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entity.Listing, len(fetched))
	now := time.Now()
	for _, l := range fetched {
		refreshStatus(l, now)
		byID[l.PostID] = l
	}

	// Preserve the saved order while filtering.
	listings := make([]*entity.Listing, 0, len(profile.SavedListings))
	kept := make([]string, 0, len(profile.SavedListings))
	for _, id := range profile.SavedListings {
		l, ok := byID[id]
		if !ok || !l.Status.Retrievable() {
			continue
		}
		listings = append(listings, l)
		kept = append(kept, id)
	}

	if len(kept) != len(profile.SavedListings) {
		if err := uc.userRepo.SetSavedListings(ctx, hashUID, kept); err != nil {
			logger.Warn("failed to prune saved listings for %s: %v", hashUID, err)
		}
	}

	if len(listings) == 0 {
		return nil, errors.NotFound("Saved listings", nil)
	}

	return listings, nil
}

// SaveListing adds postID to the saved set and re-reads the profile to
// confirm the write landed.
func (uc *UserUseCase) SaveListing(ctx context.Context, hashUID, postID string) error {
	if _, err := uc.listingRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	if err := uc.userRepo.AddSavedListing(ctx, hashUID, postID); err != nil {
		return err
	}

	profile, err := uc.userRepo.GetByID(ctx, hashUID)
	if err != nil || !profile.HasSaved(postID) {
		return errors.Internal("Failed to confirm saved listing", err)
	}

	return nil
}

// UnsaveListing removes postID from the saved set and confirms its absence.
// The listing itself is not required to still exist.
func (uc *UserUseCase) UnsaveListing(ctx context.Context, hashUID, postID string) error {
	if err := uc.userRepo.RemoveSavedListing(ctx, hashUID, postID); err != nil {
		return err
	}

	profile, err := uc.userRepo.GetByID(ctx, hashUID)
	if err != nil || profile.HasSaved(postID) {
		return errors.Internal("Failed to confirm removed listing", err)
	}

	return nil
}
