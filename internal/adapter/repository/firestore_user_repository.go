package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"salefinder/internal/domain/entity"
	"salefinder/internal/domain/repository"
	"salefinder/pkg/errors"
)

const usersCollection = "users"

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, profile *entity.Profile) error {
	_, err := r.client.Collection(usersCollection).Doc(profile.HashUID).Create(ctx, profile)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.BadRequest("Profile already exists", err)
		}
		return errors.Internal("Failed to create profile", err)
	}

	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, hashUID string) (*entity.Profile, error) {
	doc, err := r.client.Collection(usersCollection).Doc(hashUID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Profile", err)
		}
		return nil, errors.Internal("Failed to get profile", err)
	}

	var profile entity.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, errors.Internal("Failed to parse profile data", err)
	}

	return &profile, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, hashUID string, fields map[string]interface{}) error {
	doc := r.client.Collection(usersCollection).Doc(hashUID)
	if _, err := doc.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Profile", err)
		}
		return errors.Internal("Failed to get profile", err)
	}

	_, err := doc.Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update profile", err)
	}

	return nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, hashUID string) error {
	_, err := r.client.Collection(usersCollection).Doc(hashUID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete profile", err)
	}

	return nil
}

// AddSavedListing appends postID to the saved set inside a transaction so a
// concurrent save/unsave from the same user can never lose the update.
func (r *firestoreUserRepository) AddSavedListing(ctx context.Context, hashUID, postID string) error {
	ref := r.client.Collection(usersCollection).Doc(hashUID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Profile", err)
			}
			return err
		}

		var profile entity.Profile
		if err := doc.DataTo(&profile); err != nil {
			return err
		}

		if profile.HasSaved(postID) {
			return errors.BadRequest("Listing already saved", nil)
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "savedListings", Value: append(profile.SavedListings, postID)},
		})
	})

	return wrapSavedListingsErr(err, "Failed to save listing")
}

func (r *firestoreUserRepository) RemoveSavedListing(ctx context.Context, hashUID, postID string) error {
	ref := r.client.Collection(usersCollection).Doc(hashUID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Profile", err)
			}
			return err
		}

		var profile entity.Profile
		if err := doc.DataTo(&profile); err != nil {
			return err
		}

		if !profile.HasSaved(postID) {
			return errors.BadRequest("Listing is not saved", nil)
		}

		remaining := make([]string, 0, len(profile.SavedListings)-1)
		for _, id := range profile.SavedListings {
			if id != postID {
				remaining = append(remaining, id)
			}
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "savedListings", Value: remaining},
		})
	})

	return wrapSavedListingsErr(err, "Failed to unsave listing")
}

func (r *firestoreUserRepository) SetSavedListings(ctx context.Context, hashUID string, postIDs []string) error {
	if postIDs == nil {
		postIDs = []string{}
	}

	_, err := r.client.Collection(usersCollection).Doc(hashUID).Update(ctx, []firestore.Update{
		{Path: "savedListings", Value: postIDs},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Profile", err)
		}
		return errors.Internal("Failed to update saved listings", err)
	}

	return nil
}

// wrapSavedListingsErr keeps known kinds raised inside the transaction and
// wraps anything else as internal.
func wrapSavedListingsErr(err error, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.AppError); ok {
		return err
	}
	return errors.Internal(message, err)
}
