package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"salefinder/internal/domain/entity"
	"salefinder/internal/domain/repository"
	"salefinder/pkg/errors"
)

const listingsCollection = "listings"

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	_, err := r.client.Collection(listingsCollection).Doc(listing.PostID).Create(ctx, listing)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Internal("Listing id collision", err)
		}
		return errors.Internal("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, postID string) (*entity.Listing, error) {
	doc, err := r.client.Collection(listingsCollection).Doc(postID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	return &listing, nil
}

func (r *firestoreListingRepository) GetByIDs(ctx context.Context, postIDs []string) ([]*entity.Listing, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	// Firestore caps batch gets at 30 references per call.
	var listings []*entity.Listing
	for i := 0; i < len(postIDs); i += 30 {
		end := i + 30
		if end > len(postIDs) {
			end = len(postIDs)
		}

		refs := make([]*firestore.DocumentRef, 0, end-i)
		for _, id := range postIDs[i:end] {
			refs = append(refs, r.client.Collection(listingsCollection).Doc(id))
		}

		docs, err := r.client.GetAll(ctx, refs)
		if err != nil {
			return nil, errors.Internal("Failed to batch get listings", err)
		}

		for _, doc := range docs {
			if doc == nil || !doc.Exists() {
				continue
			}
			var listing entity.Listing
			if err := doc.DataTo(&listing); err != nil {
				return nil, errors.Internal("Failed to parse listing data", err)
			}
			listings = append(listings, &listing)
		}
	}

	return listings, nil
}

func (r *firestoreListingRepository) ListByStatus(ctx context.Context, st entity.Status) ([]*entity.Listing, error) {
	query := r.client.Collection(listingsCollection).Where("status", "==", string(st))
	return r.collect(ctx, query.Documents(ctx))
}

func (r *firestoreListingRepository) ListByOwner(ctx context.Context, hashUID string) ([]*entity.Listing, error) {
	query := r.client.Collection(listingsCollection).Where("userId", "==", hashUID)
	return r.collect(ctx, query.Documents(ctx))
}

func (r *firestoreListingRepository) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]*entity.Listing, error) {
	var listings []*entity.Listing
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, errors.Internal("Failed to parse listing data", err)
		}
		listings = append(listings, &listing)
	}

	return listings, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	_, err := r.client.Collection(listingsCollection).Doc(listing.PostID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) UpdateStatus(ctx context.Context, postID string, st entity.Status) error {
	_, err := r.client.Collection(listingsCollection).Doc(postID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to update listing status", err)
	}

	return nil
}

func (r *firestoreListingRepository) Delete(ctx context.Context, postID string) error {
	_, err := r.client.Collection(listingsCollection).Doc(postID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete listing", err)
	}

	return nil
}
