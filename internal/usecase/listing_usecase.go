package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/google/uuid"

	"salefinder/internal/domain/entity"
	"salefinder/internal/domain/repository"
	"salefinder/internal/domain/service"
	"salefinder/pkg/errors"
	"salefinder/pkg/logger"
)

type ListingUseCase struct {
	listingRepo  repository.ListingRepository
	geocoder     Geocoder
	storage      FileStorage
	legacyBrowse bool
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	geocoder Geocoder,
	storage FileStorage,
	legacyBrowse bool,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo:  listingRepo,
		geocoder:     geocoder,
		storage:      storage,
		legacyBrowse: legacyBrowse,
	}
}

type CreateListingInput struct {
	Title         string
	Description   string
	Address       entity.Address
	Dates         []string
	StartTime     string
	EndTime       string
	Categories    []string
	Subcategories map[string][]string
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, hashUID string, input CreateListingInput) (*entity.Listing, error) {
	lat, lon, err := uc.geocoder.CoordinatesFromAddress(ctx, input.Address)
	if err != nil {
		return nil, err
	}

	g, err := service.EncodeGeoLocation(lat, lon)
	if err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		PostID:        uuid.New().String(),
		Title:         input.Title,
		Description:   input.Description,
		Address:       input.Address,
		Dates:         input.Dates,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Categories:    input.Categories,
		Subcategories: input.Subcategories,
		Status:        entity.ResolveStatus(input.Dates, time.Now()),
		G:             *g,
		UserID:        hashUID,
		GeneratedAt:   time.Now(),
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

type BrowseFilter struct {
	Lat        *float64
	Long       *float64
	Zipcode    *int
	Radius     float64 // miles
	Categories []string
}

// BrowseListings fetches every active and upcoming listing (two queries,
// concatenated), refreshes statuses against today's date, and applies the
// radius and category filters. In legacy mode the filters are accepted but
// ignored, reproducing the original status-only query.
func (uc *ListingUseCase) BrowseListings(ctx context.Context, filter BrowseFilter) ([]*entity.Listing, error) {
	active, err := uc.listingRepo.ListByStatus(ctx, entity.StatusActive)
	if err != nil {
		return nil, err
	}
	upcoming, err := uc.listingRepo.ListByStatus(ctx, entity.StatusUpcoming)
	if err != nil {
		return nil, err
	}

	candidates := append(active, upcoming...)

	now := time.Now()
	listings := make([]*entity.Listing, 0, len(candidates))
	for _, l := range candidates {
		refreshStatus(l, now)
		if l.Status.Retrievable() {
			listings = append(listings, l)
		}
	}

	if uc.legacyBrowse {
		return listings, nil
	}

	center, err := uc.resolveCenter(ctx, filter)
	if err != nil {
		return nil, err
	}

	filtered := make([]*entity.Listing, 0, len(listings))
	for _, l := range listings {
		if service.DistanceMiles(center, l.G.Geopoint) > filter.Radius {
			continue
		}
		if len(filter.Categories) > 0 && !hasAnyCategory(l, filter.Categories) {
			continue
		}
		filtered = append(filtered, l)
	}

	return filtered, nil
}

func (uc *ListingUseCase) resolveCenter(ctx context.Context, filter BrowseFilter) (entity.GeoPoint, error) {
	if filter.Lat != nil && filter.Long != nil {
		return entity.GeoPoint{Latitude: *filter.Lat, Longitude: *filter.Long}, nil
	}
	if filter.Zipcode == nil {
		return entity.GeoPoint{}, errors.BadRequest("Either lat and long or zipcode is required", nil)
	}

	lat, lon, err := uc.geocoder.CoordinatesFromZipcode(ctx, *filter.Zipcode)
	if err != nil {
		return entity.GeoPoint{}, err
	}
	return entity.GeoPoint{Latitude: lat, Longitude: lon}, nil
}

func hasAnyCategory(l *entity.Listing, wanted []string) bool {
	for _, w := range wanted {
		for _, c := range l.Categories {
			if c == w {
				return true
			}
		}
	}
	return false
}

// GetListing returns one listing. Archived listings are only visible to
// their owner; everyone else sees a plain not-found so the existence of the
// listing is not leaked.
func (uc *ListingUseCase) GetListing(ctx context.Context, postID, requesterHashUID string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if refreshStatus(listing, time.Now()) {
		uc.persistStatusAsync(listing.PostID, listing.Status)
	}

	if listing.Status == entity.StatusArchived && listing.UserID != requesterHashUID {
		return nil, errors.NotFound("Listing", nil)
	}

	return listing, nil
}

// refreshStatus re-derives the lifecycle status from the listing's dates.
// A manually postponed listing stays postponed. Reports whether the status
// changed.
func refreshStatus(l *entity.Listing, now time.Time) bool {
	if l.Status == entity.StatusPostponed {
		return false
	}
	derived := entity.ResolveStatus(l.Dates, now)
	if derived == l.Status {
		return false
	}
	l.Status = derived
	return true
}

func (uc *ListingUseCase) persistStatusAsync(postID string, status entity.Status) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.listingRepo.UpdateStatus(ctx, postID, status); err != nil {
			logger.Warn("failed to persist refreshed status for %s: %v", postID, err)
		}
	}()
}

// updatableListingFields is the closed set of patchable field names. Note
// that changing address does not re-derive g.
var updatableListingFields = map[string]bool{
	"title":         true,
	"description":   true,
	"address":       true,
	"dates":         true,
	"startTime":     true,
	"endTime":       true,
	"categories":    true,
	"subcategories": true,
	"status":        true,
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, postID, requesterHashUID string, patch map[string]json.RawMessage) (*entity.Listing, error) {
	if len(patch) == 0 {
		return nil, errors.BadRequest("Patch must contain at least one field", nil)
	}
	for field := range patch {
		if !updatableListingFields[field] {
			return nil, errors.BadRequest(fmt.Sprintf("Field %q is not updatable", field), nil)
		}
	}

	listing, err := uc.listingRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != requesterHashUID {
		return nil, errors.Forbidden("You don't have permission to update this listing", nil)
	}

	if err := applyListingPatch(listing, patch); err != nil {
		return nil, err
	}

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func applyListingPatch(listing *entity.Listing, patch map[string]json.RawMessage) error {
	for field, raw := range patch {
		switch field {
		case "title":
			if err := patchField(field, raw, &listing.Title); err != nil {
				return err
			}
		case "description":
			if err := patchField(field, raw, &listing.Description); err != nil {
				return err
			}
		case "address":
			if err := patchField(field, raw, &listing.Address); err != nil {
				return err
			}
		case "dates":
			var dates []string
			if err := patchField(field, raw, &dates); err != nil {
				return err
			}
			if len(dates) == 0 {
				return errors.BadRequest("dates must not be empty", nil)
			}
			for _, d := range dates {
				if _, err := time.Parse("2006-01-02", d); err != nil {
					return errors.BadRequest(fmt.Sprintf("dates entry %q is not a YYYY-MM-DD date", d), nil)
				}
			}
			listing.Dates = dates
		case "startTime":
			if err := patchTimeOfDay(field, raw, &listing.StartTime); err != nil {
				return err
			}
		case "endTime":
			if err := patchTimeOfDay(field, raw, &listing.EndTime); err != nil {
				return err
			}
		case "categories":
			if err := patchField(field, raw, &listing.Categories); err != nil {
				return err
			}
		case "subcategories":
			if err := patchField(field, raw, &listing.Subcategories); err != nil {
				return err
			}
		case "status":
			var status entity.Status
			if err := patchField(field, raw, &status); err != nil {
				return err
			}
			if !status.Valid() {
				return errors.BadRequest("status must be one of: active, upcoming, postponed, archived", nil)
			}
			listing.Status = status
		}
	}
	return nil
}

func patchField(field string, raw json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			name := field
			if typeErr.Field != "" {
				name = field + "." + typeErr.Field
			}
			return errors.BadRequest(fmt.Sprintf("%s must be of type %s", name, jsonKindName(typeErr.Type.Kind())), nil)
		}
		return errors.BadRequest(fmt.Sprintf("%s is invalid", field), nil)
	}
	return nil
}

func jsonKindName(kind reflect.Kind) string {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

func patchTimeOfDay(field string, raw json.RawMessage, dst *string) error {
	var value string
	if err := patchField(field, raw, &value); err != nil {
		return err
	}
	if _, err := time.Parse("15:04", value); err != nil {
		return errors.BadRequest(fmt.Sprintf("%s must be an HH:mm time", field), nil)
	}
	*dst = value
	return nil
}

// DeleteListing removes the document first, then cleans up image blobs
// best-effort; a blob that cannot be removed is logged, never fatal.
func (uc *ListingUseCase) DeleteListing(ctx context.Context, postID, requesterHashUID string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != requesterHashUID {
		return nil, errors.Forbidden("You don't have permission to delete this listing", nil)
	}

	if err := uc.listingRepo.Delete(ctx, postID); err != nil {
		return nil, err
	}

	uc.cleanupImages(ctx, listing)

	return listing, nil
}

func (uc *ListingUseCase) cleanupImages(ctx context.Context, listing *entity.Listing) {
	for _, img := range listing.Images {
		if err := uc.storage.DeleteImage(ctx, img.URI); err != nil {
			logger.Warn("failed to delete image blob %s for listing %s: %v", img.URI, listing.PostID, err)
		}
	}
}

func (uc *ListingUseCase) AddImage(ctx context.Context, postID, requesterHashUID string, file io.Reader, contentType, caption string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != requesterHashUID {
		return nil, errors.Forbidden("You don't have permission to modify this listing", nil)
	}

	uri, err := uc.storage.UploadImage(ctx, file, contentType)
	if err != nil {
		return nil, errors.Internal("Failed to upload image", err)
	}

	if listing.ImageIndex(uri) >= 0 {
		// The upload already happened; don't leave the blob orphaned.
		if delErr := uc.storage.DeleteImage(ctx, uri); delErr != nil {
			logger.Warn("failed to delete duplicate image blob %s for listing %s: %v", uri, postID, delErr)
		}
		return nil, errors.BadRequest("Image already exists on this listing", nil)
	}

	listing.Images = append(listing.Images, entity.ListingImage{URI: uri, Caption: caption})

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) ChangeImageCaption(ctx context.Context, postID, requesterHashUID, uri, caption string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != requesterHashUID {
		return nil, errors.Forbidden("You don't have permission to modify this listing", nil)
	}

	idx := listing.ImageIndex(uri)
	if idx < 0 {
		return nil, errors.NotFound("Image", nil)
	}
	listing.Images[idx].Caption = caption

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) RemoveImage(ctx context.Context, postID, requesterHashUID, uri string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if listing.UserID != requesterHashUID {
		return nil, errors.Forbidden("You don't have permission to modify this listing", nil)
	}

	idx := listing.ImageIndex(uri)
	if idx < 0 {
		return nil, errors.NotFound("Image", nil)
	}
	listing.Images = append(listing.Images[:idx], listing.Images[idx+1:]...)

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	if err := uc.storage.DeleteImage(ctx, uri); err != nil {
		logger.Warn("failed to delete image blob %s for listing %s: %v", uri, postID, err)
	}

	return listing, nil
}
