package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"salefinder/internal/domain/entity"
	"salefinder/pkg/errors"
)

// In-memory doubles for the repository and infrastructure ports. They
// mirror the error mapping of the Firestore implementations so the use
// cases can be exercised without a live project.

type fakeListingRepo struct {
	listings  map[string]*entity.Listing
	updateErr error
}

func newFakeListingRepo(listings ...*entity.Listing) *fakeListingRepo {
	r := &fakeListingRepo{listings: make(map[string]*entity.Listing)}
	for _, l := range listings {
		clone := *l
		r.listings[l.PostID] = &clone
	}
	return r
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	clone := *listing
	r.listings[listing.PostID] = &clone
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, postID string) (*entity.Listing, error) {
	l, ok := r.listings[postID]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	clone := *l
	return &clone, nil
}

func (r *fakeListingRepo) GetByIDs(ctx context.Context, postIDs []string) ([]*entity.Listing, error) {
	out := make([]*entity.Listing, 0, len(postIDs))
	for _, id := range postIDs {
		if l, ok := r.listings[id]; ok {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) ListByStatus(ctx context.Context, status entity.Status) ([]*entity.Listing, error) {
	var out []*entity.Listing
	for _, l := range r.listings {
		if l.Status == status {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) ListByOwner(ctx context.Context, hashUID string) ([]*entity.Listing, error) {
	var out []*entity.Listing
	for _, l := range r.listings {
		if l.UserID == hashUID {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.listings[listing.PostID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	clone := *listing
	r.listings[listing.PostID] = &clone
	return nil
}

func (r *fakeListingRepo) UpdateStatus(ctx context.Context, postID string, status entity.Status) error {
	l, ok := r.listings[postID]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	l.Status = status
	return nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, postID string) error {
	if _, ok := r.listings[postID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	delete(r.listings, postID)
	return nil
}

type fakeUserRepo struct {
	profiles    map[string]*entity.Profile
	setSavedErr error
	// dropSavedWrites makes the saved-set mutations report success without
	// persisting anything, so confirmation re-reads see the old state.
	dropSavedWrites bool
}

func newFakeUserRepo(profiles ...*entity.Profile) *fakeUserRepo {
	r := &fakeUserRepo{profiles: make(map[string]*entity.Profile)}
	for _, p := range profiles {
		clone := *p
		clone.SavedListings = append([]string(nil), p.SavedListings...)
		r.profiles[p.HashUID] = &clone
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, profile *entity.Profile) error {
	if _, ok := r.profiles[profile.HashUID]; ok {
		return errors.BadRequest("Profile already exists", nil)
	}
	clone := *profile
	r.profiles[profile.HashUID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, hashUID string) (*entity.Profile, error) {
	p, ok := r.profiles[hashUID]
	if !ok {
		return nil, errors.NotFound("Profile", nil)
	}
	clone := *p
	clone.SavedListings = append([]string(nil), p.SavedListings...)
	return &clone, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, hashUID string, fields map[string]interface{}) error {
	p, ok := r.profiles[hashUID]
	if !ok {
		return errors.NotFound("Profile", nil)
	}
	for field, value := range fields {
		switch field {
		case "first":
			p.First = value.(string)
		case "last":
			p.Last = value.(string)
		case "zipcode":
			p.Zipcode = value.(int)
		case "street":
			p.Street = value.(string)
		case "city":
			p.City = value.(string)
		case "state":
			p.State = value.(string)
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, hashUID string) error {
	if _, ok := r.profiles[hashUID]; !ok {
		return errors.NotFound("Profile", nil)
	}
	delete(r.profiles, hashUID)
	return nil
}

func (r *fakeUserRepo) AddSavedListing(ctx context.Context, hashUID, postID string) error {
	p, ok := r.profiles[hashUID]
	if !ok {
		return errors.NotFound("Profile", nil)
	}
	if p.HasSaved(postID) {
		return errors.BadRequest("Listing already saved", nil)
	}
	if r.dropSavedWrites {
		return nil
	}
	p.SavedListings = append(p.SavedListings, postID)
	return nil
}

func (r *fakeUserRepo) RemoveSavedListing(ctx context.Context, hashUID, postID string) error {
	p, ok := r.profiles[hashUID]
	if !ok {
		return errors.NotFound("Profile", nil)
	}
	for i, id := range p.SavedListings {
		if id == postID {
			if r.dropSavedWrites {
				return nil
			}
			p.SavedListings = append(p.SavedListings[:i], p.SavedListings[i+1:]...)
			return nil
		}
	}
	return errors.BadRequest("Listing is not saved", nil)
}

func (r *fakeUserRepo) SetSavedListings(ctx context.Context, hashUID string, postIDs []string) error {
	if r.setSavedErr != nil {
		return r.setSavedErr
	}
	p, ok := r.profiles[hashUID]
	if !ok {
		return errors.NotFound("Profile", nil)
	}
	p.SavedListings = append([]string(nil), postIDs...)
	return nil
}

type fakeGeocoder struct {
	lat, lon float64
	err      error
}

func (g *fakeGeocoder) CoordinatesFromAddress(ctx context.Context, address entity.Address) (float64, float64, error) {
	if g.err != nil {
		return 0, 0, g.err
	}
	return g.lat, g.lon, nil
}

func (g *fakeGeocoder) CoordinatesFromZipcode(ctx context.Context, zipcode int) (float64, float64, error) {
	if g.err != nil {
		return 0, 0, g.err
	}
	return g.lat, g.lon, nil
}

type fakeStorage struct {
	uploads   int
	deleted   []string
	uploadErr error
	// fixedURI, when set, is returned for every upload instead of a unique
	// generated name.
	fixedURI string
}

func (s *fakeStorage) UploadImage(ctx context.Context, file io.Reader, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads++
	if s.fixedURI != "" {
		return s.fixedURI, nil
	}
	return fmt.Sprintf("https://storage.googleapis.com/test-bucket/listing-images/img-%d.jpg", s.uploads), nil
}

func (s *fakeStorage) DeleteImage(ctx context.Context, uri string) error {
	s.deleted = append(s.deleted, uri)
	return nil
}

type fakeAccounts struct {
	email     string
	created   time.Time
	getErr    error
	deleteErr error
	deleted   []string
}

func (a *fakeAccounts) GetAccount(ctx context.Context, uid string) (string, time.Time, error) {
	if a.getErr != nil {
		return "", time.Time{}, a.getErr
	}
	return a.email, a.created, nil
}

func (a *fakeAccounts) DeleteAccount(ctx context.Context, uid string) error {
	if a.deleteErr != nil {
		return a.deleteErr
	}
	a.deleted = append(a.deleted, uid)
	return nil
}

func dateOffset(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}
