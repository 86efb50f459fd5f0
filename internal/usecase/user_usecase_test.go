package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salefinder/internal/domain/entity"
	"salefinder/pkg/errors"
)

func testProfile(hashUID string, saved ...string) *entity.Profile {
	if saved == nil {
		saved = []string{}
	}
	return &entity.Profile{
		HashUID:       hashUID,
		First:         "Pat",
		Last:          "Doe",
		Email:         "pat@example.com",
		Zipcode:       19103,
		SavedListings: saved,
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCreateProfile(t *testing.T) {
	users := newFakeUserRepo()
	created := time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)
	accounts := &fakeAccounts{email: "pat@example.com", created: created}
	uc := NewUserUseCase(users, newFakeListingRepo(), accounts, &fakeStorage{})

	profile, err := uc.CreateProfile(context.Background(), "pat-hash", "pat-uid", CreateProfileInput{
		First: "Pat", Last: "Doe", Zipcode: 19103,
	})

	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", profile.Email)
	assert.Equal(t, created, profile.CreatedAt)
	assert.NotNil(t, profile.SavedListings)
	assert.Empty(t, profile.SavedListings)
}

func TestCreateProfileDuplicate(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash"))
	accounts := &fakeAccounts{email: "pat@example.com"}
	uc := NewUserUseCase(users, newFakeListingRepo(), accounts, &fakeStorage{})

	_, err := uc.CreateProfile(context.Background(), "pat-hash", "pat-uid", CreateProfileInput{First: "Pat"})

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestUpdateProfileDropsProtectedFields(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash"))
	uc := NewUserUseCase(users, newFakeListingRepo(), &fakeAccounts{}, &fakeStorage{})

	patch := map[string]json.RawMessage{
		"first": json.RawMessage(`"Patricia"`),
		"email": json.RawMessage(`"attacker@example.com"`),
	}
	profile, err := uc.UpdateProfile(context.Background(), "pat-hash", patch)

	require.NoError(t, err)
	assert.Equal(t, "Patricia", profile.First)
	assert.Equal(t, "pat@example.com", profile.Email)
}

func TestUpdateProfileOnlyProtectedFields(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash"))
	uc := NewUserUseCase(users, newFakeListingRepo(), &fakeAccounts{}, &fakeStorage{})

	patch := map[string]json.RawMessage{
		"email":     json.RawMessage(`"attacker@example.com"`),
		"createdAt": json.RawMessage(`"2030-01-01T00:00:00Z"`),
	}
	_, err := uc.UpdateProfile(context.Background(), "pat-hash", patch)

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestUpdateProfileUnknownField(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash"))
	uc := NewUserUseCase(users, newFakeListingRepo(), &fakeAccounts{}, &fakeStorage{})

	patch := map[string]json.RawMessage{"savedListings": json.RawMessage(`[]`)}
	_, err := uc.UpdateProfile(context.Background(), "pat-hash", patch)

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestDeleteProfileCascades(t *testing.T) {
	owned := activeListing("mine", "pat-hash")
	owned.Images = []entity.ListingImage{{URI: "https://storage.googleapis.com/b/listing-images/a.jpg"}}
	other := activeListing("theirs", "other-hash")
	listings := newFakeListingRepo(owned, other)
	users := newFakeUserRepo(testProfile("pat-hash"))
	accounts := &fakeAccounts{}
	storage := &fakeStorage{}
	uc := NewUserUseCase(users, listings, accounts, storage)

	err := uc.DeleteProfile(context.Background(), "pat-hash", "pat-uid")

	require.NoError(t, err)
	assert.Equal(t, []string{"pat-uid"}, accounts.deleted)
	_, err = users.GetByID(context.Background(), "pat-hash")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	_, err = listings.GetByID(context.Background(), "mine")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	_, err = listings.GetByID(context.Background(), "theirs")
	assert.NoError(t, err)
	assert.Contains(t, storage.deleted, "https://storage.googleapis.com/b/listing-images/a.jpg")
}

func TestDeleteProfileAbortsOnAccountFailure(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash"))
	accounts := &fakeAccounts{deleteErr: errors.Internal("auth down", nil)}
	uc := NewUserUseCase(users, newFakeListingRepo(), accounts, &fakeStorage{})

	err := uc.DeleteProfile(context.Background(), "pat-hash", "pat-uid")

	require.Error(t, err)
	_, getErr := users.GetByID(context.Background(), "pat-hash")
	assert.NoError(t, getErr)
}

func TestListOwnedEmpty(t *testing.T) {
	uc := NewUserUseCase(newFakeUserRepo(testProfile("pat-hash")), newFakeListingRepo(), &fakeAccounts{}, &fakeStorage{})

	_, err := uc.ListOwned(context.Background(), "pat-hash")

	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestListOwnedIncludesArchived(t *testing.T) {
	old := activeListing("old", "pat-hash")
	old.Dates = []string{dateOffset(-5)}
	uc := NewUserUseCase(newFakeUserRepo(testProfile("pat-hash")), newFakeListingRepo(old), &fakeAccounts{}, &fakeStorage{})

	listings, err := uc.ListOwned(context.Background(), "pat-hash")

	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, entity.StatusArchived, listings[0].Status)
}

func TestListSavedPrunesStale(t *testing.T) {
	alive := activeListing("A", "someone")
	listings := newFakeListingRepo(alive)
	users := newFakeUserRepo(testProfile("pat-hash", "gone", "A"))
	uc := NewUserUseCase(users, listings, &fakeAccounts{}, &fakeStorage{})

	saved, err := uc.ListSaved(context.Background(), "pat-hash")

	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "A", saved[0].PostID)

	profile, err := users.GetByID(context.Background(), "pat-hash")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, profile.SavedListings)
}

func TestListSavedPrunesArchived(t *testing.T) {
	expired := activeListing("B", "someone")
	expired.Dates = []string{dateOffset(-2)}
	listings := newFakeListingRepo(expired)
	users := newFakeUserRepo(testProfile("pat-hash", "B"))
	uc := NewUserUseCase(users, listings, &fakeAccounts{}, &fakeStorage{})

	_, err := uc.ListSaved(context.Background(), "pat-hash")

	assert.True(t, errors.Is(err, "NOT_FOUND"))

	profile, getErr := users.GetByID(context.Background(), "pat-hash")
	require.NoError(t, getErr)
	assert.Empty(t, profile.SavedListings)
}

func TestListSavedEmpty(t *testing.T) {
	uc := NewUserUseCase(newFakeUserRepo(testProfile("pat-hash")), newFakeListingRepo(), &fakeAccounts{}, &fakeStorage{})

	_, err := uc.ListSaved(context.Background(), "pat-hash")

	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSaveListing(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash"))
	uc := NewUserUseCase(users, newFakeListingRepo(activeListing("A", "someone")), &fakeAccounts{}, &fakeStorage{})

	require.NoError(t, uc.SaveListing(context.Background(), "pat-hash", "A"))

	profile, err := users.GetByID(context.Background(), "pat-hash")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, profile.SavedListings)
}

func TestSaveListingDuplicate(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash", "A"))
	uc := NewUserUseCase(users, newFakeListingRepo(activeListing("A", "someone")), &fakeAccounts{}, &fakeStorage{})

	err := uc.SaveListing(context.Background(), "pat-hash", "A")

	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	profile, _ := users.GetByID(context.Background(), "pat-hash")
	assert.Len(t, profile.SavedListings, 1)
}

func TestSaveListingMissing(t *testing.T) {
	uc := NewUserUseCase(newFakeUserRepo(testProfile("pat-hash")), newFakeListingRepo(), &fakeAccounts{}, &fakeStorage{})

	err := uc.SaveListing(context.Background(), "pat-hash", "ghost")

	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSaveListingConfirmationFailure(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash"))
	users.dropSavedWrites = true
	uc := NewUserUseCase(users, newFakeListingRepo(activeListing("A", "someone")), &fakeAccounts{}, &fakeStorage{})

	err := uc.SaveListing(context.Background(), "pat-hash", "A")

	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
}

func TestUnsaveListingConfirmationFailure(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash", "A"))
	users.dropSavedWrites = true
	uc := NewUserUseCase(users, newFakeListingRepo(), &fakeAccounts{}, &fakeStorage{})

	err := uc.UnsaveListing(context.Background(), "pat-hash", "A")

	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	profile, getErr := users.GetByID(context.Background(), "pat-hash")
	require.NoError(t, getErr)
	assert.True(t, profile.HasSaved("A"))
}

func TestListSavedPruneFailureStillReturns(t *testing.T) {
	alive := activeListing("A", "someone")
	users := newFakeUserRepo(testProfile("pat-hash", "gone", "A"))
	users.setSavedErr = errors.Internal("firestore down", nil)
	uc := NewUserUseCase(users, newFakeListingRepo(alive), &fakeAccounts{}, &fakeStorage{})

	saved, err := uc.ListSaved(context.Background(), "pat-hash")

	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "A", saved[0].PostID)
}

func TestUnsaveListing(t *testing.T) {
	users := newFakeUserRepo(testProfile("pat-hash", "A"))
	uc := NewUserUseCase(users, newFakeListingRepo(), &fakeAccounts{}, &fakeStorage{})

	require.NoError(t, uc.UnsaveListing(context.Background(), "pat-hash", "A"))

	err := uc.UnsaveListing(context.Background(), "pat-hash", "A")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}
