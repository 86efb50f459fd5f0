package entity

import (
	"time"
)

// Profile is a user document keyed by hashUid, the pseudonymous identifier
// derived from the auth subject id. Email and CreatedAt come from the auth
// provider at profile creation and are never client-writable afterwards.
type Profile struct {
	HashUID       string    `json:"hashUid" firestore:"hashUid"`
	First         string    `json:"first" firestore:"first"`
	Last          string    `json:"last" firestore:"last"`
	Email         string    `json:"email" firestore:"email"`
	Zipcode       int       `json:"zipcode" firestore:"zipcode"`
	Street        string    `json:"street,omitempty" firestore:"street,omitempty"`
	City          string    `json:"city,omitempty" firestore:"city,omitempty"`
	State         string    `json:"state,omitempty" firestore:"state,omitempty"`
	SavedListings []string  `json:"savedListings" firestore:"savedListings"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt"`
}

// HasSaved reports whether postID is already in the saved set. SavedListings
// is stored as an ordered sequence but semantically a set; the mutation
// paths keep it duplicate-free.
func (p *Profile) HasSaved(postID string) bool {
	for _, id := range p.SavedListings {
		if id == postID {
			return true
		}
	}
	return false
}
