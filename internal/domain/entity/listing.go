package entity

import (
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusUpcoming Status = "upcoming"
	// StatusPostponed is never derived from dates; it can only be set
	// through the update path by the owner.
	StatusPostponed Status = "postponed"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusUpcoming, StatusPostponed, StatusArchived:
		return true
	}
	return false
}

type Address struct {
	Street string `json:"street" firestore:"street"`
	City   string `json:"city" firestore:"city"`
	State  string `json:"state" firestore:"state"`
	Zip    int    `json:"zip" firestore:"zip"`
}

type ListingImage struct {
	URI     string `json:"uri" firestore:"uri"`
	Caption string `json:"caption,omitempty" firestore:"caption,omitempty"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
}

type GeoLocation struct {
	Geohash  string   `json:"geohash" firestore:"geohash"`
	Geopoint GeoPoint `json:"geopoint" firestore:"geopoint"`
}

type Listing struct {
	PostID        string              `json:"postId" firestore:"postId"`
	Title         string              `json:"title" firestore:"title"`
	Description   string              `json:"description" firestore:"description"`
	Address       Address             `json:"address" firestore:"address"`
	Dates         []string            `json:"dates" firestore:"dates"`
	StartTime     string              `json:"startTime" firestore:"startTime"`
	EndTime       string              `json:"endTime" firestore:"endTime"`
	Categories    []string            `json:"categories" firestore:"categories"`
	Subcategories map[string][]string `json:"subcategories,omitempty" firestore:"subcategories,omitempty"`
	Images        []ListingImage      `json:"images,omitempty" firestore:"images,omitempty"`
	Status        Status              `json:"status" firestore:"status"`
	G             GeoLocation         `json:"g" firestore:"g"`
	UserID        string              `json:"userId" firestore:"userId"`
	GeneratedAt   time.Time           `json:"generatedAt" firestore:"generatedAt"`
}

const dateLayout = "2006-01-02"

// ResolveStatus derives the lifecycle status of a listing from its sale
// dates and the given instant. The comparison uses the server-local
// calendar date of now, with no time component:
//
//   - today appears in dates   -> active
//   - any date is after today  -> upcoming
//   - everything is in the past -> archived
//
// "postponed" is never produced here.
func ResolveStatus(dates []string, now time.Time) Status {
	today := now.Format(dateLayout)

	upcoming := false
	for _, d := range dates {
		if d == today {
			return StatusActive
		}
		if d > today {
			upcoming = true
		}
	}
	if upcoming {
		return StatusUpcoming
	}
	return StatusArchived
}

// Retrievable reports whether a listing in this status shows up in browse
// and saved-listing reads. Archived listings are only visible to their
// owner through the single-listing endpoint.
func (s Status) Retrievable() bool {
	return s == StatusActive || s == StatusUpcoming
}

// ImageIndex returns the position of the image with the given uri, or -1.
// The uri is the image's identity within a listing.
func (l *Listing) ImageIndex(uri string) int {
	for i, img := range l.Images {
		if img.URI == uri {
			return i
		}
	}
	return -1
}
