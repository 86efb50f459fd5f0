package usecase

import (
	"context"
	"io"
	"time"

	"salefinder/internal/domain/entity"
)

// AuthAccounts is the slice of the identity provider the use cases need.
type AuthAccounts interface {
	GetAccount(ctx context.Context, uid string) (email string, created time.Time, err error)
	DeleteAccount(ctx context.Context, uid string) error
}

// FileStorage stores image blobs and is addressed by the public uri it
// returns from UploadImage.
type FileStorage interface {
	UploadImage(ctx context.Context, file io.Reader, contentType string) (string, error)
	DeleteImage(ctx context.Context, uri string) error
}

// Geocoder resolves addresses and US postal codes to coordinates.
type Geocoder interface {
	CoordinatesFromAddress(ctx context.Context, address entity.Address) (float64, float64, error)
	CoordinatesFromZipcode(ctx context.Context, zipcode int) (float64, float64, error)
}
