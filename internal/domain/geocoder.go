package domain

import (
	"context"
	"errors"
)

// ErrZipNotFound marks a ZIP code the geocoding provider does not know.
var ErrZipNotFound = errors.New("zip code not found")

// Geocoder resolves a US ZIP code to coordinates and a display name.
type Geocoder interface {
	// Geocode returns the location for a five-digit ZIP code. Unknown codes
	// return ErrZipNotFound.
	Geocode(ctx context.Context, zip string) (Location, error)
}
