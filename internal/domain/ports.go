package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// MenuAPI is the outbound port to the backend that owns all business logic.
// This tier only reads, renders, and forwards admin mutations.
type MenuAPI interface {
	ListHotels(ctx context.Context, page int) (HotelPage, error)
	GetHotel(ctx context.Context, id int64) (HotelDetail, error)
	SearchNearby(ctx context.Context, at Coordinate, r Radius) ([]HotelSummary, error)

	CreateHotel(ctx context.Context, token string, h NewHotel) (HotelSummary, error)
	DeleteHotel(ctx context.Context, token string, id int64) error

	Login(ctx context.Context, email, password string) (AuthGrant, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (User, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SessionStore holds the bearer token per visitor session. It is the single
// writer-rare, reader-many piece of shared state; every flow that needs the
// token receives the store explicitly instead of reaching for a global.
type SessionStore interface {
	Token(ctx context.Context, sid string) (string, error)
	Put(ctx context.Context, sid, token string) error
	Clear(ctx context.Context, sid string) error
}

// Locator resolves a coordinate for a client that could not produce one
// itself (no browser geolocation capability).
type Locator interface {
	Locate(ip net.IP) (Coordinate, error)
}

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadFormat    = errors.New("unexpected response format")

	// Location error kinds. Permission-denied must never collapse into the
	// generic failure message.
	ErrNoLocationSupport = errors.New("location capability unavailable")
	ErrLocationDenied    = errors.New("location permission denied")
	ErrLocationUnknown   = errors.New("position unavailable")
)

// ValidationError reports create-form fields rejected before any network
// call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}
