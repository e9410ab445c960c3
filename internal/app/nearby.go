package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"menufront/internal/domain"
)

// NearbyService runs the proximity search. Distances in the returned list are
// backend-computed; this tier only renders them.
type NearbyService struct {
	api      domain.MenuAPI
	cache    domain.Cache
	cacheTTL time.Duration

	mu    sync.Mutex
	slots map[string]*ResultSlot
}

func NewNearbyService(api domain.MenuAPI, c domain.Cache, ttl time.Duration) *NearbyService {
	return &NearbyService{api: api, cache: c, cacheTTL: ttl, slots: map[string]*ResultSlot{}}
}

// Search requires a resolved coordinate and an enumerated radius. An empty
// result is a valid answer and comes back as a non-nil empty slice.
func (s *NearbyService) Search(ctx context.Context, at domain.Coordinate, r domain.Radius) ([]domain.HotelSummary, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("radius %d not in %v", r, domain.Radii)
	}
	key := nearbyKey(at, r)
	var cached []domain.HotelSummary
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	out, err := s.api.SearchNearby(ctx, at, r)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// Slot returns the per-session result slot, creating it on first use.
func (s *NearbyService) Slot(sid string) *ResultSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[sid]
	if !ok {
		slot = &ResultSlot{}
		s.slots[sid] = slot
	}
	return slot
}

func nearbyKey(at domain.Coordinate, r domain.Radius) string {
	// round to ~10m so tiny GPS jitter still hits the cache
	return fmt.Sprintf("nearby:%.4f:%.4f:%d", at.Lat, at.Lng, r.Km())
}

// ResultSlot holds the latest nearby-search result for one session. Requests
// are not cancelled once issued, so a slow early response can arrive after a
// fast later one; each search takes a generation token at issue time and only
// the latest issued generation may commit. Everything else is discarded.
type ResultSlot struct {
	mu     sync.Mutex
	issued uint64

	hotels []domain.HotelSummary
	radius domain.Radius
	at     domain.Coordinate
	filled bool
}

// Begin registers a new in-flight search and returns its generation token.
func (s *ResultSlot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit stores the response for gen. It reports false, leaving the slot
// untouched, when a newer search has been issued since.
func (s *ResultSlot) Commit(gen uint64, at domain.Coordinate, r domain.Radius, hotels []domain.HotelSummary) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.issued {
		return false
	}
	s.hotels = hotels
	s.at = at
	s.radius = r
	s.filled = true
	return true
}

// Latest returns the most recently committed result, if any.
func (s *ResultSlot) Latest() ([]domain.HotelSummary, domain.Coordinate, domain.Radius, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hotels, s.at, s.radius, s.filled
}
