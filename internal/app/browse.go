package app

import (
	"context"
	"fmt"
	"time"

	"menufront/internal/domain"
)

// BrowseService serves the public hotel pages: the paginated listing and the
// nested category/menu detail, cache-aside over the backend.
type BrowseService struct {
	api      domain.MenuAPI
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewBrowseService(api domain.MenuAPI, c domain.Cache, ttl time.Duration) *BrowseService {
	return &BrowseService{api: api, cache: c, cacheTTL: ttl}
}

func (s *BrowseService) ListHotels(ctx context.Context, page int) (domain.HotelPage, error) {
	return s.api.ListHotels(ctx, page)
}

func (s *BrowseService) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	key := hotelKey(id)
	var hd domain.HotelDetail
	if ok, _ := s.cache.Get(ctx, key, &hd); ok {
		return hd, nil
	}
	hd, err := s.api.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	if hd.Categories == nil {
		hd.Categories = []domain.Category{}
	}
	_ = s.cache.Set(ctx, key, hd, int(s.cacheTTL.Seconds()))
	return hd, nil
}

func (s *BrowseService) InvalidateHotel(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, hotelKey(id))
}

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

// ActiveCategory picks the category whose items are rendered. The requested
// id must resolve to a member of the loaded collection; anything else falls
// back to the first category. Selection works on resident data only, it never
// refetches.
func ActiveCategory(h domain.HotelDetail, requestedID int64) (domain.Category, bool) {
	if len(h.Categories) == 0 {
		return domain.Category{}, false
	}
	if requestedID != 0 {
		for _, c := range h.Categories {
			if c.ID == requestedID {
				return c, true
			}
		}
	}
	return h.Categories[0], true
}
