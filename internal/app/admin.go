package app

import (
	"context"
	"strings"

	"menufront/internal/domain"
)

// AdminService backs the hotel management screen: paginated listing, create,
// delete. All state lives in the backend; mutations invalidate caches and the
// screen refetches rather than patching anything locally.
type AdminService struct {
	api    domain.MenuAPI
	browse *BrowseService
}

func NewAdminService(api domain.MenuAPI, browse *BrowseService) *AdminService {
	return &AdminService{api: api, browse: browse}
}

// ListPage fetches one page of records. A requested page beyond the last one
// (stale link, record deleted meanwhile) is clamped by refetching the last
// page the backend reports.
func (s *AdminService) ListPage(ctx context.Context, page int) (domain.HotelPage, error) {
	if page < 1 {
		page = 1
	}
	out, err := s.api.ListHotels(ctx, page)
	if err != nil {
		return domain.HotelPage{}, err
	}
	if page > out.Page.LastPage {
		return s.api.ListHotels(ctx, out.Page.LastPage)
	}
	return out, nil
}

// Create validates required fields before any network call. On success the
// caller should navigate to the last known page, where the backend appends
// new records.
func (s *AdminService) Create(ctx context.Context, token string, h domain.NewHotel) (domain.HotelSummary, error) {
	var missing []string
	if strings.TrimSpace(h.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(h.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(h.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return domain.HotelSummary{}, &domain.ValidationError{Fields: missing}
	}
	return s.api.CreateHotel(ctx, token, h)
}

func (s *AdminService) Delete(ctx context.Context, token string, id int64) error {
	if err := s.api.DeleteHotel(ctx, token, id); err != nil {
		return err
	}
	s.browse.InvalidateHotel(ctx, id)
	return nil
}

// PageAfterDelete decides which page to request once a delete succeeds: when
// the deleted record was the only one on a page past the first, step back so
// the screen never lands on an empty page; otherwise refetch in place.
func PageAfterDelete(current, rowsOnPage int) int {
	if rowsOnPage <= 1 && current > 1 {
		return current - 1
	}
	return current
}
