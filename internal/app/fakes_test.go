package app_test

import (
	"context"
	"sync"

	"menufront/internal/domain"
)

// fakeAPI is an in-memory stand-in for the backend. Listing pages are
// computed Laravel-style from the records slice; out-of-range pages come back
// empty with the requested page number, like the real thing.
type fakeAPI struct {
	mu sync.Mutex

	detail  domain.HotelDetail
	records []domain.HotelSummary
	perPage int

	nearby    []domain.HotelSummary
	nearbyErr error

	grant    domain.AuthGrant
	loginErr error
	user     domain.User
	userErr  error

	listErr   error
	detailErr error
	createErr error
	deleteErr error

	getHotelCalls int
	listCalls     int
	searchCalls   int
	createCalls   int
	deleteCalls   int
	logoutCalls   int
}

func (f *fakeAPI) ListHotels(ctx context.Context, page int) (domain.HotelPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return domain.HotelPage{}, f.listErr
	}
	per := f.perPage
	if per == 0 {
		per = 10
	}
	total := len(f.records)
	last := (total + per - 1) / per
	if last < 1 {
		last = 1
	}
	if page < 1 {
		page = 1
	}
	items := []domain.HotelSummary{}
	lo := (page - 1) * per
	if lo < total {
		hi := lo + per
		if hi > total {
			hi = total
		}
		items = append(items, f.records[lo:hi]...)
	}
	return domain.HotelPage{
		Items: items,
		Page:  domain.PageState{CurrentPage: page, LastPage: last, Total: total, PerPage: per},
	}, nil
}

func (f *fakeAPI) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getHotelCalls++
	if f.detailErr != nil {
		return domain.HotelDetail{}, f.detailErr
	}
	if f.detail.ID != 0 && f.detail.ID != id {
		return domain.HotelDetail{}, domain.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeAPI) SearchNearby(ctx context.Context, at domain.Coordinate, r domain.Radius) ([]domain.HotelSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.nearbyErr != nil {
		return nil, f.nearbyErr
	}
	out := make([]domain.HotelSummary, len(f.nearby))
	copy(out, f.nearby)
	return out, nil
}

func (f *fakeAPI) CreateHotel(ctx context.Context, token string, h domain.NewHotel) (domain.HotelSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return domain.HotelSummary{}, f.createErr
	}
	var maxID int64
	for _, r := range f.records {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	rec := domain.HotelSummary{ID: maxID + 1, Name: h.Name, Address: h.Address, Phone: h.Phone}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAPI) DeleteHotel(ctx context.Context, token string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (domain.AuthGrant, error) {
	if f.loginErr != nil {
		return domain.AuthGrant{}, f.loginErr
	}
	return f.grant, nil
}

func (f *fakeAPI) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return nil
}

func (f *fakeAPI) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	if f.userErr != nil {
		return domain.User{}, f.userErr
	}
	return f.user, nil
}

// fakeCache stands in for the redis JSON cache with a plain map.
type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.HotelDetail:
		*d = v.(domain.HotelDetail)
	case *[]domain.HotelSummary:
		*d = v.([]domain.HotelSummary)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// memStore is an in-memory SessionStore.
type memStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *memStore) Token(ctx context.Context, sid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[sid], nil
}

func (m *memStore) Put(ctx context.Context, sid, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		m.tokens = map[string]string{}
	}
	m.tokens[sid] = token
	return nil
}

func (m *memStore) Clear(ctx context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, sid)
	return nil
}
