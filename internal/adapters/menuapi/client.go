package menuapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"menufront/internal/adapters/observability"
	"menufront/internal/domain"
)

// Client talks to the hotel-menu backend. It never retries on its own: every
// retry in this tier is user-initiated, so a failed call surfaces immediately.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- wire types (Laravel resource envelopes) ----

type hotelJSON struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Address  string         `json:"address"`
	Phone    string         `json:"phone"`
	Image    *string        `json:"image"`
	Distance *float64       `json:"distance"`
	Rating   *float64       `json:"rating"`
	Cats     []categoryJSON `json:"categories"`
}

type categoryJSON struct {
	ID      int64      `json:"id"`
	HotelID int64      `json:"hotel_id"`
	Name    string     `json:"category_name"`
	Image   *string    `json:"category_image"`
	Items   []itemJSON `json:"menu_items"`
}

type itemJSON struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	Name        string    `json:"item_name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type pageJSON struct {
	Data        []hotelJSON `json:"data"`
	CurrentPage int         `json:"current_page"`
	LastPage    int         `json:"last_page"`
	Total       int         `json:"total"`
	PerPage     int         `json:"per_page"`
}

// ---- public API ----

func (c *Client) ListHotels(ctx context.Context, page int) (domain.HotelPage, error) {
	if page < 1 {
		page = 1
	}
	var env struct {
		Data pageJSON `json:"data"`
	}
	u := fmt.Sprintf("%s/hotels?page=%d", c.base, page)
	if err := c.do(ctx, http.MethodGet, u, "", nil, &env); err != nil {
		return domain.HotelPage{}, err
	}
	out := domain.HotelPage{
		Items: make([]domain.HotelSummary, 0, len(env.Data.Data)),
		Page: domain.PageState{
			CurrentPage: env.Data.CurrentPage,
			LastPage:    env.Data.LastPage,
			Total:       env.Data.Total,
			PerPage:     env.Data.PerPage,
		},
	}
	for _, h := range env.Data.Data {
		out.Items = append(out.Items, h.summary())
	}
	if out.Page.LastPage < 1 {
		out.Page.LastPage = 1
	}
	if out.Page.CurrentPage < 1 {
		out.Page.CurrentPage = 1
	}
	return out, nil
}

func (c *Client) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	var env struct {
		Data hotelJSON `json:"data"`
	}
	u := fmt.Sprintf("%s/hotels/%d", c.base, id)
	if err := c.do(ctx, http.MethodGet, u, "", nil, &env); err != nil {
		return domain.HotelDetail{}, err
	}
	return env.Data.detail(), nil
}

func (c *Client) SearchNearby(ctx context.Context, at domain.Coordinate, r domain.Radius) ([]domain.HotelSummary, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", at.Lat))
	q.Set("lng", fmt.Sprintf("%.6f", at.Lng))
	q.Set("radius", fmt.Sprintf("%d", r.Km()))

	var env struct {
		Data []hotelJSON `json:"data"`
	}
	u := fmt.Sprintf("%s/hotels/nearby?%s", c.base, q.Encode())
	if err := c.do(ctx, http.MethodGet, u, "", nil, &env); err != nil {
		return nil, err
	}
	// zero results is a valid answer, not an error; keep the slice non-nil so
	// callers can tell "empty" from "never fetched"
	out := make([]domain.HotelSummary, 0, len(env.Data))
	for _, h := range env.Data {
		out = append(out, h.summary())
	}
	return out, nil
}

func (c *Client) CreateHotel(ctx context.Context, token string, h domain.NewHotel) (domain.HotelSummary, error) {
	body := map[string]string{
		"name":    h.Name,
		"address": h.Address,
		"phone":   h.Phone,
		"image":   h.Image,
	}
	var env struct {
		Data hotelJSON `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, c.base+"/hotels", token, body, &env); err != nil {
		return domain.HotelSummary{}, err
	}
	return env.Data.summary(), nil
}

func (c *Client) DeleteHotel(ctx context.Context, token string, id int64) error {
	u := fmt.Sprintf("%s/hotels/%d", c.base, id)
	return c.do(ctx, http.MethodDelete, u, token, nil, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthGrant, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, c.base+"/login", "", body, &resp); err != nil {
		return domain.AuthGrant{}, err
	}
	if resp.AccessToken == "" {
		return domain.AuthGrant{}, fmt.Errorf("login: %w: missing access_token", domain.ErrBadFormat)
	}
	return domain.AuthGrant{
		Token: resp.AccessToken,
		User: domain.User{
			ID:    resp.User.ID,
			Name:  resp.User.Name,
			Email: resp.User.Email,
			Role:  resp.User.Role,
		},
	}, nil
}

// Logout revokes the token. A 401 means the token was already dead, which is
// the outcome the caller wanted.
func (c *Client) Logout(ctx context.Context, token string) error {
	err := c.do(ctx, http.MethodPost, c.base+"/logout", token, nil, nil)
	if errors.Is(err, domain.ErrUnauthorized) {
		return nil
	}
	return err
}

func (c *Client) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	var u domain.User
	var resp struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.do(ctx, http.MethodGet, c.base+"/user", token, nil, &resp); err != nil {
		return u, err
	}
	return domain.User{ID: resp.ID, Name: resp.Name, Email: resp.Email, Role: resp.Role}, nil
}

// ---- internals ----

func (c *Client) do(ctx context.Context, method, u, token string, body any, out any) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "menufront/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveBackend(endpointLabel(req), 0, time.Since(start))
		return fmt.Errorf("menu api unreachable: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveBackend(endpointLabel(req), resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNoContent:
		io.Copy(io.Discard, resp.Body)
		return nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrBadFormat, err)
		}
		return nil

	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound

	case resp.StatusCode == http.StatusUnauthorized:
		return domain.ErrUnauthorized

	default:
		return fmt.Errorf("menu api status %d: %s", resp.StatusCode, errorMessage(resp.Body))
	}
}

// errorMessage pulls the backend's "message" field when the error body is
// JSON, else a trimmed slice of whatever came back.
func errorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(b))
}

func endpointLabel(req *http.Request) string {
	p := req.URL.Path
	// collapse ids so the label cardinality stays bounded
	parts := strings.Split(p, "/")
	for i, s := range parts {
		if s != "" && strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
			parts[i] = "{id}"
		}
	}
	return req.Method + " " + strings.Join(parts, "/")
}

func (h hotelJSON) summary() domain.HotelSummary {
	return domain.HotelSummary{
		ID:       h.ID,
		Name:     h.Name,
		Address:  h.Address,
		Phone:    h.Phone,
		Image:    h.Image,
		Distance: h.Distance,
		Rating:   h.Rating,
	}
}

func (h hotelJSON) detail() domain.HotelDetail {
	d := domain.HotelDetail{
		ID:         h.ID,
		Name:       h.Name,
		Address:    h.Address,
		Phone:      h.Phone,
		Image:      h.Image,
		Rating:     h.Rating,
		Categories: make([]domain.Category, 0, len(h.Cats)),
	}
	for _, cj := range h.Cats {
		cat := domain.Category{
			ID:        cj.ID,
			HotelID:   cj.HotelID,
			Name:      cj.Name,
			Image:     cj.Image,
			MenuItems: make([]domain.MenuItem, 0, len(cj.Items)),
		}
		for _, it := range cj.Items {
			cat.MenuItems = append(cat.MenuItems, domain.MenuItem{
				ID:          it.ID,
				CategoryID:  it.CategoryID,
				Name:        it.Name,
				Description: it.Description,
				Price:       it.Price,
				CreatedAt:   it.CreatedAt,
				UpdatedAt:   it.UpdatedAt,
			})
		}
		d.Categories = append(d.Categories, cat)
	}
	return d
}
