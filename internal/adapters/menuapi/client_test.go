package menuapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menufront/internal/adapters/menuapi"
	"menufront/internal/domain"
)

func newClient(t *testing.T, url string) *menuapi.Client {
	t.Helper()
	cl, err := menuapi.New(url, 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_ListHotels_DecodesEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hotels" || r.URL.Query().Get("page") != "2" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data": []map[string]any{
					{"id": 11, "name": "Grand Hyatt", "address": "123 Main St", "phone": "(555) 123-4567"},
				},
				"current_page": 2,
				"last_page":    4,
				"total":        31,
				"per_page":     10,
			},
		})
	}))
	defer ts.Close()

	got, err := newClient(t, ts.URL).ListHotels(testCtx(t), 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Name != "Grand Hyatt" {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	want := domain.PageState{CurrentPage: 2, LastPage: 4, Total: 31, PerPage: 10}
	if got.Page != want {
		t.Fatalf("unexpected page state: %+v", got.Page)
	}
}

func TestClient_GetHotel_NestedCategories(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id": 7, "name": "Grand Hyatt",
				"categories": []map[string]any{
					{
						"id": 3, "hotel_id": 7, "category_name": "Breakfast",
						"menu_items": []map[string]any{
							{"id": 9, "category_id": 3, "item_name": "Omelette", "price": 12.5},
						},
					},
				},
			},
		})
	}))
	defer ts.Close()

	got, err := newClient(t, ts.URL).GetHotel(testCtx(t), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Categories) != 1 || got.Categories[0].Name != "Breakfast" {
		t.Fatalf("unexpected categories: %+v", got.Categories)
	}
	items := got.Categories[0].MenuItems
	if len(items) != 1 || items[0].Name != "Omelette" || items[0].Price != 12.5 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestClient_GetHotel_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	_, err := newClient(t, ts.URL).GetHotel(testCtx(t), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_SearchNearby_EmptyIsNonNil(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") == "" || q.Get("lng") == "" || q.Get("radius") != "5" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer ts.Close()

	at, _ := domain.NewCoordinate(41.0082, 28.9784)
	got, err := newClient(t, ts.URL).SearchNearby(testCtx(t), at, domain.DefaultRadius)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestClient_CreateHotel_SendsBearer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer t0ken" {
			t.Errorf("unexpected auth header: %q", got)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": 99, "name": "New Place"},
		})
	}))
	defer ts.Close()

	got, err := newClient(t, ts.URL).CreateHotel(testCtx(t), "t0ken", domain.NewHotel{
		Name: "New Place", Address: "1 Rd", Phone: "555",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != 99 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestClient_DeleteHotel_NoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/hotels/5" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	if err := newClient(t, ts.URL).DeleteHotel(testCtx(t), "t0ken", 5); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestClient_401MapsToUnauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	err := newClient(t, ts.URL).DeleteHotel(testCtx(t), "expired", 5)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_Login_MissingTokenIsBadFormat(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 1, "role": "admin"},
		})
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).Login(testCtx(t), "a@b.c", "pw")
	if !errors.Is(err, domain.ErrBadFormat) {
		t.Fatalf("expected ErrBadFormat, got %v", err)
	}
}

func TestClient_Login_Grant(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@b.c" {
			t.Errorf("unexpected body: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "t0ken",
			"user":         map[string]any{"id": 1, "name": "Admin", "email": "a@b.c", "role": "admin"},
		})
	}))
	defer ts.Close()

	grant, err := newClient(t, ts.URL).Login(testCtx(t), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if grant.Token != "t0ken" || grant.User.Role != "admin" {
		t.Fatalf("unexpected grant: %+v", grant)
	}
}

func TestClient_Logout_TreatsDeadTokenAsDone(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	if err := newClient(t, ts.URL).Logout(testCtx(t), "already-dead"); err != nil {
		t.Fatalf("expected nil for 401 on logout, got %v", err)
	}
}

func TestClient_MalformedBodyIsBadFormat(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).GetHotel(testCtx(t), 1)
	if !errors.Is(err, domain.ErrBadFormat) {
		t.Fatalf("expected ErrBadFormat, got %v", err)
	}
}

func TestClient_NoRetryOn500(t *testing.T) {
	var hits int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(500)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).GetHotel(testCtx(t), 1)
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if hits != 1 {
		t.Fatalf("a failed call must surface immediately, got %d attempts", hits)
	}
}
