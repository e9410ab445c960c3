package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"menufront/internal/adapters/qr"
	"menufront/internal/app"
	"menufront/internal/domain"
)

type Handlers struct {
	Browse *app.BrowseService
	Nearby *app.NearbyService
	Admin  *app.AdminService
	Sess   *app.SessionService
	Loc    domain.Locator
	QR     *qr.Generator
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hotels", http.StatusSeeOther)
	})
	s.mux.Get("/hotels", h.listHotels)
	s.mux.Get("/hotels/{id}", h.getHotel)
	s.mux.Get("/hotels/{id}/qr.png", h.hotelQR)
	s.mux.Get("/nearby", h.nearbyPage)
	s.mux.Get("/signin", h.signinPage)
	s.mux.Post("/signin", h.signin)
	s.mux.Post("/logout", h.logout)

	// JSON endpoints for embedded widgets; shared menu pages may be framed
	// from other origins, so reads are CORS-open.
	s.mux.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}).Handler)
		r.Get("/nearby", h.apiNearby)
	})

	s.mux.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireAdmin)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/hotels", http.StatusSeeOther)
		})
		r.Get("/hotels", h.adminHotels)
		r.Post("/hotels", h.adminCreate)
		r.Post("/hotels/{id}/delete", h.adminDelete)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// ---- public browse ----

type listData struct {
	Hotels []domain.HotelSummary
	Page   domain.PageState
	Error  string
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	out, err := h.Browse.ListHotels(r.Context(), page)
	if err != nil {
		log.Error().Err(err).Msg("list hotels failed")
		render(w, http.StatusBadGateway, "hotels.html", listData{Error: "Could not connect to the API server."})
		return
	}
	render(w, http.StatusOK, "hotels.html", listData{Hotels: out.Items, Page: out.Page})
}

type hotelData struct {
	Hotel      domain.HotelDetail
	Active     domain.Category
	HasActive  bool
	ShareURL   string
	QRImageURL string
	QRLocalURL string
}

type missingData struct{ ID string }

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		// missing/invalid identifier renders the same view as a failed fetch
		render(w, http.StatusNotFound, "hotel_missing.html", missingData{ID: idStr})
		return
	}
	hd, err := h.Browse.GetHotel(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("get hotel failed")
		render(w, http.StatusNotFound, "hotel_missing.html", missingData{ID: idStr})
		return
	}
	catID, _ := strconv.ParseInt(r.URL.Query().Get("category"), 10, 64)
	active, ok := app.ActiveCategory(hd, catID)
	render(w, http.StatusOK, "hotel.html", hotelData{
		Hotel:      hd,
		Active:     active,
		HasActive:  ok,
		ShareURL:   h.QR.ShareURL(id),
		QRImageURL: h.QR.ImageURL(id, 150),
		QRLocalURL: fmt.Sprintf("/hotels/%d/qr.png", id),
	})
}

func (h *Handlers) hotelQR(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	png, err := h.QR.PNG(id, 256)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "QR failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// ---- nearby search ----

type nearbyData struct {
	Radius   domain.Radius
	Radii    []domain.Radius
	Coord    *domain.Coordinate
	Hotels   []domain.HotelSummary
	Searched bool
	Error    string
}

// nearbyPage drives the whole location flow. The inline page script performs
// the one-shot browser fix and navigates back with lat/lng, or with geo=<kind>
// when the fix failed; geo=unavailable falls through to the IP locator.
func (h *Handlers) nearbyPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := nearbyData{Radius: parseRadius(q.Get("radius")), Radii: domain.Radii}

	switch q.Get("geo") {
	case "denied":
		data.Error = "Location access denied. Please allow geolocation permissions."
		render(w, http.StatusOK, "nearby.html", data)
		return
	case "unavailable":
		at, err := h.Loc.Locate(net.ParseIP(remoteIP(r)))
		if err != nil {
			if errors.Is(err, domain.ErrNoLocationSupport) {
				data.Error = "Geolocation is not supported here."
			} else {
				data.Error = "Could not retrieve location."
			}
			render(w, http.StatusOK, "nearby.html", data)
			return
		}
		u := fmt.Sprintf("/nearby?lat=%.6f&lng=%.6f&radius=%d", at.Lat, at.Lng, data.Radius.Km())
		http.Redirect(w, r, u, http.StatusSeeOther)
		return
	case "failed":
		data.Error = "Could not retrieve location."
		render(w, http.StatusOK, "nearby.html", data)
		return
	}

	latS, lngS := q.Get("lat"), q.Get("lng")
	if latS == "" || lngS == "" {
		// coordinate unresolved: no request is made
		render(w, http.StatusOK, "nearby.html", data)
		return
	}
	at, err := parseCoordinate(latS, lngS)
	if err != nil {
		data.Error = "Could not retrieve location."
		render(w, http.StatusOK, "nearby.html", data)
		return
	}
	data.Coord = &at

	slot := h.Nearby.Slot(sidFrom(r))
	gen := slot.Begin()
	hotels, err := h.Nearby.Search(r.Context(), at, data.Radius)
	if err != nil {
		log.Error().Err(err).Msg("nearby search failed")
		data.Error = "Failed to fetch nearby hotels."
		render(w, http.StatusOK, "nearby.html", data)
		return
	}
	if slot.Commit(gen, at, data.Radius, hotels) {
		data.Hotels = hotels
	} else {
		// a newer search won while this one was in flight; show its result
		data.Hotels, _, data.Radius, _ = slot.Latest()
	}
	data.Searched = true
	render(w, http.StatusOK, "nearby.html", data)
}

type nearbyHotelJSON struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Image    *string  `json:"image,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
}

func (h *Handlers) apiNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	at, err := parseCoordinate(q.Get("lat"), q.Get("lng"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid coordinate", err.Error())
		return
	}
	hotels, err := h.Nearby.Search(r.Context(), at, parseRadius(q.Get("radius")))
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "Search failed", "failed to fetch nearby hotels")
		return
	}
	out := make([]nearbyHotelJSON, 0, len(hotels))
	for _, s := range hotels {
		out = append(out, nearbyHotelJSON{
			ID: s.ID, Name: s.Name, Address: s.Address, Phone: s.Phone,
			Image: s.Image, Distance: s.Distance, Rating: s.Rating,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": out})
}

func parseRadius(s string) domain.Radius {
	n, err := strconv.Atoi(s)
	if err != nil {
		return domain.DefaultRadius
	}
	if r := domain.Radius(n); r.Valid() {
		return r
	}
	return domain.DefaultRadius
}

func parseCoordinate(latS, lngS string) (domain.Coordinate, error) {
	lat, err := strconv.ParseFloat(latS, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("bad lat: %q", latS)
	}
	lng, err := strconv.ParseFloat(lngS, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("bad lng: %q", lngS)
	}
	return domain.NewCoordinate(lat, lng)
}

// ---- auth ----

type signinData struct {
	Email string
	Error string
}

func (h *Handlers) signinPage(w http.ResponseWriter, r *http.Request) {
	var msg string
	if r.URL.Query().Get("err") == "forbidden" {
		msg = "Admin access required."
	}
	render(w, http.StatusOK, "signin.html", signinData{Error: msg})
}

func (h *Handlers) signin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, http.StatusBadRequest, "signin.html", signinData{Error: "Invalid form submission."})
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		render(w, http.StatusOK, "signin.html", signinData{Email: email, Error: "Email and password are required."})
		return
	}
	u, err := h.Sess.SignIn(r.Context(), sidFrom(r), email, password)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		render(w, http.StatusOK, "signin.html", signinData{Email: email, Error: "Authentication failed. Please check your credentials."})
		return
	case err != nil:
		log.Error().Err(err).Msg("sign-in failed")
		render(w, http.StatusOK, "signin.html", signinData{Email: email, Error: "A network error occurred. Check if the backend server is running."})
		return
	}
	if u.Role != "admin" {
		render(w, http.StatusOK, "signin.html", signinData{Email: email, Error: "Invalid credential."})
		return
	}
	http.Redirect(w, r, "/admin/hotels", http.StatusSeeOther)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sess.SignOut(r.Context(), sidFrom(r)); err != nil {
		log.Error().Err(err).Msg("sign-out failed")
	}
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

// RequireAdmin gates the management screens: a missing/expired token goes to
// sign-in, a non-admin identity is rejected.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := h.Sess.CurrentUser(r.Context(), sidFrom(r))
		if err != nil {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		if u.Role != "admin" {
			http.Redirect(w, r, "/signin?err=forbidden", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---- admin CRUD ----

type adminData struct {
	Hotels []domain.HotelSummary
	Page   domain.PageState
	Error  string
	Notice string

	// create-form echo on validation failure
	SaveError string
	Form      domain.NewHotel
}

func (h *Handlers) adminHotels(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	h.renderAdmin(w, r, page, adminData{Notice: noticeFor(r.URL.Query().Get("msg"))})
}

func (h *Handlers) renderAdmin(w http.ResponseWriter, r *http.Request, page int, data adminData) {
	out, err := h.Admin.ListPage(r.Context(), page)
	if err != nil {
		log.Error().Err(err).Msg("admin list failed")
		data.Error = "Could not connect to the API server."
		render(w, http.StatusBadGateway, "admin_hotels.html", data)
		return
	}
	data.Hotels = out.Items
	data.Page = out.Page
	render(w, http.StatusOK, "admin_hotels.html", data)
}

func noticeFor(msg string) string {
	switch msg {
	case "created":
		return "Hotel created."
	case "deleted":
		return "Hotel deleted."
	case "delete_failed":
		return "Failed to delete hotel."
	}
	return ""
}

func (h *Handlers) adminCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	page, _ := strconv.Atoi(r.PostFormValue("page"))
	lastPage, _ := strconv.Atoi(r.PostFormValue("last_page"))
	nh := domain.NewHotel{
		Name:    r.PostFormValue("name"),
		Address: r.PostFormValue("address"),
		Phone:   r.PostFormValue("phone"),
		Image:   r.PostFormValue("image"),
	}

	sid := sidFrom(r)
	token, err := h.Sess.Token(r.Context(), sid)
	if err != nil || token == "" {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	_, err = h.Admin.Create(r.Context(), token, nh)
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		// rejected before any network call; re-render with the entered values
		h.renderAdmin(w, r, page, adminData{
			SaveError: "Please fill out all required fields.",
			Form:      nh,
		})
		return
	case h.Sess.DropIfUnauthorized(r.Context(), sid, err):
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	case err != nil:
		log.Error().Err(err).Msg("create hotel failed")
		h.renderAdmin(w, r, page, adminData{SaveError: "Failed to create hotel.", Form: nh})
		return
	}

	// the backend appends new records, so the last known page shows them
	if lastPage < 1 {
		lastPage = 1
	}
	http.Redirect(w, r, fmt.Sprintf("/admin/hotels?page=%d&msg=created", lastPage), http.StatusSeeOther)
}

func (h *Handlers) adminDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	page, _ := strconv.Atoi(r.PostFormValue("page"))
	if page < 1 {
		page = 1
	}
	rows, _ := strconv.Atoi(r.PostFormValue("rows"))

	// deletion is destructive; the form must carry the explicit confirmation
	if r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, fmt.Sprintf("/admin/hotels?page=%d", page), http.StatusSeeOther)
		return
	}

	sid := sidFrom(r)
	token, err := h.Sess.Token(r.Context(), sid)
	if err != nil || token == "" {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	if err := h.Admin.Delete(r.Context(), token, id); err != nil {
		if h.Sess.DropIfUnauthorized(r.Context(), sid, err) {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("delete hotel failed")
		http.Redirect(w, r, fmt.Sprintf("/admin/hotels?page=%d&msg=delete_failed", page), http.StatusSeeOther)
		return
	}

	next := app.PageAfterDelete(page, rows)
	http.Redirect(w, r, fmt.Sprintf("/admin/hotels?page=%d&msg=deleted", next), http.StatusSeeOther)
}
