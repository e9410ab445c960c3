package domain

import "time"

// HotelSummary is the shallow hotel representation used by listings and the
// nearby search. Optional fields are pointers: the backend omits image,
// distance and rating depending on the endpoint that produced the record.
type HotelSummary struct {
	ID       int64
	Name     string
	Address  string
	Phone    string
	Image    *string
	Distance *float64 // km, present only on proximity-search results
	Rating   *float64
}

// HotelDetail is the fully nested representation: summary fields plus the
// ordered category/menu tree. Categories is never nil after a successful
// decode, only empty.
type HotelDetail struct {
	ID         int64
	Name       string
	Address    string
	Phone      string
	Image      *string
	Rating     *float64
	Categories []Category
}

type Category struct {
	ID        int64
	HotelID   int64
	Name      string
	Image     *string
	MenuItems []MenuItem
}

type MenuItem struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	Price       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewHotel carries the admin create-form fields. Image is optional.
type NewHotel struct {
	Name    string
	Address string
	Phone   string
	Image   string
}

// PageState mirrors the backend's pagination envelope verbatim; it is never
// computed locally.
type PageState struct {
	CurrentPage int
	LastPage    int
	Total       int
	PerPage     int
}

type HotelPage struct {
	Items []HotelSummary
	Page  PageState
}

type User struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

type AuthGrant struct {
	Token string
	User  User
}
