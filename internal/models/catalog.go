package models

import "time"

// CatalogService is one bookable storefront item (transport, restaurant,
// hotel or experience).
type CatalogService struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

// Catalog categories shown in the storefront navigation.
const (
	CategoryTransport   = "transportes"
	CategoryRestaurants = "restaurantes"
	CategoryHotels      = "hoteles"
	CategoryExperiences = "experiencias"
)

// User is a storefront account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CartItem is one line of a user's in-memory cart.
type CartItem struct {
	ServiceID int64   `json:"service_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Reservation statuses.
const (
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
)

// Reservation is a persisted booking of a catalog service.
type Reservation struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ServiceID   int64     `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
