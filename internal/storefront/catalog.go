// Package storefront implements the public shop around the traveler-profiling
// flow: the service catalog, account sessions, the cart and reservations.
package storefront

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
)

var (
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized indicates a missing or expired session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmptyCart indicates a checkout with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrServiceNotFound indicates an unknown catalog service ID.
	ErrServiceNotFound = errors.New("service not found")

	// ErrReservationNotFound indicates the reservation does not exist, is not
	// owned by the caller, or is already cancelled.
	ErrReservationNotFound = errors.New("reservation not found")
)

// validCategories are the storefront navigation tabs backed by the catalog.
var validCategories = map[string]bool{
	"all":                      true,
	models.CategoryTransport:   true,
	models.CategoryRestaurants: true,
	models.CategoryHotels:      true,
	models.CategoryExperiences: true,
}

// ServiceStore is the catalog persistence the storefront needs.
type ServiceStore interface {
	List(category string) ([]models.CatalogService, error)
	GetByID(id int64) (*models.CatalogService, error)
}

// Catalog serves the bookable services shown in the storefront.
type Catalog struct {
	services ServiceStore
	logger   *zap.Logger
}

// NewCatalog creates a catalog service.
func NewCatalog(services ServiceStore, logger *zap.Logger) *Catalog {
	return &Catalog{services: services, logger: logger}
}

// List returns the services in a category. "all" or empty returns everything.
func (c *Catalog) List(category string) ([]models.CatalogService, error) {
	if category == "" {
		category = "all"
	}
	if !validCategories[category] {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return c.services.List(category)
}

// Get returns one service by ID.
func (c *Catalog) Get(id int64) (*models.CatalogService, error) {
	svc, err := c.services.GetByID(id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// Categories returns the navigation categories in display order.
func (c *Catalog) Categories() []string {
	return []string{
		models.CategoryTransport,
		models.CategoryRestaurants,
		models.CategoryHotels,
		models.CategoryExperiences,
	}
}
