package storefront

import (
	"sync"

	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
)

// Cart keeps per-session shopping carts in memory, keyed by the auth token.
type Cart struct {
	catalog *Catalog
	logger  *zap.Logger

	mu    sync.Mutex
	carts map[string][]models.CartItem
}

// NewCart creates the cart service.
func NewCart(catalog *Catalog, logger *zap.Logger) *Cart {
	return &Cart{
		catalog: catalog,
		logger:  logger,
		carts:   make(map[string][]models.CartItem),
	}
}

// Add puts a catalog service in the cart, merging quantities on repeat adds.
func (c *Cart) Add(token string, serviceID int64, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	svc, err := c.catalog.Get(serviceID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.carts[token]
	for i := range items {
		if items[i].ServiceID == serviceID {
			items[i].Quantity += quantity
			c.carts[token] = items
			return append([]models.CartItem{}, items...), nil
		}
	}

	items = append(items, models.CartItem{
		ServiceID: svc.ID,
		Name:      svc.Name,
		UnitPrice: svc.Price,
		Quantity:  quantity,
	})
	c.carts[token] = items
	return append([]models.CartItem{}, items...), nil
}

// Remove drops a service from the cart entirely.
func (c *Cart) Remove(token string, serviceID int64) []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.carts[token]
	kept := items[:0]
	for _, item := range items {
		if item.ServiceID != serviceID {
			kept = append(kept, item)
		}
	}
	c.carts[token] = kept
	return append([]models.CartItem{}, kept...)
}

// Items returns a copy of the cart contents.
func (c *Cart) Items(token string) []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CartItem{}, c.carts[token]...)
}

// Count returns the total number of units in the cart, the number shown on
// the cart badge.
func (c *Cart) Count(token string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var count int
	for _, item := range c.carts[token] {
		count += item.Quantity
	}
	return count
}

// Total returns the cart's monetary total.
func (c *Cart) Total(token string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.carts[token] {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.carts, token)
}
