package storefront

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
)

// ReservationStore is the booking persistence the storefront needs.
type ReservationStore interface {
	Create(tx *sql.Tx, res *models.Reservation) error
	ListByUser(userID int64) ([]models.Reservation, error)
	Cancel(id, userID int64) (bool, error)
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTransaction(fn func(*sql.Tx) error) error
}

// Reservations turns carts into persisted bookings.
type Reservations struct {
	db     TxRunner
	repo   ReservationStore
	cart   *Cart
	logger *zap.Logger
}

// NewReservations creates the reservation service.
func NewReservations(db TxRunner, repo ReservationStore, cart *Cart, logger *zap.Logger) *Reservations {
	return &Reservations{
		db:     db,
		repo:   repo,
		cart:   cart,
		logger: logger,
	}
}

// Checkout books every cart line for the user in one transaction and empties
// the cart on success.
func (r *Reservations) Checkout(token string, userID int64) ([]models.Reservation, error) {
	items := r.cart.Items(token)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	reservations := make([]models.Reservation, 0, len(items))
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		for _, item := range items {
			res := models.Reservation{
				UserID:      userID,
				ServiceID:   item.ServiceID,
				ServiceName: item.Name,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TotalPrice:  item.UnitPrice * float64(item.Quantity),
				Status:      models.ReservationConfirmed,
			}
			if err := r.repo.Create(tx, &res); err != nil {
				return err
			}
			reservations = append(reservations, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.cart.Clear(token)
	r.logger.Info("Checkout completed",
		zap.Int64("user_id", userID),
		zap.Int("reservations", len(reservations)))
	return reservations, nil
}

// List returns the user's reservations, newest first.
func (r *Reservations) List(userID int64) ([]models.Reservation, error) {
	return r.repo.ListByUser(userID)
}

// Cancel marks one of the user's confirmed reservations cancelled.
func (r *Reservations) Cancel(id, userID int64) error {
	changed, err := r.repo.Cancel(id, userID)
	if err != nil {
		return err
	}
	if !changed {
		return ErrReservationNotFound
	}
	r.logger.Info("Reservation cancelled",
		zap.Int64("reservation_id", id),
		zap.Int64("user_id", userID))
	return nil
}
