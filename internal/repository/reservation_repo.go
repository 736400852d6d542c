package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
)

// ReservationRepository handles reservation database operations
type ReservationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *sql.DB, logger *zap.Logger) *ReservationRepository {
	return &ReservationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a reservation, inside tx when one is given.
func (r *ReservationRepository) Create(tx *sql.Tx, res *models.Reservation) error {
	query := `
		INSERT INTO reservations (
			user_id, service_id, service_name, quantity, unit_price, total_price, status
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var result sql.Result
	var err error

	if tx != nil {
		result, err = tx.Exec(query,
			res.UserID, res.ServiceID, res.ServiceName, res.Quantity, res.UnitPrice, res.TotalPrice, res.Status)
	} else {
		result, err = r.db.Exec(query,
			res.UserID, res.ServiceID, res.ServiceName, res.Quantity, res.UnitPrice, res.TotalPrice, res.Status)
	}

	if err != nil {
		r.logger.Error("Failed to create reservation", zap.Int64("user_id", res.UserID), zap.Error(err))
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	res.ID = id
	return nil
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepository) ListByUser(userID int64) ([]models.Reservation, error) {
	query := `
		SELECT id, user_id, service_id, service_name, quantity, unit_price, total_price, status, created_at
		FROM reservations
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.logger.Error("Failed to list reservations", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.ServiceID, &res.ServiceName,
			&res.Quantity, &res.UnitPrice, &res.TotalPrice, &res.Status, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// Cancel marks a reservation cancelled. It only touches rows owned by the
// given user and reports whether anything changed.
func (r *ReservationRepository) Cancel(id, userID int64) (bool, error) {
	query := `
		UPDATE reservations
		SET status = ?
		WHERE id = ? AND user_id = ? AND status = ?
	`

	result, err := r.db.Exec(query, models.ReservationCancelled, id, userID, models.ReservationConfirmed)
	if err != nil {
		r.logger.Error("Failed to cancel reservation", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}
