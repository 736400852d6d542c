// Package repository implements SQLite persistence for the storefront:
// catalog services, user accounts and reservations.
package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
)

// ServiceRepository handles catalog service database operations
type ServiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *sql.DB, logger *zap.Logger) *ServiceRepository {
	return &ServiceRepository{
		db:     db,
		logger: logger,
	}
}

// List returns catalog services, optionally filtered by category. An empty
// category or "all" returns everything.
func (r *ServiceRepository) List(category string) ([]models.CatalogService, error) {
	query := `
		SELECT id, category, name, description, location, price, rating, created_at
		FROM services
	`
	args := []interface{}{}
	if category != "" && category != "all" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY category, name"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list services", zap.String("category", category), zap.Error(err))
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []models.CatalogService
	for rows.Next() {
		var s models.CatalogService
		if err := rows.Scan(&s.ID, &s.Category, &s.Name, &s.Description, &s.Location, &s.Price, &s.Rating, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// GetByID retrieves one catalog service. Returns nil when it does not exist.
func (r *ServiceRepository) GetByID(id int64) (*models.CatalogService, error) {
	query := `
		SELECT id, category, name, description, location, price, rating, created_at
		FROM services
		WHERE id = ?
	`

	var s models.CatalogService
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.Category, &s.Name, &s.Description, &s.Location, &s.Price, &s.Rating, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get service", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &s, nil
}

// Create inserts a catalog service and fills in its generated ID.
func (r *ServiceRepository) Create(s *models.CatalogService) error {
	query := `
		INSERT INTO services (category, name, description, location, price, rating)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, s.Category, s.Name, s.Description, s.Location, s.Price, s.Rating)
	if err != nil {
		r.logger.Error("Failed to create service", zap.String("name", s.Name), zap.Error(err))
		return fmt.Errorf("failed to create service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	s.ID = id
	return nil
}
