package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boxup/booking-service/internal/model"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListServices(ctx context.Context) (model.ServiceCatalog, error) {
	var rows []model.Service
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, description, price
		FROM services
		ORDER BY position ASC, id ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return model.ServiceCatalog(rows), nil
}

// GetSolde returns the customer's loyalty percentage; a missing row is a
// plain zero, not an error.
func (r *CatalogRepository) GetSolde(ctx context.Context, customerID uuid.UUID) (float64, error) {
	var row struct {
		Percent float64
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT percent
		FROM soldes
		WHERE customer_id = ?
		LIMIT 1
	`, customerID).Scan(&row).Error; err != nil {
		return 0, err
	}
	return row.Percent, nil
}
