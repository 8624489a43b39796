package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boxup/booking-service/internal/model"
)

type UnitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

type unitRow struct {
	ID            int64
	BoxNumber     string
	VolumeM3      float64
	SurfaceM2     float64
	PricePerMonth float64
	Available     bool
	Features      string
	Images        string
	CenterID      uuid.UUID
	CenterName    string
	CenterAddress string
	CenterCity    string
	CenterPostal  string
	CenterPhone   string
}

func (r *UnitRepository) GetUnit(ctx context.Context, id int64) (*model.Unit, error) {
	var row unitRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id,
			u.box_number,
			u.volume_m3,
			u.surface_m2,
			u.price_per_month,
			u.available,
			u.features,
			u.images,
			c.id AS center_id,
			c.name AS center_name,
			c.address AS center_address,
			c.city AS center_city,
			c.postal_code AS center_postal,
			c.phone AS center_phone
		FROM storage_units u
		JOIN storage_centers c ON c.id = u.center_id
		WHERE u.id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return row.toModel(), nil
}

func (row unitRow) toModel() *model.Unit {
	return &model.Unit{
		ID:            row.ID,
		CenterID:      row.CenterID,
		BoxNumber:     row.BoxNumber,
		VolumeM3:      row.VolumeM3,
		SurfaceM2:     row.SurfaceM2,
		PricePerMonth: row.PricePerMonth,
		Available:     row.Available,
		Features:      splitList(row.Features),
		Images:        splitList(row.Images),
		Center: model.StorageCenter{
			ID:         row.CenterID,
			Name:       row.CenterName,
			Address:    row.CenterAddress,
			City:       row.CenterCity,
			PostalCode: row.CenterPostal,
			Phone:      row.CenterPhone,
		},
	}
}

// splitList unpacks the comma-separated feature/image columns; empty cells
// mean an empty list, never a single empty item.
func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
