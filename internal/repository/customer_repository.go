package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boxup/booking-service/internal/model"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

type customerRow struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

func (row customerRow) toModel() model.CustomerInfo {
	return model.CustomerInfo{
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Email:      row.Email,
		Phone:      row.Phone,
		Address:    row.Address,
		City:       row.City,
		PostalCode: row.PostalCode,
		Country:    row.Country,
	}
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CustomerInfo, error) {
	var row customerRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, first_name, last_name, email, phone, address, city, postal_code, country
		FROM customers
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	info := row.toModel()
	return &info, nil
}

// Upsert keys customers by email: a returning customer gets their contact
// fields refreshed from the submitted draft.
func (r *CustomerRepository) Upsert(ctx context.Context, info model.CustomerInfo) (uuid.UUID, error) {
	var row struct {
		ID uuid.UUID
	}
	if err := r.db.WithContext(ctx).Raw(`
		INSERT INTO customers (first_name, last_name, email, phone, address, city, postal_code, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country
		RETURNING id
	`, info.FirstName, info.LastName, info.Email, info.Phone, info.Address, info.City, info.PostalCode, info.Country).Scan(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}
