package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boxup/booking-service/internal/model"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking and its service selection atomically.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking, serviceIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row struct {
			ID uuid.UUID
		}
		if err := tx.Raw(`
			INSERT INTO bookings (
				reference, unit_id, customer_id, start_date, duration_months, monthly_payment,
				base_price, services_total, discount_amount, total_price, status
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`, booking.Reference, booking.UnitID, booking.CustomerID, booking.StartDate,
			booking.DurationMonths, booking.MonthlyPayment, booking.BasePrice,
			booking.ServicesTotal, booking.DiscountAmount, booking.TotalPrice,
			string(booking.Status)).Scan(&row).Error; err != nil {
			return err
		}
		booking.ID = row.ID

		for _, serviceID := range serviceIDs {
			if err := tx.Exec(`
				INSERT INTO booking_services (booking_id, service_id)
				VALUES (?, ?)
			`, booking.ID, serviceID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

type bookingRow struct {
	ID                uuid.UUID
	Reference         string
	UnitID            int64
	CustomerID        uuid.UUID
	StartDate         time.Time
	DurationMonths    int
	MonthlyPayment    bool
	BasePrice         float64
	ServicesTotal     float64
	DiscountAmount    float64
	TotalPrice        float64
	Status            string
	CheckoutSessionID string
	PaymentStatus     string
}

func (row bookingRow) toModel() *model.Booking {
	return &model.Booking{
		ID:                row.ID,
		Reference:         row.Reference,
		UnitID:            row.UnitID,
		CustomerID:        row.CustomerID,
		StartDate:         row.StartDate,
		DurationMonths:    row.DurationMonths,
		MonthlyPayment:    row.MonthlyPayment,
		BasePrice:         row.BasePrice,
		ServicesTotal:     row.ServicesTotal,
		DiscountAmount:    row.DiscountAmount,
		TotalPrice:        row.TotalPrice,
		Status:            model.BookingStatus(row.Status),
		CheckoutSessionID: row.CheckoutSessionID,
		PaymentStatus:     row.PaymentStatus,
	}
}

const bookingColumns = `
	id, reference, unit_id, customer_id, start_date, duration_months, monthly_payment,
	base_price, services_total, discount_amount, total_price, status,
	checkout_session_id, payment_status
`

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	var row bookingRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE reference = ?
		LIMIT 1
	`, reference).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return row.toModel(), nil
}

func (r *BookingRepository) GetByCheckoutSession(ctx context.Context, sessionID string) (*model.Booking, error) {
	var row bookingRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE checkout_session_id = ?
		LIMIT 1
	`, sessionID).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return row.toModel(), nil
}

func (r *BookingRepository) SetCheckoutSession(ctx context.Context, bookingID uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE bookings
		SET checkout_session_id = ?, updated_at = NOW()
		WHERE id = ?
	`, sessionID, bookingID).Error
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, bookingID uuid.UUID, paymentStatus string, status model.BookingStatus) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE bookings
		SET payment_status = ?, status = ?, updated_at = NOW()
		WHERE id = ?
	`, paymentStatus, string(status), bookingID).Error
}

// AddSignature appends a consent record. Deliberately insert-only: every
// submission call leaves its own row.
func (r *BookingRepository) AddSignature(ctx context.Context, bookingID uuid.UUID, signature string) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO booking_signatures (booking_id, signature)
		VALUES (?, ?)
	`, bookingID, signature).Error
}
