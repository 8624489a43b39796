package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/boxup/booking-service/internal/config"
	"github.com/boxup/booking-service/internal/model"
	"github.com/boxup/booking-service/internal/payment"
	"github.com/boxup/booking-service/internal/pricing"
	"github.com/boxup/booking-service/internal/repository"
)

// BookingService owns the server side of the reservation workflow: it
// validates submitted drafts, recomputes the price with the same engine the
// wizard uses, persists the booking, and drives the checkout session.
type BookingService struct {
	units     *repository.UnitRepository
	catalog   *repository.CatalogRepository
	customers *repository.CustomerRepository
	bookings  *repository.BookingRepository
	stripe    *payment.StripeService
	cfg       *config.Config
	log       zerolog.Logger
}

func NewBookingService(
	units *repository.UnitRepository,
	catalog *repository.CatalogRepository,
	customers *repository.CustomerRepository,
	bookings *repository.BookingRepository,
	stripe *payment.StripeService,
	cfg *config.Config,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		units:     units,
		catalog:   catalog,
		customers: customers,
		bookings:  bookings,
		stripe:    stripe,
		cfg:       cfg,
		log:       log.With().Str("component", "booking-service").Logger(),
	}
}

type CreateBookingInput struct {
	Draft     model.ReservationDraft
	Principal *model.Principal
}

type CreateBookingResult struct {
	Reference  string
	PaymentURL string
}

func (s *BookingService) Unit(ctx context.Context, id int64) (*model.Unit, error) {
	unit, err := s.units.GetUnit(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return unit, nil
}

func (s *BookingService) Services(ctx context.Context) (model.ServiceCatalog, error) {
	return s.catalog.ListServices(ctx)
}

func (s *BookingService) Solde(ctx context.Context, principal model.Principal) (float64, error) {
	return s.catalog.GetSolde(ctx, principal.CustomerID)
}

func (s *BookingService) Profile(ctx context.Context, principal model.Principal) (*model.CustomerInfo, error) {
	info, err := s.customers.GetByID(ctx, principal.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return info, nil
}

// CreateBooking validates the submitted draft against the live catalog,
// recomputes the price, and persists a pending booking. The returned
// PaymentURL is the relative second-phase endpoint the client posts to for
// the gateway checkout URL.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error) {
	draft := input.Draft

	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	unit, err := s.units.GetUnit(ctx, draft.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unit %d", ErrNotFound, draft.UnitID)
		}
		return nil, err
	}
	if !unit.Available {
		return nil, ErrUnitUnavailable
	}

	catalog, err := s.catalog.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	for _, serviceID := range draft.ServiceIDs {
		if !catalog.Contains(serviceID) {
			return nil, fmt.Errorf("%w: unknown service %d", ErrInvalidInput, serviceID)
		}
	}

	customerID, err := s.customers.Upsert(ctx, draft.Customer)
	if err != nil {
		return nil, err
	}

	discountPct := 0.0
	if draft.MonthlyPayment {
		if pct, err := s.catalog.GetSolde(ctx, customerID); err == nil {
			discountPct = pct
		} else {
			s.log.Warn().Err(err).Msg("solde lookup failed, pricing without discount")
		}
	}

	price, err := pricing.Compute(unit, draft.DurationMonths, draft.MonthlyPayment, draft.ServiceIDs, catalog, discountPct)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking := &model.Booking{
		Reference:      buildReference(),
		UnitID:         unit.ID,
		CustomerID:     customerID,
		StartDate:      draft.StartDate,
		DurationMonths: draft.DurationMonths,
		MonthlyPayment: draft.MonthlyPayment,
		BasePrice:      price.BasePrice,
		ServicesTotal:  price.ServicesTotal,
		DiscountAmount: price.DiscountAmount,
		TotalPrice:     price.TotalPrice,
		Status:         model.BookingStatusPending,
	}
	if err := s.bookings.Create(ctx, booking, draft.ServiceIDs); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reference", booking.Reference).
		Int64("unit_id", unit.ID).
		Float64("total", booking.TotalPrice).
		Msg("booking created")

	return &CreateBookingResult{
		Reference:  booking.Reference,
		PaymentURL: "/payments/sessions/" + booking.Reference,
	}, nil
}

// InitPaymentSession opens the checkout session for a pending booking and
// stores the session id the status flow is keyed by.
func (s *BookingService) InitPaymentSession(ctx context.Context, reference string) (string, error) {
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: booking %s", ErrNotFound, reference)
		}
		return "", err
	}

	customer, err := s.customers.GetByID(ctx, booking.CustomerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	email := ""
	if customer != nil {
		email = customer.Email
	}

	amountCents := int64(math.Round(booking.TotalPrice * 100))
	description := fmt.Sprintf("Réservation box - %s", booking.Reference)
	checkoutURL, sessionID, err := s.stripe.CreateCheckoutSession(amountCents, description, email)
	if err != nil {
		return "", err
	}

	if err := s.bookings.SetCheckoutSession(ctx, booking.ID, sessionID); err != nil {
		return "", err
	}
	return checkoutURL, nil
}

type PaymentStatusResult struct {
	PaymentStatus string
	Booking       *model.BookingContext
}

// PaymentStatus reports the gateway's view of the session and, once paid,
// the full context the contract composer needs. The booking flips to
// CONFIRMED on the first paid observation.
func (s *BookingService) PaymentStatus(ctx context.Context, sessionID string) (*PaymentStatusResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}

	booking, err := s.bookings.GetByCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown payment session", ErrNotFound)
		}
		return nil, err
	}

	status, err := s.stripe.SessionPaymentStatus(sessionID)
	if err != nil {
		return nil, err
	}

	if status != string(payment.StatusPaid) {
		return &PaymentStatusResult{PaymentStatus: status}, nil
	}

	if booking.Status != model.BookingStatusConfirmed {
		if err := s.bookings.UpdatePaymentStatus(ctx, booking.ID, status, model.BookingStatusConfirmed); err != nil {
			return nil, err
		}
	}

	unit, err := s.units.GetUnit(ctx, booking.UnitID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, booking.CustomerID)
	if err != nil {
		return nil, err
	}

	return &PaymentStatusResult{
		PaymentStatus: status,
		Booking: &model.BookingContext{
			Reference:      booking.Reference,
			Customer:       *customer,
			Unit:           *unit,
			StartDate:      booking.StartDate,
			DurationMonths: booking.DurationMonths,
			TotalPrice:     booking.TotalPrice,
		},
	}, nil
}

// SubmitSignature records consent for a paid session. Insert-only: the
// caller is responsible for invoking it once.
func (s *BookingService) SubmitSignature(ctx context.Context, sessionID, signature string) error {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(signature) == "" {
		return fmt.Errorf("%w: sessionId and signature are required", ErrInvalidInput)
	}

	booking, err := s.bookings.GetByCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unknown payment session", ErrNotFound)
		}
		return err
	}
	return s.bookings.AddSignature(ctx, booking.ID, signature)
}

func validateDraft(draft model.ReservationDraft) error {
	if draft.UnitID <= 0 {
		return fmt.Errorf("%w: unitId is required", ErrInvalidInput)
	}
	if draft.DurationMonths < 1 {
		return fmt.Errorf("%w: durationMonths must be a positive integer", ErrInvalidInput)
	}
	if draft.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}
	if draft.StartDate.Before(todayUTC()) {
		return fmt.Errorf("%w: startDate cannot be in the past", ErrInvalidInput)
	}

	required := map[string]string{
		"firstName":  draft.Customer.FirstName,
		"lastName":   draft.Customer.LastName,
		"email":      draft.Customer.Email,
		"phone":      draft.Customer.Phone,
		"address":    draft.Customer.Address,
		"city":       draft.Customer.City,
		"postalCode": draft.Customer.PostalCode,
		"country":    draft.Customer.Country,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}
	return nil
}

func buildReference() string {
	return fmt.Sprintf("BK-%08X", time.Now().UnixNano()%0x100000000)
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
