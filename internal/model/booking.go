package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCanceled  BookingStatus = "CANCELED"
)

type Booking struct {
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
	Status            BookingStatus
	CheckoutSessionID string
	PaymentStatus     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BookingContext is the merged payload returned by the payment-status
// endpoint once a session is paid. It carries everything the contract
// composer needs.
type BookingContext struct {
	Reference      string
	Customer       CustomerInfo
	Unit           Unit
	StartDate      time.Time
	DurationMonths int
	TotalPrice     float64
}
