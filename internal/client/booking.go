package client

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/boxup/booking-service/internal/model"
)

type unitDTO struct {
	ID            int64    `json:"id"`
	BoxNumber     string   `json:"boxNumber"`
	VolumeM3      float64  `json:"volume"`
	SurfaceM2     float64  `json:"surface"`
	PricePerMonth float64  `json:"pricePerMonth"`
	Available     bool     `json:"available"`
	Features      []string `json:"features"`
	Images        []string `json:"images"`
	StorageCenter struct {
		Name       string `json:"name"`
		Address    string `json:"address"`
		City       string `json:"city"`
		PostalCode string `json:"postalCode"`
		Phone      string `json:"phone"`
	} `json:"storageCenter"`
}

func (d unitDTO) toModel() model.Unit {
	return model.Unit{
		ID:            d.ID,
		BoxNumber:     d.BoxNumber,
		VolumeM3:      d.VolumeM3,
		SurfaceM2:     d.SurfaceM2,
		PricePerMonth: d.PricePerMonth,
		Available:     d.Available,
		Features:      d.Features,
		Images:        d.Images,
		Center: model.StorageCenter{
			Name:       d.StorageCenter.Name,
			Address:    d.StorageCenter.Address,
			City:       d.StorageCenter.City,
			PostalCode: d.StorageCenter.PostalCode,
			Phone:      d.StorageCenter.Phone,
		},
	}
}

type serviceDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type customerDTO struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (d customerDTO) toModel() model.CustomerInfo {
	return model.CustomerInfo{
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Phone:      d.Phone,
		Address:    d.Address,
		City:       d.City,
		PostalCode: d.PostalCode,
		Country:    d.Country,
	}
}

func (c *Client) Unit(ctx context.Context, id int64) (*model.Unit, error) {
	var dto unitDTO
	if err := c.get(ctx, "/storage/units/"+strconv.FormatInt(id, 10), &dto); err != nil {
		return nil, err
	}
	unit := dto.toModel()
	return &unit, nil
}

func (c *Client) Services(ctx context.Context) (model.ServiceCatalog, error) {
	var dtos []serviceDTO
	if err := c.get(ctx, "/storage/services", &dtos); err != nil {
		return nil, err
	}
	catalog := make(model.ServiceCatalog, 0, len(dtos))
	for _, dto := range dtos {
		catalog = append(catalog, model.Service{
			ID:          dto.ID,
			Name:        dto.Name,
			Description: dto.Description,
			Price:       dto.Price,
		})
	}
	return catalog, nil
}

// Solde returns the caller's loyalty discount percentage. A missing or
// non-positive value is a valid "no discount", never an error here.
func (c *Client) Solde(ctx context.Context) (float64, error) {
	var payload struct {
		Solde float64 `json:"solde"`
	}
	if err := c.get(ctx, "/soldes", &payload); err != nil {
		return 0, err
	}
	return payload.Solde, nil
}

func (c *Client) Profile(ctx context.Context) (*model.CustomerInfo, error) {
	var dto customerDTO
	if err := c.get(ctx, "/customer/profile-customer", &dto); err != nil {
		return nil, err
	}
	info := dto.toModel()
	return &info, nil
}

type createBookingRequest struct {
	UnitID         int64   `json:"unitId"`
	StartDate      string  `json:"startDate"`
	DurationMonths int     `json:"durationMonths"`
	MonthlyPayment bool    `json:"monthlyPayment"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	City           string  `json:"city"`
	PostalCode     string  `json:"postalCode"`
	Country        string  `json:"country"`
	ServiceIDs     []int64 `json:"serviceIds"`
}

// BookingCreated is the backend's answer to a draft submission. An empty
// PaymentURL means the booking is already settled.
type BookingCreated struct {
	Reference  string `json:"reference"`
	PaymentURL string `json:"paymentUrl"`
}

// CreateBooking submits the draft. Only wire fields are sent; transient UI
// state never leaves the wizard.
func (c *Client) CreateBooking(ctx context.Context, draft model.ReservationDraft) (*BookingCreated, error) {
	req := createBookingRequest{
		UnitID:         draft.UnitID,
		StartDate:      draft.StartDate.Format(time.RFC3339),
		DurationMonths: draft.DurationMonths,
		MonthlyPayment: draft.MonthlyPayment,
		FirstName:      draft.Customer.FirstName,
		LastName:       draft.Customer.LastName,
		Email:          draft.Customer.Email,
		Phone:          draft.Customer.Phone,
		Address:        draft.Customer.Address,
		City:           draft.Customer.City,
		PostalCode:     draft.Customer.PostalCode,
		Country:        draft.Customer.Country,
		ServiceIDs:     draft.ServiceIDs,
	}
	if req.ServiceIDs == nil {
		req.ServiceIDs = []int64{}
	}

	var created BookingCreated
	if err := c.post(ctx, "/bookings", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// InitPaymentSession performs the second-phase call against the paymentUrl
// returned by CreateBooking and yields the gateway checkout URL to navigate
// to.
func (c *Client) InitPaymentSession(ctx context.Context, paymentURL string) (string, error) {
	path := paymentURL
	if strings.HasPrefix(path, c.baseURL) {
		path = strings.TrimPrefix(path, c.baseURL)
	}
	var payload struct {
		CheckoutURL string `json:"checkoutUrl"`
	}
	if err := c.post(ctx, path, struct{}{}, &payload); err != nil {
		return "", err
	}
	return payload.CheckoutURL, nil
}

type paymentStatusResponse struct {
	PaymentStatus string `json:"paymentStatus"`
	Booking       *struct {
		Reference      string      `json:"reference"`
		Customer       customerDTO `json:"customer"`
		Unit           unitDTO     `json:"unit"`
		StartDate      string      `json:"startDate"`
		DurationMonths int         `json:"durationMonths"`
		TotalPrice     float64     `json:"totalPrice"`
	} `json:"booking"`
}

// PaymentStatusResult is one answer from the status endpoint.
type PaymentStatusResult struct {
	PaymentStatus string
	Booking       *model.BookingContext
}

func (c *Client) PaymentStatus(ctx context.Context, sessionID string) (*PaymentStatusResult, error) {
	req := struct {
		SessionID string `json:"session_id"`
	}{SessionID: sessionID}

	var resp paymentStatusResponse
	if err := c.post(ctx, "/payments/payment-status", req, &resp); err != nil {
		return nil, err
	}

	result := &PaymentStatusResult{PaymentStatus: resp.PaymentStatus}
	if resp.Booking != nil {
		startDate, _ := time.Parse(time.RFC3339, resp.Booking.StartDate)
		result.Booking = &model.BookingContext{
			Reference:      resp.Booking.Reference,
			Customer:       resp.Booking.Customer.toModel(),
			Unit:           resp.Booking.Unit.toModel(),
			StartDate:      startDate,
			DurationMonths: resp.Booking.DurationMonths,
			TotalPrice:     resp.Booking.TotalPrice,
		}
	}
	return result, nil
}

// SubmitSignature sends the captured signature for the paid session. The
// backend records every call, so the caller must invoke this at most once
// per capture.
func (c *Client) SubmitSignature(ctx context.Context, sessionID, signatureDataURL string) error {
	req := struct {
		SessionID string `json:"sessionId"`
		Signature string `json:"signature"`
	}{SessionID: sessionID, Signature: signatureDataURL}
	return c.post(ctx, "/payments/customer-signature", req, nil)
}
