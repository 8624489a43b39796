package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/boxup/booking-service/internal/http/middleware"
	"github.com/boxup/booking-service/internal/model"
	"github.com/boxup/booking-service/internal/service"
)

type Handler struct {
	bookings *service.BookingService
	log      zerolog.Logger
}

func NewHandler(bookings *service.BookingService, log zerolog.Logger) *Handler {
	return &Handler{bookings: bookings, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/storage/units/:id", h.getUnit)
	router.GET("/storage/services", h.listServices)
	router.POST("/bookings", h.createBooking)
	router.POST("/payments/sessions/:reference", h.initPaymentSession)
	router.POST("/payments/payment-status", h.paymentStatus)
	router.POST("/payments/customer-signature", h.submitSignature)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/soldes", h.getSolde)
	protected.GET("/customer/profile-customer", h.getProfile)
}

type centerResponse struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

type unitResponse struct {
	ID            int64          `json:"id"`
	BoxNumber     string         `json:"boxNumber"`
	Volume        float64        `json:"volume"`
	Surface       float64        `json:"surface"`
	PricePerMonth float64        `json:"pricePerMonth"`
	Available     bool           `json:"available"`
	Features      []string       `json:"features"`
	Images        []string       `json:"images"`
	StorageCenter centerResponse `json:"storageCenter"`
}

func unitToResponse(unit model.Unit) unitResponse {
	features := unit.Features
	if features == nil {
		features = []string{}
	}
	images := unit.Images
	if images == nil {
		images = []string{}
	}
	return unitResponse{
		ID:            unit.ID,
		BoxNumber:     unit.BoxNumber,
		Volume:        unit.VolumeM3,
		Surface:       unit.SurfaceM2,
		PricePerMonth: unit.PricePerMonth,
		Available:     unit.Available,
		Features:      features,
		Images:        images,
		StorageCenter: centerResponse{
			Name:       unit.Center.Name,
			Address:    unit.Center.Address,
			City:       unit.Center.City,
			PostalCode: unit.Center.PostalCode,
			Phone:      unit.Center.Phone,
		},
	}
}

func (h *Handler) getUnit(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
		return
	}

	unit, err := h.bookings.Unit(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, unitToResponse(*unit))
}

type serviceResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (h *Handler) listServices(c *gin.Context) {
	catalog, err := h.bookings.Services(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]serviceResponse, 0, len(catalog))
	for _, item := range catalog {
		out = append(out, serviceResponse{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getSolde(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	solde, err := h.bookings.Solde(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"solde": solde})
}

type profileResponse struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (h *Handler) getProfile(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	profile, err := h.bookings.Profile(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Email:      profile.Email,
		Phone:      profile.Phone,
		Address:    profile.Address,
		City:       profile.City,
		PostalCode: profile.PostalCode,
		Country:    profile.Country,
	})
}

type createBookingRequest struct {
	UnitID         int64   `json:"unitId" binding:"required"`
	StartDate      string  `json:"startDate" binding:"required"`
	DurationMonths int     `json:"durationMonths" binding:"required"`
	MonthlyPayment bool    `json:"monthlyPayment"`
	FirstName      string  `json:"firstName" binding:"required"`
	LastName       string  `json:"lastName" binding:"required"`
	Email          string  `json:"email" binding:"required"`
	Phone          string  `json:"phone" binding:"required"`
	Address        string  `json:"address" binding:"required"`
	City           string  `json:"city" binding:"required"`
	PostalCode     string  `json:"postalCode" binding:"required"`
	Country        string  `json:"country" binding:"required"`
	ServiceIDs     []int64 `json:"serviceIds"`
}

func (h *Handler) createBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}

	input := service.CreateBookingInput{
		Draft: model.ReservationDraft{
			UnitID:         req.UnitID,
			StartDate:      startDate,
			DurationMonths: req.DurationMonths,
			MonthlyPayment: req.MonthlyPayment,
			ServiceIDs:     req.ServiceIDs,
			Customer: model.CustomerInfo{
				FirstName:  req.FirstName,
				LastName:   req.LastName,
				Email:      req.Email,
				Phone:      req.Phone,
				Address:    req.Address,
				City:       req.City,
				PostalCode: req.PostalCode,
				Country:    req.Country,
			},
		},
	}
	if principal, ok := middleware.MustPrincipal(c); ok {
		input.Principal = &principal
	}

	result, err := h.bookings.CreateBooking(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"reference":  result.Reference,
		"paymentUrl": result.PaymentURL,
	})
}

func (h *Handler) initPaymentSession(c *gin.Context) {
	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing booking reference"})
		return
	}

	checkoutURL, err := h.bookings.InitPaymentSession(c.Request.Context(), reference)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkoutUrl": checkoutURL})
}

type paymentStatusRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (h *Handler) paymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.bookings.PaymentStatus(c.Request.Context(), req.SessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response := gin.H{"paymentStatus": result.PaymentStatus}
	if result.Booking != nil {
		response["booking"] = gin.H{
			"reference":      result.Booking.Reference,
			"customer":       customerToResponse(result.Booking.Customer),
			"unit":           unitToResponse(result.Booking.Unit),
			"startDate":      result.Booking.StartDate.Format(time.RFC3339),
			"durationMonths": result.Booking.DurationMonths,
			"totalPrice":     result.Booking.TotalPrice,
		}
	}
	c.JSON(http.StatusOK, response)
}

func customerToResponse(info model.CustomerInfo) profileResponse {
	return profileResponse{
		FirstName:  info.FirstName,
		LastName:   info.LastName,
		Email:      info.Email,
		Phone:      info.Phone,
		Address:    info.Address,
		City:       info.City,
		PostalCode: info.PostalCode,
		Country:    info.Country,
	}
}

type submitSignatureRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (h *Handler) submitSignature(c *gin.Context) {
	var req submitSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bookings.SubmitSignature(c.Request.Context(), req.SessionID, req.Signature); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnitUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
