package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxup/booking-service/internal/client"
	"github.com/boxup/booking-service/internal/model"
	"github.com/boxup/booking-service/internal/pricing"
)

func testBackend(t *testing.T, bookingHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/storage/units/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 7, "boxNumber": "B-107", "volume": 6.0, "surface": 3.0,
			"pricePerMonth": 100.0, "available": true,
		})
	})
	mux.HandleFunc("/storage/services", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "name": "Insurance", "price": 20.0},
			{"id": 2, "name": "Padlock", "price": 12.5},
		})
	})
	mux.HandleFunc("/soldes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]float64{"solde": 10})
	})
	mux.HandleFunc("/customer/profile-customer", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"firstName": "Claire", "lastName": "Martin", "email": "claire@example.com",
		})
	})
	if bookingHandler != nil {
		mux.HandleFunc("/bookings", bookingHandler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func validCustomer() model.CustomerInfo {
	return model.CustomerInfo{
		FirstName: "Claire", LastName: "Martin", Email: "claire@example.com",
		Phone: "+33600000000", Address: "4 rue des Lilas", City: "Nantes",
		PostalCode: "44000", Country: "France",
	}
}

func newBootstrapped(t *testing.T, server *httptest.Server) *Controller {
	t.Helper()
	controller := New(client.New(server.URL), zerolog.Nop(), 7)
	controller.Bootstrap(context.Background())
	return controller
}

func TestGuardBlocksIncompleteDetails(t *testing.T) {
	controller := newBootstrapped(t, testBackend(t, nil))
	controller.SetStartDate(time.Now().AddDate(0, 0, 1))
	customer := validCustomer()
	customer.Phone = ""
	controller.SetCustomer(customer)

	err := controller.Next()

	var vErr *pricing.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "phone", vErr.Field)
	assert.Equal(t, StateDetails, controller.State())
}

func TestGuardRejectsPastStartDate(t *testing.T) {
	controller := newBootstrapped(t, testBackend(t, nil))
	controller.SetStartDate(time.Now().AddDate(0, 0, -2))
	controller.SetCustomer(validCustomer())

	err := controller.Next()

	var vErr *pricing.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "startDate", vErr.Field)
	assert.Equal(t, StateDetails, controller.State())
}

func TestBackNavigationPreservesDraft(t *testing.T) {
	controller := newBootstrapped(t, testBackend(t, nil))
	controller.SetStartDate(time.Now().AddDate(0, 0, 3))
	require.NoError(t, controller.SetDuration(4))
	controller.SetCustomer(validCustomer())
	require.NoError(t, controller.Next())
	controller.ToggleService(1)

	before := controller.Draft()
	controller.Prev()
	require.NoError(t, controller.Next())

	assert.Equal(t, before, controller.Draft())
	assert.Equal(t, StateServices, controller.State())
}

func TestMonthlyPaymentPinsDuration(t *testing.T) {
	controller := newBootstrapped(t, testBackend(t, nil))
	require.NoError(t, controller.SetDuration(6))

	controller.SetMonthlyPayment(true)

	draft := controller.Draft()
	assert.True(t, draft.MonthlyPayment)
	assert.Equal(t, 1, draft.DurationMonths)
	// 100 × 12 with the 10% solde applied.
	assert.Equal(t, 1080.0, controller.Price().TotalPrice)
	assert.ErrorIs(t, controller.SetDuration(3), ErrWrongState)
}

func TestInvalidDurationKeepsFieldError(t *testing.T) {
	controller := newBootstrapped(t, testBackend(t, nil))
	controller.SetStartDate(time.Now().AddDate(0, 0, 1))
	controller.SetCustomer(validCustomer())

	var vErr *pricing.ValidationError
	require.ErrorAs(t, controller.SetDuration(0), &vErr)
	assert.Equal(t, "durationMonths", vErr.Field)

	err := controller.Next()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StateDetails, controller.State())
}

func TestToggleUnknownServiceIgnored(t *testing.T) {
	controller := newBootstrapped(t, testBackend(t, nil))

	controller.ToggleService(99)

	assert.Empty(t, controller.Draft().ServiceIDs)
}

func TestReactivePricing(t *testing.T) {
	controller := newBootstrapped(t, testBackend(t, nil))
	require.NoError(t, controller.SetDuration(3))
	controller.ToggleService(1)

	assert.Equal(t, 320.0, controller.Price().TotalPrice)

	controller.ToggleService(1)
	assert.Equal(t, 300.0, controller.Price().TotalPrice)
}

func TestConfirmFailureStaysOnSummary(t *testing.T) {
	server := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unit no longer available"})
	})
	controller := newBootstrapped(t, server)
	controller.SetStartDate(time.Now().AddDate(0, 0, 1))
	controller.SetCustomer(validCustomer())
	require.NoError(t, controller.Next())
	require.NoError(t, controller.Next())

	err := controller.Confirm(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateSummary, controller.State())
	assert.Equal(t, "unit no longer available", controller.LastError())
	assert.Nil(t, controller.Outcome())
}

func TestConfirmWithPaymentRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"reference":  "BK-2043",
			"paymentUrl": "/payments/sessions/BK-2043",
		})
	})
	mux.HandleFunc("/payments/sessions/BK-2043", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"checkoutUrl": "https://checkout.example.com/cs_123"})
	})
	full := httptest.NewServer(mux)
	t.Cleanup(full.Close)

	controller := New(client.New(full.URL), zerolog.Nop(), 7)
	controller.SetStartDate(time.Now().AddDate(0, 0, 1))
	controller.SetCustomer(validCustomer())
	require.NoError(t, controller.Next())
	require.NoError(t, controller.Next())

	require.NoError(t, controller.Confirm(context.Background()))

	assert.Equal(t, StateConfirmation, controller.State())
	outcome := controller.Outcome()
	require.NotNil(t, outcome)
	assert.Equal(t, "BK-2043", outcome.Reference)
	assert.Equal(t, "https://checkout.example.com/cs_123", outcome.RedirectURL)
	assert.False(t, outcome.Settled)
}

func TestConfirmWithoutPaymentURLSettles(t *testing.T) {
	server := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"reference": "BK-2044"})
	})
	controller := newBootstrapped(t, server)
	controller.SetStartDate(time.Now().AddDate(0, 0, 1))
	controller.SetCustomer(validCustomer())
	require.NoError(t, controller.Next())
	require.NoError(t, controller.Next())

	require.NoError(t, controller.Confirm(context.Background()))

	outcome := controller.Outcome()
	require.NotNil(t, outcome)
	assert.True(t, outcome.Settled)
	assert.Empty(t, outcome.RedirectURL)
}

func TestConfirmOnlyFromSummary(t *testing.T) {
	controller := newBootstrapped(t, testBackend(t, nil))
	assert.ErrorIs(t, controller.Confirm(context.Background()), ErrWrongState)
}
