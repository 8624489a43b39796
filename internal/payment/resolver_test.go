package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxup/booking-service/internal/client"
	"github.com/boxup/booking-service/internal/config"
)

func newResolver(api *client.Client, attempts int) *Resolver {
	return NewResolver(api, config.PaymentConfig{
		StatusPollInterval:   time.Millisecond,
		StatusPollAttempts:   attempts,
		PendingRedirectDelay: 10 * time.Second,
	}, zerolog.Nop())
}

func statusServer(t *testing.T, calls *int64, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/payments/payment-status", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		handler(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestMissingSessionIDShortCircuits(t *testing.T) {
	var calls int64
	server := statusServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"paymentStatus": "paid"})
	})
	resolver := newResolver(client.New(server.URL), 3)

	resolution := resolver.Resolve(context.Background(), "  ")

	assert.Equal(t, StatusError, resolution.Status)
	assert.Equal(t, "missing payment session identifier", resolution.Message)
	assert.Zero(t, atomic.LoadInt64(&calls), "no network call may be issued")
}

func TestPaidSessionReturnsBookingContext(t *testing.T) {
	var calls int64
	server := statusServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID string `json:"session_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cs_123", req.SessionID)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"paymentStatus": "paid",
			"booking": map[string]interface{}{
				"reference":      "BK-2043",
				"customer":       map[string]string{"firstName": "Claire", "lastName": "Martin"},
				"unit":           map[string]interface{}{"boxNumber": "B-107", "pricePerMonth": 100.0},
				"startDate":      "2026-09-05T00:00:00Z",
				"durationMonths": 3,
				"totalPrice":     320.0,
			},
		})
	})
	resolver := newResolver(client.New(server.URL), 3)

	resolution := resolver.Resolve(context.Background(), "cs_123")

	assert.Equal(t, StatusPaid, resolution.Status)
	require.NotNil(t, resolution.Booking)
	assert.Equal(t, "BK-2043", resolution.Booking.Reference)
	assert.Equal(t, 320.0, resolution.Booking.TotalPrice)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestPendingAfterBoundedPoll(t *testing.T) {
	var calls int64
	server := statusServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"paymentStatus": "unpaid"})
	})
	resolver := newResolver(client.New(server.URL), 4)

	resolution := resolver.Resolve(context.Background(), "cs_456")

	assert.Equal(t, StatusPending, resolution.Status)
	assert.Nil(t, resolution.Booking)
	assert.Equal(t, int64(4), atomic.LoadInt64(&calls), "poll is bounded by the attempt cap")
}

func TestLatePaymentResolvedByPolling(t *testing.T) {
	var calls int64
	server := statusServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		status := "unpaid"
		if atomic.LoadInt64(&calls) >= 3 {
			status = "paid"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"paymentStatus": status})
	})
	resolver := newResolver(client.New(server.URL), 5)

	resolution := resolver.Resolve(context.Background(), "cs_789")

	assert.Equal(t, StatusPaid, resolution.Status)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestServerFailureSurfacesReason(t *testing.T) {
	var calls int64
	server := statusServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "gateway unreachable"})
	})
	resolver := newResolver(client.New(server.URL), 3)

	resolution := resolver.Resolve(context.Background(), "cs_000")

	assert.Equal(t, StatusError, resolution.Status)
	assert.Equal(t, "gateway unreachable", resolution.Message)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "errors are not retried")
}
