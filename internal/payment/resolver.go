// Package payment covers both ends of the gateway hand-off: the resolver the
// post-payment landing flow runs, and the Stripe checkout service the
// backend uses to open and inspect sessions.
package payment

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxup/booking-service/internal/client"
	"github.com/boxup/booking-service/internal/config"
	"github.com/boxup/booking-service/internal/model"
)

type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusError   Status = "error"
)

// Resolution is the outcome of a status check. Booking is set only when the
// session is paid; Message carries the user-facing failure reason.
type Resolution struct {
	Status  Status
	Booking *model.BookingContext
	Message string
}

type Resolver struct {
	api      *client.Client
	interval time.Duration
	attempts int
	redirect time.Duration
	log      zerolog.Logger
}

func NewResolver(api *client.Client, cfg config.PaymentConfig, log zerolog.Logger) *Resolver {
	return &Resolver{
		api:      api,
		interval: cfg.StatusPollInterval,
		attempts: cfg.StatusPollAttempts,
		redirect: cfg.PendingRedirectDelay,
		log:      log.With().Str("component", "payment-resolver").Logger(),
	}
}

// Resolve checks the payment status for the session id taken from the return
// URL. A missing id resolves to an error without touching the network. A
// not-yet-paid session is re-polled a bounded number of times before the
// resolver settles on "pending"; a slow gateway confirmation therefore gets
// a real window instead of a single shot.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) Resolution {
	if strings.TrimSpace(sessionID) == "" {
		return Resolution{Status: StatusError, Message: "missing payment session identifier"}
	}

	for attempt := 1; ; attempt++ {
		result, err := r.api.PaymentStatus(ctx, sessionID)
		if err != nil {
			r.log.Warn().Err(err).Str("session_id", sessionID).Msg("payment status check failed")
			return Resolution{Status: StatusError, Message: err.Error()}
		}

		if result.PaymentStatus == string(StatusPaid) {
			return Resolution{Status: StatusPaid, Booking: result.Booking}
		}

		if attempt >= r.attempts {
			return Resolution{Status: StatusPending}
		}
		select {
		case <-ctx.Done():
			return Resolution{Status: StatusError, Message: ctx.Err().Error()}
		case <-time.After(r.interval):
		}
	}
}

// PendingRedirectDelay is the single fixed delay the caller waits before
// redirecting away from a still-pending session.
func (r *Resolver) PendingRedirectDelay() time.Duration {
	return r.redirect
}
