package payment

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/boxup/booking-service/internal/config"
)

// StripeService wraps checkout-session creation and lookup. The package
// level API key is set once at boot.
type StripeService struct {
	cfg config.StripeConfig
}

func NewStripeService(cfg config.StripeConfig) *StripeService {
	stripe.Key = cfg.SecretKey
	return &StripeService{cfg: cfg}
}

// CreateCheckoutSession opens a one-shot card payment for the booking and
// returns the hosted checkout URL and the session id the rest of the flow is
// keyed by.
func (s *StripeService) CreateCheckoutSession(amountCents int64, description, customerEmail string) (string, string, error) {
	if amountCents <= 0 {
		return "", "", fmt.Errorf("amount must be positive, got %d", amountCents)
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return sess.URL, sess.ID, nil
}

// SessionPaymentStatus reports the gateway's view of a checkout session,
// normalized to the lowercase statuses the workflow understands.
func (s *StripeService) SessionPaymentStatus(sessionID string) (string, error) {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return "", err
	}
	status := strings.ToLower(string(sess.PaymentStatus))
	if status == string(stripe.CheckoutSessionPaymentStatusNoPaymentRequired) {
		return string(StatusPaid), nil
	}
	return status, nil
}
