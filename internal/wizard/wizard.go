// Package wizard drives the 4-step reservation flow: Details, Services,
// Summary, Confirmation. The controller owns the draft; nothing else writes
// it.
package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxup/booking-service/internal/client"
	"github.com/boxup/booking-service/internal/model"
	"github.com/boxup/booking-service/internal/pricing"
)

type State string

const (
	StateDetails      State = "DETAILS"
	StateServices     State = "SERVICES"
	StateSummary      State = "SUMMARY"
	StateConfirmation State = "CONFIRMATION"
)

var (
	// ErrConfirmRequired is returned by Next on the Summary step; leaving
	// Summary forward happens only through Confirm.
	ErrConfirmRequired = errors.New("confirm required to leave summary")
	ErrWrongState      = errors.New("operation not allowed in current state")
)

// Outcome is the terminal result of a confirmed wizard. A non-empty
// RedirectURL points at the payment gateway checkout; otherwise the booking
// settled without payment redirection.
type Outcome struct {
	Reference   string
	RedirectURL string
	Settled     bool
}

type Controller struct {
	api *client.Client
	log zerolog.Logger

	mu          sync.Mutex
	state       State
	draft       model.ReservationDraft
	unit        *model.Unit
	catalog     model.ServiceCatalog
	discountPct float64
	price       pricing.Result
	fieldErrs   map[string]string
	lastError   string
	outcome     *Outcome
}

// New builds a controller for one unit. The unit id comes from route context
// and is immutable for the session.
func New(api *client.Client, log zerolog.Logger, unitID int64) *Controller {
	return &Controller{
		api:   api,
		log:   log.With().Str("component", "wizard").Int64("unit_id", unitID).Logger(),
		state: StateDetails,
		draft: model.ReservationDraft{
			UnitID:         unitID,
			DurationMonths: 1,
		},
		fieldErrs: map[string]string{},
	}
}

// Bootstrap launches the independent snapshot fetches. They race freely and
// every failure degrades to "not loaded"; pricing treats missing data as
// zero. The profile prefill only fills fields the user has not typed yet.
func (c *Controller) Bootstrap(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		unit, err := c.api.Unit(ctx, c.draft.UnitID)
		if err != nil {
			c.log.Warn().Err(err).Msg("unit snapshot fetch failed")
			return
		}
		c.mu.Lock()
		c.unit = unit
		c.recomputeLocked()
		c.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		catalog, err := c.api.Services(ctx)
		if err != nil {
			c.log.Warn().Err(err).Msg("service catalog fetch failed")
			return
		}
		c.mu.Lock()
		c.catalog = catalog
		c.recomputeLocked()
		c.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		solde, err := c.api.Solde(ctx)
		if err != nil {
			c.log.Warn().Err(err).Msg("solde fetch failed")
			return
		}
		c.mu.Lock()
		c.discountPct = solde
		c.recomputeLocked()
		c.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		profile, err := c.api.Profile(ctx)
		if err != nil {
			c.log.Debug().Err(err).Msg("profile prefill skipped")
			return
		}
		c.mu.Lock()
		c.prefillLocked(*profile)
		c.mu.Unlock()
	}()

	wg.Wait()
}

func (c *Controller) prefillLocked(profile model.CustomerInfo) {
	dst := &c.draft.Customer
	fill := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	fill(&dst.FirstName, profile.FirstName)
	fill(&dst.LastName, profile.LastName)
	fill(&dst.Email, profile.Email)
	fill(&dst.Phone, profile.Phone)
	fill(&dst.Address, profile.Address)
	fill(&dst.City, profile.City)
	fill(&dst.PostalCode, profile.PostalCode)
	fill(&dst.Country, profile.Country)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Draft() model.ReservationDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

func (c *Controller) Price() pricing.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.price
}

func (c *Controller) Catalog() model.ServiceCatalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog
}

// LastError is the server message from the most recent failed submission,
// verbatim, or empty.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *Controller) Outcome() *Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

func (c *Controller) SetStartDate(date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.StartDate = date
	if date.Before(today()) {
		c.fieldErrs["startDate"] = "start date cannot be in the past"
	} else {
		delete(c.fieldErrs, "startDate")
	}
}

// SetDuration rejects non-positive values with a field error instead of
// coercing them.
func (c *Controller) SetDuration(months int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft.MonthlyPayment {
		return ErrWrongState
	}
	if months < 1 {
		err := &pricing.ValidationError{Field: "durationMonths", Reason: "must be a positive integer"}
		c.fieldErrs[err.Field] = err.Reason
		return err
	}
	delete(c.fieldErrs, "durationMonths")
	c.draft.DurationMonths = months
	c.recomputeLocked()
	return nil
}

// SetMonthlyPayment switches the billing cadence. The annual lump-sum mode
// pins the stored duration to 1; pricing applies its own 12-month multiplier.
func (c *Controller) SetMonthlyPayment(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.MonthlyPayment = enabled
	if enabled {
		c.draft.DurationMonths = 1
		delete(c.fieldErrs, "durationMonths")
	}
	c.recomputeLocked()
}

func (c *Controller) SetCustomer(info model.CustomerInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Customer = info
}

// ToggleService flips membership of a catalog service. Ids outside the
// loaded catalog are ignored so the draft never references unknown add-ons.
func (c *Controller) ToggleService(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.catalog.Contains(id) {
		return
	}
	if c.draft.HasService(id) {
		kept := c.draft.ServiceIDs[:0]
		for _, sid := range c.draft.ServiceIDs {
			if sid != id {
				kept = append(kept, sid)
			}
		}
		c.draft.ServiceIDs = kept
	} else {
		c.draft.ServiceIDs = append(c.draft.ServiceIDs, id)
	}
	c.recomputeLocked()
}

func (c *Controller) recomputeLocked() {
	result, err := pricing.Compute(c.unit, c.draft.DurationMonths, c.draft.MonthlyPayment, c.draft.ServiceIDs, c.catalog, c.discountPct)
	if err != nil {
		// A bad duration is already tracked as a field error; keep the
		// previous result rather than flashing zeros.
		return
	}
	c.price = result
}

// Next re-validates the current step's guard and advances on success. On a
// guard failure the state is left untouched and the offending field is
// reported.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateDetails:
		if err := c.detailsGuardLocked(); err != nil {
			return err
		}
		c.state = StateServices
	case StateServices:
		c.state = StateSummary
	case StateSummary:
		return ErrConfirmRequired
	case StateConfirmation:
		return ErrWrongState
	}
	return nil
}

// Prev is always allowed and never clears collected data.
func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateServices:
		c.state = StateDetails
	case StateSummary:
		c.state = StateServices
	}
}

func (c *Controller) detailsGuardLocked() error {
	if c.draft.StartDate.IsZero() {
		return &pricing.ValidationError{Field: "startDate", Reason: "required"}
	}
	if c.draft.StartDate.Before(today()) {
		return &pricing.ValidationError{Field: "startDate", Reason: "cannot be in the past"}
	}
	if c.draft.DurationMonths < 1 {
		return &pricing.ValidationError{Field: "durationMonths", Reason: "must be a positive integer"}
	}

	required := []struct {
		field string
		value string
	}{
		{"firstName", c.draft.Customer.FirstName},
		{"lastName", c.draft.Customer.LastName},
		{"email", c.draft.Customer.Email},
		{"phone", c.draft.Customer.Phone},
		{"address", c.draft.Customer.Address},
		{"city", c.draft.Customer.City},
		{"postalCode", c.draft.Customer.PostalCode},
		{"country", c.draft.Customer.Country},
	}
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			return &pricing.ValidationError{Field: item.field, Reason: "required"}
		}
	}

	for field, reason := range c.fieldErrs {
		return &pricing.ValidationError{Field: field, Reason: reason}
	}
	return nil
}

// Confirm submits the draft. It is valid only on the Summary step. A failed
// submission keeps the controller on Summary with the server's message
// stored verbatim; nothing is retried automatically.
func (c *Controller) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateSummary {
		c.mu.Unlock()
		return ErrWrongState
	}
	draft := c.draft.Clone()
	c.mu.Unlock()

	created, err := c.api.CreateBooking(ctx, draft)
	if err != nil {
		c.storeSubmitError(err)
		return err
	}

	outcome := &Outcome{Reference: created.Reference}
	if created.PaymentURL == "" {
		outcome.Settled = true
	} else {
		checkoutURL, err := c.api.InitPaymentSession(ctx, created.PaymentURL)
		if err != nil {
			c.storeSubmitError(err)
			return err
		}
		outcome.RedirectURL = checkoutURL
	}

	c.mu.Lock()
	c.lastError = ""
	c.outcome = outcome
	c.state = StateConfirmation
	c.mu.Unlock()
	return nil
}

func (c *Controller) storeSubmitError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = err.Error()
	c.log.Warn().Err(err).Msg("booking submission failed")
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
