// Package signing runs the post-payment leg: acceptance checkbox, signature
// capture, one-shot submission to the server, and the local contract
// download. The server-side record of consent is authoritative; the PDF is a
// convenience copy.
package signing

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/boxup/booking-service/internal/client"
	"github.com/boxup/booking-service/internal/contract"
	"github.com/boxup/booking-service/internal/model"
	"github.com/boxup/booking-service/internal/signature"
)

var (
	ErrNotAccepted      = errors.New("contract terms have not been accepted")
	ErrNoSignature      = errors.New("no signature has been captured")
	ErrAlreadySubmitted = errors.New("signature already submitted for this session")
)

type Session struct {
	api      *client.Client
	pad      *signature.Pad
	composer *contract.Composer
	log      zerolog.Logger

	sessionID string
	record    *model.ContractRecord
	accepted  bool
	submitted bool
}

// NewSession wires a signing session for a paid booking. A nil booking
// context leaves the session without a record: submission still works (the
// server owns consent) but no document can be composed.
func NewSession(api *client.Client, pad *signature.Pad, composer *contract.Composer, log zerolog.Logger, sessionID string, booking *model.BookingContext) *Session {
	s := &Session{
		api:       api,
		pad:       pad,
		composer:  composer,
		log:       log.With().Str("component", "signing").Str("session_id", sessionID).Logger(),
		sessionID: sessionID,
	}
	if booking != nil {
		s.record = &model.ContractRecord{
			Booking:  *booking,
			StampPNG: contract.CompanyStamp(),
		}
	}
	return s
}

func (s *Session) Pad() *signature.Pad {
	return s.pad
}

func (s *Session) Accept(accepted bool) {
	s.accepted = accepted
}

// CanSubmit gates the submit action: captured signature, accepted terms, and
// not yet submitted. Submission is not idempotent server-side, so the gate
// is strict.
func (s *Session) CanSubmit() bool {
	return !s.submitted && s.accepted && len(s.pad.Captured()) > 0
}

// Submit sends the captured signature once. A failure keeps the capture so
// the user can retry without redrawing; a success is final even if the local
// download later fails.
func (s *Session) Submit(ctx context.Context) error {
	if s.submitted {
		return ErrAlreadySubmitted
	}
	if !s.accepted {
		return ErrNotAccepted
	}
	if len(s.pad.Captured()) == 0 {
		return ErrNoSignature
	}

	if err := s.api.SubmitSignature(ctx, s.sessionID, s.pad.DataURL()); err != nil {
		s.log.Warn().Err(err).Msg("signature submission failed")
		return err
	}

	s.submitted = true
	if s.record != nil {
		s.record.Signature = append([]byte(nil), s.pad.Captured()...)
	}
	return nil
}

func (s *Session) Submitted() bool {
	return s.submitted
}

// ComposeDownload regenerates the contract document. Nothing is cached: each
// call renders fresh from the record. Without a record there is no download.
func (s *Session) ComposeDownload() ([]byte, string, error) {
	doc, err := s.composer.Compose(s.record)
	if err != nil {
		return nil, "", err
	}
	return doc, contract.FileName, nil
}
