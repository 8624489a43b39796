package signing

import (
	"bytes"
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
	"github.com/boxup/booking-service/internal/contract"
	"github.com/boxup/booking-service/internal/model"
	"github.com/boxup/booking-service/internal/signature"
)

func testBooking() *model.BookingContext {
	return &model.BookingContext{
		Reference: "BK-2043",
		Customer:  model.CustomerInfo{FirstName: "Claire", LastName: "Martin"},
		Unit: model.Unit{
			BoxNumber: "B-107", PricePerMonth: 100,
			Center: model.StorageCenter{Name: "BoxUp Nantes Centre"},
		},
		StartDate:      time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC),
		DurationMonths: 3,
		TotalPrice:     320,
	}
}

func signedPad(t *testing.T) *signature.Pad {
	t.Helper()
	pad := signature.NewPad(300, 150)
	pad.Begin(signature.Point{X: 10, Y: 10})
	pad.Extend(signature.Point{X: 60, Y: 40})
	pad.End()
	_, err := pad.Capture()
	require.NoError(t, err)
	return pad
}

func newSession(t *testing.T, serverURL string, pad *signature.Pad, booking *model.BookingContext) *Session {
	t.Helper()
	composer, err := contract.NewComposer(config.ContractConfig{
		DepositAmount: 100, FilingFeeAmount: 25, CompanyName: "BoxUp Self-Stockage",
	}, zerolog.Nop())
	require.NoError(t, err)
	return NewSession(client.New(serverURL), pad, composer, zerolog.Nop(), "cs_123", booking)
}

func signatureBackend(t *testing.T, calls *int64, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/payments/customer-signature", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "signature rejected"})
			return
		}
		var req struct {
			SessionID string `json:"sessionId"`
			Signature string `json:"signature"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cs_123", req.SessionID)
		assert.Contains(t, req.Signature, "data:image/png;base64,")
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSubmitRequiresCaptureAndAcceptance(t *testing.T) {
	var calls int64
	server := signatureBackend(t, &calls, http.StatusOK)
	pad := signature.NewPad(300, 150)
	session := newSession(t, server.URL, pad, testBooking())

	assert.False(t, session.CanSubmit())
	assert.ErrorIs(t, session.Submit(context.Background()), ErrNotAccepted)

	session.Accept(true)
	assert.ErrorIs(t, session.Submit(context.Background()), ErrNoSignature)
	assert.Zero(t, atomic.LoadInt64(&calls))
}

func TestSubmitOnce(t *testing.T) {
	var calls int64
	server := signatureBackend(t, &calls, http.StatusOK)
	session := newSession(t, server.URL, signedPad(t), testBooking())
	session.Accept(true)

	require.True(t, session.CanSubmit())
	require.NoError(t, session.Submit(context.Background()))
	assert.True(t, session.Submitted())

	assert.ErrorIs(t, session.Submit(context.Background()), ErrAlreadySubmitted)
	assert.False(t, session.CanSubmit())
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestSubmitFailureKeepsSignature(t *testing.T) {
	var calls int64
	server := signatureBackend(t, &calls, http.StatusBadRequest)
	pad := signedPad(t)
	session := newSession(t, server.URL, pad, testBooking())
	session.Accept(true)

	err := session.Submit(context.Background())

	require.EqualError(t, err, "signature rejected")
	assert.False(t, session.Submitted())
	assert.NotEmpty(t, pad.Captured(), "a failed submission must not discard the drawing")
	assert.True(t, session.CanSubmit(), "retry without redrawing stays possible")
}

func TestDownloadAfterSubmit(t *testing.T) {
	var calls int64
	server := signatureBackend(t, &calls, http.StatusOK)
	session := newSession(t, server.URL, signedPad(t), testBooking())
	session.Accept(true)
	require.NoError(t, session.Submit(context.Background()))

	doc, name, err := session.ComposeDownload()

	require.NoError(t, err)
	assert.Equal(t, contract.FileName, name)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	again, _, err := session.ComposeDownload()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(again, []byte("%PDF")), "downloads are regenerated fresh")
}

func TestNoRecordMeansNoDownloadButSubmissionStands(t *testing.T) {
	var calls int64
	server := signatureBackend(t, &calls, http.StatusOK)
	session := newSession(t, server.URL, signedPad(t), nil)
	session.Accept(true)
	require.NoError(t, session.Submit(context.Background()))

	_, _, err := session.ComposeDownload()

	assert.ErrorIs(t, err, contract.ErrNoRecord)
	assert.True(t, session.Submitted(), "server-side consent is authoritative")
}
