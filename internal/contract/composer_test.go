package contract

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxup/booking-service/internal/config"
	"github.com/boxup/booking-service/internal/model"
)

func testComposer(t *testing.T) *Composer {
	t.Helper()
	composer, err := NewComposer(config.ContractConfig{
		DepositAmount:   100,
		FilingFeeAmount: 25,
		CompanyName:     "BoxUp Self-Stockage",
		CompanyAddress:  "12 quai de la Loire",
		CompanyCity:     "44000 Nantes",
		CompanyPhone:    "+33 2 40 00 00 00",
		CompanyEmail:    "contact@boxup.example",
	}, zerolog.Nop())
	require.NoError(t, err)
	return composer
}

func testRecord() *model.ContractRecord {
	return &model.ContractRecord{
		Booking: model.BookingContext{
			Reference: "BK-2043",
			Customer: model.CustomerInfo{
				FirstName: "Claire", LastName: "Martin",
				Email: "claire@example.com", Phone: "+33600000000",
				Address: "4 rue des Lilas", City: "Nantes",
				PostalCode: "44000", Country: "France",
			},
			Unit: model.Unit{
				BoxNumber: "B-107", VolumeM3: 6, SurfaceM2: 3, PricePerMonth: 100,
				Center: model.StorageCenter{
					Name: "BoxUp Nantes Centre", Address: "12 quai de la Loire",
					City: "Nantes", PostalCode: "44000", Phone: "+33 2 40 00 00 00",
				},
			},
			StartDate:      time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC),
			DurationMonths: 3,
			TotalPrice:     320,
		},
	}
}

func TestComposeNilRecord(t *testing.T) {
	composer := testComposer(t)

	doc, err := composer.Compose(nil)

	assert.ErrorIs(t, err, ErrNoRecord)
	assert.Nil(t, doc)
}

func TestComposeProducesPDF(t *testing.T) {
	composer := testComposer(t)

	doc, err := composer.Compose(testRecord())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestComposeWithSignature(t *testing.T) {
	composer := testComposer(t)
	record := testRecord()
	record.Signature = CompanyStamp() // any valid PNG stands in for a capture

	doc, err := composer.Compose(record)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestCorruptImagesAreNotFatal(t *testing.T) {
	composer := testComposer(t)
	record := testRecord()
	record.StampPNG = []byte("not a png")
	record.Signature = []byte("also not a png")

	doc, err := composer.Compose(record)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestComposeIsDeterministicallyNamed(t *testing.T) {
	assert.Equal(t, "contrat-location-box.pdf", FileName)
}

func TestEuroFormatting(t *testing.T) {
	assert.Equal(t, "320€", formatEuro(320))
	assert.Equal(t, "1212.5€", formatEuro(1212.5))
	assert.Equal(t, "05/09/2026", formatDate(time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)))
}
