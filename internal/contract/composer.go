// Package contract composes the signed rental contract PDF. The layout is an
// ordered list of sections rendered over a single cursor; the record decides
// the content, the composer decides the geometry.
package contract

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/boxup/booking-service/internal/config"
	"github.com/boxup/booking-service/internal/model"
)

// FileName is deterministic: the download carries no per-request randomness
// and the document is regenerated fresh every time.
const FileName = "contrat-location-box.pdf"

var ErrNoRecord = errors.New("contract record is missing")

const fontName = "Helvetica"

type Composer struct {
	cfg config.ContractConfig
	log zerolog.Logger
}

func NewComposer(cfg config.ContractConfig, log zerolog.Logger) (*Composer, error) {
	if len(companyStampPNG) == 0 {
		return nil, fmt.Errorf("company stamp asset is empty")
	}
	return &Composer{cfg: cfg, log: log}, nil
}

// Compose renders the record into a single-page document, extending onto
// further pages only on overflow. A nil record yields ErrNoRecord and no
// document; a broken stamp image is logged and skipped, never fatal.
func (c *Composer) Compose(record *model.ContractRecord) ([]byte, error) {
	if record == nil {
		return nil, ErrNoRecord
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 16, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	sections := []func(*gofpdf.Fpdf, func(string) string){
		c.letterhead,
		func(pdf *gofpdf.Fpdf, tr func(string) string) { c.correspondence(pdf, tr, record.Booking.Customer) },
		c.title,
		c.companySection,
		func(pdf *gofpdf.Fpdf, tr func(string) string) { c.clientSection(pdf, tr, record.Booking.Customer) },
		func(pdf *gofpdf.Fpdf, tr func(string) string) { c.centerSection(pdf, tr, record.Booking.Unit.Center) },
		func(pdf *gofpdf.Fpdf, tr func(string) string) { c.termsSection(pdf, tr, record.Booking) },
		func(pdf *gofpdf.Fpdf, tr func(string) string) { c.signatureBoxes(pdf, tr, record) },
	}
	for _, section := range sections {
		section(pdf, tr)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Composer) letterhead(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetFont(fontName, "B", 15)
	pdf.CellFormat(0, 8, tr(c.cfg.CompanyName), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 9)
	pdf.CellFormat(0, 4.5, tr(c.cfg.CompanyAddress), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 4.5, tr(c.cfg.CompanyCity), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 4.5, tr(c.cfg.CompanyPhone+" - "+c.cfg.CompanyEmail), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (c *Composer) correspondence(pdf *gofpdf.Fpdf, tr func(string) string, customer model.CustomerInfo) {
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		customer.FirstName + " " + customer.LastName,
		customer.Address,
		customer.PostalCode + " " + customer.City,
		customer.Country,
	}
	for _, line := range lines {
		pdf.CellFormat(0, 5, tr(line), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func (c *Composer) title(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetFont(fontName, "B", 13)
	pdf.CellFormat(0, 9, tr("Contrat de location d'un box de stockage"), "", 1, "C", false, 0, "")
	pdf.Ln(3)
}

func (c *Composer) bandedHeader(pdf *gofpdf.Fpdf, tr func(string) string, label string) {
	pdf.SetFont(fontName, "B", 11)
	pdf.SetFillColor(226, 230, 240)
	pdf.CellFormat(0, 7.5, tr(label), "1", 1, "L", true, 0, "")
	pdf.SetFont(fontName, "", 10)
}

func (c *Composer) companySection(pdf *gofpdf.Fpdf, tr func(string) string) {
	c.bandedHeader(pdf, tr, "La Société")
	pdf.MultiCell(0, 5, tr(fmt.Sprintf(
		"%s, société de self-stockage, dont le siège social est situé %s, %s, ci-après désignée « la Société ».",
		c.cfg.CompanyName, c.cfg.CompanyAddress, c.cfg.CompanyCity,
	)), "", "L", false)
	pdf.Ln(3)
}

func (c *Composer) clientSection(pdf *gofpdf.Fpdf, tr func(string) string, customer model.CustomerInfo) {
	c.bandedHeader(pdf, tr, "Le Client")
	rows := [][2]string{
		{"Nom", customer.FirstName + " " + customer.LastName},
		{"Adresse", customer.Address + ", " + customer.PostalCode + " " + customer.City + ", " + customer.Country},
		{"Email", customer.Email},
		{"Téléphone", customer.Phone},
	}
	c.labelRows(pdf, tr, rows)
	pdf.Ln(3)
}

func (c *Composer) centerSection(pdf *gofpdf.Fpdf, tr func(string) string, center model.StorageCenter) {
	c.bandedHeader(pdf, tr, "Le Centre de Stockage")
	rows := [][2]string{
		{"Centre", center.Name},
		{"Adresse", center.Address + ", " + center.PostalCode + " " + center.City},
		{"Téléphone", center.Phone},
	}
	c.labelRows(pdf, tr, rows)
	pdf.Ln(3)
}

func (c *Composer) termsSection(pdf *gofpdf.Fpdf, tr func(string) string, booking model.BookingContext) {
	c.bandedHeader(pdf, tr, "Conditions du Contrat")
	rows := [][2]string{
		{"Box n°", booking.Unit.BoxNumber},
		{"Surface / Volume", formatDimension(booking.Unit.SurfaceM2, "m²") + " / " + formatDimension(booking.Unit.VolumeM3, "m³")},
		{"Date de début", formatDate(booking.StartDate)},
		{"Prix mensuel", formatEuro(booking.Unit.PricePerMonth)},
		{"Prix total de la période", formatEuro(booking.TotalPrice)},
		{"Durée", strconv.Itoa(booking.DurationMonths) + " mois"},
		{"Dépôt de garantie", formatEuro(c.cfg.DepositAmount)},
		{"Frais de dossier", formatEuro(c.cfg.FilingFeeAmount)},
	}
	c.labelRows(pdf, tr, rows)
	pdf.Ln(5)
}

func (c *Composer) labelRows(pdf *gofpdf.Fpdf, tr func(string) string, rows [][2]string) {
	for _, row := range rows {
		pdf.SetFont(fontName, "B", 10)
		pdf.CellFormat(58, 6.5, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont(fontName, "", 10)
		pdf.CellFormat(0, 6.5, tr(row[1]), "1", 1, "L", false, 0, "")
	}
}

func (c *Composer) signatureBoxes(pdf *gofpdf.Fpdf, tr func(string) string, record *model.ContractRecord) {
	left, _, right, _ := pdf.GetMargins()
	pageWidth, _ := pdf.GetPageSize()
	boxWidth := (pageWidth - left - right - 8) / 2
	boxHeight := 42.0
	startY := pdf.GetY()

	pdf.SetFont(fontName, "B", 10)
	pdf.Rect(left, startY, boxWidth, boxHeight, "D")
	pdf.Rect(left+boxWidth+8, startY, boxWidth, boxHeight, "D")

	pdf.SetXY(left+2, startY+2)
	pdf.CellFormat(boxWidth-4, 5, tr("La Société"), "", 0, "L", false, 0, "")
	pdf.SetXY(left+boxWidth+10, startY+2)
	pdf.CellFormat(boxWidth-4, 5, tr("Le Client"), "", 1, "L", false, 0, "")

	stamp := record.StampPNG
	if stamp == nil {
		stamp = CompanyStamp()
	}
	c.embedImage(pdf, "company-stamp", stamp, left+8, startY+10, boxWidth-16, boxHeight-14)

	if len(record.Signature) > 0 {
		c.embedImage(pdf, "customer-signature", record.Signature, left+boxWidth+16, startY+10, boxWidth-16, boxHeight-14)
	}

	pdf.SetY(startY + boxHeight + 4)
}

// embedImage places a PNG, validating it first so a corrupt image degrades
// to an empty box instead of poisoning the document.
func (c *Composer) embedImage(pdf *gofpdf.Fpdf, name string, data []byte, x, y, maxW, maxH float64) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		c.log.Warn().Err(err).Str("image", name).Msg("skipping image embed")
		return
	}

	width := maxW
	height := width * float64(cfg.Height) / float64(cfg.Width)
	if height > maxH {
		height = maxH
		width = height * float64(cfg.Width) / float64(cfg.Height)
	}

	options := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, width, height, false, options, 0, "")
}

// formatEuro renders a trailing € and keeps the value's own precision: whole
// amounts print without decimals.
func formatEuro(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "€"
}

func formatDimension(value float64, unit string) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + unit
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}
