// Package signature records freehand pointer strokes and rasterizes them to
// a portable PNG on capture. The stroke list is the source of truth; the
// raster is a derived projection, so clearing and re-rendering are cheap.
package signature

import (
	"bytes"
	"encoding/base64"
	"errors"

	"github.com/fogleman/gg"
)

var ErrBlankSurface = errors.New("no stroke recorded since last clear")

type Point struct {
	X float64
	Y float64
}

type segment struct {
	From Point
	To   Point
}

// Pad is the drawing surface. It is driven by a single event loop: Begin on
// pointer-down, Extend on pointer-move, End on pointer-up.
type Pad struct {
	width    int
	height   int
	drawing  bool
	last     Point
	segments []segment
	captured []byte
}

func NewPad(width, height int) *Pad {
	return &Pad{width: width, height: height}
}

// Resize rebinds the pixel dimensions to the displayed size. It must run
// before the first stroke and again on viewport resize, otherwise pointer
// coordinates and drawn output drift apart. Recorded segments live in
// surface coordinates and survive the rebind.
func (p *Pad) Resize(width, height int) {
	if width > 0 {
		p.width = width
	}
	if height > 0 {
		p.height = height
	}
}

func (p *Pad) Begin(pt Point) {
	p.drawing = true
	p.last = pt
}

// Extend draws a line segment from the last point. Ignored unless a stroke
// is in progress.
func (p *Pad) Extend(pt Point) {
	if !p.drawing {
		return
	}
	p.segments = append(p.segments, segment{From: p.last, To: pt})
	p.last = pt
}

func (p *Pad) End() {
	p.drawing = false
}

// Clear wipes the surface and forgets any previous capture.
func (p *Pad) Clear() {
	p.segments = nil
	p.captured = nil
	p.drawing = false
}

func (p *Pad) HasStrokes() bool {
	return len(p.segments) > 0
}

// CanCapture reports whether Capture may be called; the UI disables the
// capture action while this is false instead of letting it throw.
func (p *Pad) CanCapture() bool {
	return p.HasStrokes()
}

// Capture renders the recorded strokes to a PNG and keeps the result for
// downstream use. Capturing a blank surface is a caller error.
func (p *Pad) Capture() ([]byte, error) {
	if !p.HasStrokes() {
		return nil, ErrBlankSurface
	}

	dc := gg.NewContext(p.width, p.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0.1, 0.1, 0.25)
	dc.SetLineWidth(2.5)
	dc.SetLineCap(gg.LineCapRound)
	for _, seg := range p.segments {
		dc.DrawLine(seg.From.X, seg.From.Y, seg.To.X, seg.To.Y)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	p.captured = buf.Bytes()
	return p.captured, nil
}

// Captured returns the last capture, or nil when none exists.
func (p *Pad) Captured() []byte {
	return p.captured
}

// DataURL is the wire form the backend expects for the signature payload.
func (p *Pad) DataURL() string {
	if len(p.captured) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(p.captured)
}
