package signature

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func drawStroke(pad *Pad) {
	pad.Begin(Point{X: 10, Y: 20})
	pad.Extend(Point{X: 40, Y: 25})
	pad.Extend(Point{X: 80, Y: 60})
	pad.End()
}

func TestCaptureBlankSurfaceRefused(t *testing.T) {
	pad := NewPad(300, 150)

	assert.False(t, pad.CanCapture())
	_, err := pad.Capture()
	assert.ErrorIs(t, err, ErrBlankSurface)
}

func TestCaptureAfterStroke(t *testing.T) {
	pad := NewPad(300, 150)
	drawStroke(pad)

	require.True(t, pad.CanCapture())
	png, err := pad.Capture()
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(png, pngHeader))
	assert.Equal(t, png, pad.Captured())
	assert.True(t, strings.HasPrefix(pad.DataURL(), "data:image/png;base64,"))
}

func TestClearResetsCaptureGate(t *testing.T) {
	pad := NewPad(300, 150)
	drawStroke(pad)
	_, err := pad.Capture()
	require.NoError(t, err)

	pad.Clear()

	assert.False(t, pad.CanCapture())
	assert.Nil(t, pad.Captured())
	assert.Empty(t, pad.DataURL())
	_, err = pad.Capture()
	assert.ErrorIs(t, err, ErrBlankSurface)
}

func TestExtendWithoutBeginIgnored(t *testing.T) {
	pad := NewPad(300, 150)

	pad.Extend(Point{X: 5, Y: 5})

	assert.False(t, pad.HasStrokes())
}

func TestStrokesSurviveResize(t *testing.T) {
	pad := NewPad(300, 150)
	drawStroke(pad)

	pad.Resize(600, 300)

	require.True(t, pad.CanCapture())
	png, err := pad.Capture()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngHeader))
}
