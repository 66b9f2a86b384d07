package colorutil

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#000000", Black},
		{"fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#ff000080", color.NRGBA{R: 255, A: 128}},
		{" #0a0B0c ", color.NRGBA{R: 10, G: 11, B: 12, A: 255}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#gggggg", "#1234567"} {
		_, err := ParseHex(in)
		assert.Error(t, err, in)
	}
}

func TestTranslucentColorIsPremultipliedWhenDrawn(t *testing.T) {
	c, err := ParseHex("#ff000080")
	require.NoError(t, err)

	r, _, _, a := c.RGBA()
	assert.LessOrEqual(t, r, a)

	dst := image.NewRGBA(image.Rect(0, 0, 1, 1))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Over)
	px := dst.RGBAAt(0, 0)
	assert.InDelta(t, 128, int(px.R), 1)
	assert.InDelta(t, 128, int(px.A), 1)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#000000", Hex(Black))
	assert.Equal(t, "#ff000080", Hex(color.NRGBA{R: 255, A: 128}))
}
