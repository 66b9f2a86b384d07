package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitWidth(t *testing.T) {
	assert.Equal(t, NewSize(600, 400), FitWidth(1200, 800, 600))
	assert.Equal(t, NewSize(300, 600), FitWidth(100, 200, 300))
	// very wide images still get one row
	assert.Equal(t, NewSize(600, 1), FitWidth(10000, 1, 600))
	assert.True(t, FitWidth(0, 10, 600).Empty())
	assert.True(t, FitWidth(10, 10, 0).Empty())
}

func TestPointArithmetic(t *testing.T) {
	p := NewPoint2D(130, 240).Sub(NewPoint2D(100, 200))
	assert.Equal(t, NewPoint2D(30, 40), p)
}

func TestRectImageRect(t *testing.T) {
	r := NewRect(10.4, 20.6, 50, 50)
	assert.Equal(t, image.Rect(10, 21, 60, 71), r.ImageRect())
}
