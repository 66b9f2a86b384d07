package app

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestThemeOverrides(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)

	th := &EmojiOverlayTheme{}

	assert.Equal(t, color.NRGBA{R: 0x25, G: 0x63, B: 0xEB, A: 0xFF}, th.Color(theme.ColorNamePrimary, theme.VariantLight))
	assert.Equal(t, theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark),
		th.Color(theme.ColorNameBackground, theme.VariantDark))
	assert.Equal(t, float32(32), th.Size(theme.SizeNameHeadingText))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNamePadding), th.Size(theme.SizeNamePadding))
}
