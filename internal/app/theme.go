package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// EmojiOverlayTheme provides a custom theme for the application.
type EmojiOverlayTheme struct{}

var _ fyne.Theme = (*EmojiOverlayTheme)(nil)

func (t *EmojiOverlayTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x25, G: 0x63, B: 0xEB, A: 0xFF} // Link blue, like the download link
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFA, G: 0xCC, B: 0x15, A: 0x80} // Emoji yellow
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *EmojiOverlayTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *EmojiOverlayTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *EmojiOverlayTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameHeadingText:
		return 32 // Large page title
	default:
		return theme.DefaultTheme().Size(name)
	}
}
