// Package glyph draws text glyphs onto RGBA surfaces with canvas fillText
// semantics: left aligned, alphabetic baseline at the given point, font size
// in pixels.
package glyph

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"sync"

	"fyne.io/fyne/v2/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

type faceKey struct {
	font int
	size float64
}

// Renderer draws strings with a chain of parsed fonts. Each rune is drawn
// with the first font in the chain that has a glyph for it; runes no font
// covers use the first font's notdef glyph. A Renderer is safe for
// concurrent use.
type Renderer struct {
	mu    sync.Mutex
	fonts []*opentype.Font
	buf   sfnt.Buffer
	runes map[rune]int
	faces map[faceKey]font.Face
}

// EmojiFont returns the emoji font bundled with fyne, or nil when the binary
// was built without it.
func EmojiFont() []byte {
	res := theme.DefaultEmojiFont()
	if res == nil {
		return nil
	}
	return res.Content()
}

// NewRenderer parses an OpenType or TrueType font and appends the bundled
// emoji font as a fallback. Empty data selects Go Regular.
func NewRenderer(data []byte) (*Renderer, error) {
	if len(data) == 0 {
		data = goregular.TTF
	}
	chain := [][]byte{data}
	if emoji := EmojiFont(); len(emoji) > 0 {
		chain = append(chain, emoji)
	}
	return NewChain(chain...)
}

// NewChain parses fonts in lookup order.
func NewChain(fonts ...[]byte) (*Renderer, error) {
	if len(fonts) == 0 {
		return nil, fmt.Errorf("no fonts")
	}
	r := &Renderer{
		runes: make(map[rune]int),
		faces: make(map[faceKey]font.Face),
	}
	for i, data := range fonts {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font %d: %w", i, err)
		}
		r.fonts = append(r.fonts, f)
	}
	return r, nil
}

// LoadRenderer reads a font file. An empty path selects Go Regular.
func LoadRenderer(path string) (*Renderer, error) {
	if path == "" {
		return NewRenderer(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return NewRenderer(data)
}

// fontFor returns the index of the first font with a glyph for c.
// r.mu must be held.
func (r *Renderer) fontFor(c rune) int {
	if i, ok := r.runes[c]; ok {
		return i
	}
	found := 0
	for i, f := range r.fonts {
		if gi, err := f.GlyphIndex(&r.buf, c); err == nil && gi != 0 {
			found = i
			break
		}
	}
	r.runes[c] = found
	return found
}

// face returns the cached face of font i at size. r.mu must be held.
func (r *Renderer) face(i int, size float64) (font.Face, error) {
	key := faceKey{font: i, size: size}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	// At 72 DPI one point is one pixel.
	f, err := opentype.NewFace(r.fonts[i], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %gpx face: %w", size, err)
	}
	r.faces[key] = f
	return f, nil
}

// run is a stretch of s drawn with one font.
type run struct {
	font int
	text string
}

// split breaks s into runs of runes sharing a font. r.mu must be held.
func (r *Renderer) split(s string) []run {
	var runs []run
	start, cur := 0, -1
	for i, c := range s {
		f := r.fontFor(c)
		if f != cur && cur >= 0 {
			runs = append(runs, run{font: cur, text: s[start:i]})
			start = i
		}
		cur = f
	}
	if cur >= 0 {
		runs = append(runs, run{font: cur, text: s[start:]})
	}
	return runs
}

// DrawString draws s in color c with a size-pixel font whose baseline origin
// is (x, y).
func (r *Renderer) DrawString(dst draw.Image, s string, x, y, size float64, c color.Color) error {
	if s == "" || size <= 0 {
		return nil
	}

	// Faces and the glyph buffer are not safe for concurrent use.
	r.mu.Lock()
	defer r.mu.Unlock()

	d := &font.Drawer{
		Dst: dst,
		Src: image.NewUniform(c),
		Dot: toFixed(x, y),
	}
	for _, rn := range r.split(s) {
		face, err := r.face(rn.font, size)
		if err != nil {
			return err
		}
		d.Face = face
		d.DrawString(rn.text)
	}
	return nil
}

// Close releases all cached faces.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, f := range r.faces {
		f.Close()
		delete(r.faces, key)
	}
	return nil
}

func toFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(x * 64)),
		Y: fixed.Int26_6(math.Round(y * 64)),
	}
}
