package metrics

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/pjustify/layout"
)

// TTF measures unshaped text by summing glyph advances from a parsed
// TrueType/OpenType font. Widths are returned in millimetres at font.Size
// points. Contextual forms of joining scripts are not applied, so Persian and
// Arabic words measure slightly differently from what a shaper would produce.
//
// A TTF is safe for concurrent use.
type TTF struct {
	font *opentype.Font

	mu      sync.Mutex
	faces   map[float64]font.Face
	buf     sfnt.Buffer
	missing bitset.BitSet
}

var _ layout.Measurer = (*TTF)(nil)

// NewTTF parses font bytes.
func NewTTF(data []byte) (*TTF, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("metrics: parse font: %w", err)
	}
	return &TTF{font: f, faces: map[float64]font.Face{}}, nil
}

func (t *TTF) face(size float64) (font.Face, error) {
	if face, ok := t.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(t.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	t.faces[size] = face
	return face, nil
}

// Measure implements layout.Measurer.
func (t *TTF) Measure(text string, f layout.Font) float64 {
	if text == "" {
		return 0
	}
	size := f.Size
	if size <= 0 {
		size = layout.DefaultFont.Size
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	face, err := t.face(size)
	if err != nil {
		return layout.EstimateMeasurer{}.Measure(text, f)
	}

	var adv fixed.Int26_6
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			adv += face.Kern(prev, r)
		}
		if gid, err := t.font.GlyphIndex(&t.buf, r); err != nil || gid == 0 {
			t.missing.Set(uint(r))
		}
		a, _ := face.GlyphAdvance(r)
		adv += a
		prev = r
	}
	// 72 DPI: one pixel is one point.
	return float64(adv) / 64 * layout.PtToMm
}

// Missing returns the runes measured so far that the font has no glyph for,
// in ascending order.
func (t *TTF) Missing() []rune {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]rune, 0, t.missing.Count())
	for i, ok := t.missing.NextSet(0); ok; i, ok = t.missing.NextSet(i + 1) {
		out = append(out, rune(i))
	}
	return out
}

// Close releases the cached faces.
func (t *TTF) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for size, face := range t.faces {
		face.Close()
		delete(t.faces, size)
	}
	return nil
}
