package metrics

import (
	"unicode/utf8"

	"github.com/ByLCY/pjustify/layout"
)

// Fixed measures text as a fixed advance per rune, scaled by nothing.
// Space overrides the advance of the ASCII space when non-zero.
type Fixed struct {
	Advance float64
	Space   float64
}

var _ layout.Measurer = Fixed{}

// Measure implements layout.Measurer.
func (f Fixed) Measure(text string, _ layout.Font) float64 {
	if f.Space == 0 {
		return f.Advance * float64(utf8.RuneCountInString(text))
	}
	var w float64
	for _, r := range text {
		if r == ' ' {
			w += f.Space
			continue
		}
		w += f.Advance
	}
	return w
}
