package metrics

import (
	"github.com/muesli/reflow/ansi"

	"github.com/ByLCY/pjustify/layout"
)

// Cells measures text in terminal cells. East Asian wide runes count as two
// cells, zero-width joiners as none, and ANSI escape sequences are skipped.
// The font is ignored.
type Cells struct{}

var _ layout.Measurer = Cells{}

// Measure implements layout.Measurer.
func (Cells) Measure(text string, _ layout.Font) float64 {
	return float64(ansi.PrintableRuneWidth(text))
}
