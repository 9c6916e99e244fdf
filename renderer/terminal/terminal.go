// Package terminal renders layout results as plain text, one visual line per
// output line, with every gap written out as literal spaces.
//
// It expects a Result built with a cell-based Measurer (metrics.Cells) and a
// Quantum of 1, so that every gap is a whole number of cells.
package terminal

import (
	"math"
	"strings"

	"github.com/ByLCY/pjustify/layout"
	"github.com/ByLCY/pjustify/renderer"
)

// Renderer writes justified text with spaces.
type Renderer struct {
	// AlignRTL pads the natural-width lines of RTL paragraphs on the left so
	// they end at the right edge.
	AlignRTL bool
}

var _ renderer.Renderer = Renderer{}

// Render implements renderer.Renderer. Paragraphs are separated by one
// newline; empty paragraphs produce an empty line.
func (r Renderer) Render(result *layout.Result) ([]byte, error) {
	return []byte(r.String(result)), nil
}

// String returns the rendered text.
func (r Renderer) String(result *layout.Result) string {
	if result == nil {
		return ""
	}
	space := result.Space
	if space <= 0 {
		space = 1
	}
	var b strings.Builder
	for i, p := range result.Paragraphs {
		if i > 0 {
			b.WriteString(layout.Newline)
		}
		for j, line := range p.Lines {
			if j > 0 {
				b.WriteString(layout.Newline)
			}
			if r.AlignRTL && p.Direction == layout.DirectionRTL {
				b.WriteString(strings.Repeat(" ", cells(result.Width-line.Width(), space)))
			}
			writeLine(&b, line, space)
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, line layout.JustifiedLine, space float64) {
	for i, w := range line.Line.Words {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", max(cells(line.Gaps[i-1], space), 1)))
		}
		b.WriteString(w.Text)
	}
}

// cells 把宽度换算为空格个数。
func cells(width, space float64) int {
	n := int(math.Round(width / space))
	if n < 0 {
		return 0
	}
	return n
}
