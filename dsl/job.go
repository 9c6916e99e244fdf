package dsl

import (
	"fmt"
	"strings"

	"github.com/ByLCY/pjustify/binding"
	"github.com/ByLCY/pjustify/layout"
)

// Job is a compiled job file: everything needed for one layout call plus
// the page settings used by the PDF renderer.
type Job struct {
	Name       string
	Title      string
	Width      layout.Length
	Margin     layout.Length
	LineHeight layout.LineHeight
	Font       layout.Font
	Direction  layout.Direction
	Text       string
}

// DefaultJob returns the settings used for keys a job file leaves out.
func DefaultJob() Job {
	return Job{
		Margin: layout.Length{Value: 10, Unit: layout.UnitMM},
		Font:   layout.DefaultFont,
	}
}

// Compile turns a parsed document into a Job. Text blocks are interpolated
// with data (see binding.Interpolate); lines of one block become paragraphs
// and consecutive blocks are separated by a blank line.
func Compile(doc *Document, data any) (*Job, error) {
	if doc == nil {
		return nil, fmt.Errorf("dsl: empty document")
	}
	job := DefaultJob()
	job.Name = doc.Name

	var blocks []string
	for _, e := range doc.Entries {
		if e.Block != nil {
			if e.Key != "text" {
				return nil, fmt.Errorf("%s: unknown block %q", e.Pos, e.Key)
			}
			lines := make([]string, len(e.Block.Lines))
			for i, l := range e.Block.Lines {
				lines[i] = binding.Interpolate(string(l.Value), data)
			}
			blocks = append(blocks, strings.Join(lines, layout.Newline))
			continue
		}
		if err := job.set(e.Key, e.Value.Raw()); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Pos, err)
		}
	}
	job.Text = strings.Join(blocks, layout.Newline+layout.Newline)
	return &job, nil
}

func (j *Job) set(key, value string) error {
	var err error
	switch key {
	case "title":
		j.Title = value
	case "width":
		j.Width, err = layout.ParseLength(value)
	case "margin":
		j.Margin, err = layout.ParseLength(value)
	case "line-height":
		j.LineHeight, err = layout.ParseLineHeight(value)
	case "font":
		j.Font.Src = value
	case "font-name":
		j.Font.Name = value
	case "style":
		j.Font.Style = value
	case "size":
		var l layout.Length
		if l, err = layout.ParseLength(value); err == nil {
			j.Font.Size = l.ToPT()
		}
	case "direction":
		switch value {
		case "auto", "ltr", "rtl":
			j.Direction = layout.ParseDirection(value)
		default:
			err = fmt.Errorf("direction must be auto, ltr or rtl, got %q", value)
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
