package layout

// 该文件定义排版过程中的值对象：字体、单词、行、段落与最终结果。
// 所有对象在一次排版调用中创建，调用结束后不再修改。

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
)

// Font 描述字体资源。Size 以 pt 为单位；Src 可以是文件路径或 builtin:* 形式。
type Font struct {
	Name  string  `json:"name"`
	Src   string  `json:"src"`
	Style string  `json:"style,omitempty"`
	Size  float64 `json:"size"`
}

// DefaultFont 在调用方没有提供字体时使用。
var DefaultFont = Font{
	Name: "Body",
	Src:  "builtin:go-regular",
	Size: 12,
}

// Measurer 返回文本在给定字体下的渲染宽度。
// 实现必须是 (text, font) 的纯函数：空串返回 0，其余返回有限的非负值。
type Measurer interface {
	Measure(text string, font Font) float64
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(text string, font Font) float64

// Measure implements Measurer.
func (f MeasureFunc) Measure(text string, font Font) float64 { return f(text, font) }

// InvalidWidthError 表示宽度预言机违反了约定（负数、NaN 或无穷）。
type InvalidWidthError struct {
	Text  string
	Width float64
}

func (e *InvalidWidthError) Error() string {
	return fmt.Sprintf("layout: measurer returned invalid width %g for %q", e.Width, e.Text)
}

// checkWidth 在发现外部预言机返回非法宽度时直接 panic。
func checkWidth(text string, w float64) float64 {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		panic(&InvalidWidthError{Text: text, Width: w})
	}
	return w
}

// Word 是一段连续的非空白文本，宽度在首次使用时测量并缓存。
// Word 与创建它的字体绑定，换字体必须重新提取。
type Word struct {
	Text  string
	width func() float64
}

// newWord 绑定测量函数；宽度只会计算一次。
func newWord(text string, font Font, m Measurer) Word {
	return Word{
		Text: text,
		width: sync.OnceValue(func() float64 {
			return checkWidth(text, m.Measure(text, font))
		}),
	}
}

// Width 返回单词的测量宽度。
func (w Word) Width() float64 {
	if w.width == nil {
		return 0
	}
	return w.width()
}

// Line 是一行尚未调整间距的单词。Last 标记段落的最后一行。
type Line struct {
	Words []Word
	Last  bool
}

// WordsWidth 返回所有单词宽度之和（不含间距）。
func (l Line) WordsWidth() float64 {
	var sum float64
	for _, w := range l.Words {
		sum += w.Width()
	}
	return sum
}

// NaturalWidth 返回按自然间距（每个间隔一个空格）排版时的宽度。
func (l Line) NaturalWidth(space float64) float64 {
	if len(l.Words) == 0 {
		return 0
	}
	return l.WordsWidth() + float64(len(l.Words)-1)*space
}

// Texts 返回行内单词的文本。
func (l Line) Texts() []string {
	out := make([]string, len(l.Words))
	for i, w := range l.Words {
		out[i] = w.Text
	}
	return out
}

// JustifiedLine 是确定了每个间隔宽度的行。
type JustifiedLine struct {
	Line    Line
	Gaps    []float64 // len(Gaps) == len(Line.Words)-1
	Natural bool      // 段末行或单词行，未拉伸
	Text    Text
}

// Width 返回单词与间隔的总宽度，不包含行尾分隔空格。
func (j JustifiedLine) Width() float64 {
	sum := j.Line.WordsWidth()
	for _, g := range j.Gaps {
		sum += g
	}
	return sum
}

// MarshalJSON 输出便于调试的行信息。
func (j JustifiedLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Words   []string  `json:"words"`
		Gaps    []float64 `json:"gaps"`
		Width   float64   `json:"width"`
		Natural bool      `json:"natural"`
		Last    bool      `json:"last"`
	}{
		Words:   j.Line.Texts(),
		Gaps:    j.Gaps,
		Width:   j.Width(),
		Natural: j.Natural,
		Last:    j.Line.Last,
	})
}

// Paragraph 是规范化输入中的一行文本及其排版结果；空段落没有任何行。
type Paragraph struct {
	Source    string          `json:"source,omitempty"`
	Direction Direction       `json:"direction"`
	Lines     []JustifiedLine `json:"lines"`
}

// WordCount 返回段落所有行中的单词数。
func (p Paragraph) WordCount() int {
	n := 0
	for _, l := range p.Lines {
		n += len(l.Line.Words)
	}
	return n
}

// Result 保存一次排版的全部段落。
type Result struct {
	Width      float64     `json:"width"`
	Font       Font        `json:"font"`
	Space      float64     `json:"space"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Text 按顺序拼接所有段落，段落之间恰好插入一个换行，末尾不追加换行。
func (r *Result) Text() Text {
	if r == nil {
		return nil
	}
	var out Text
	for i, p := range r.Paragraphs {
		for _, l := range p.Lines {
			out = append(out, l.Text...)
		}
		if i < len(r.Paragraphs)-1 {
			out = append(out, breakRun())
		}
	}
	return out
}
