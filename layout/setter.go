package layout

import (
	"math"
	"strings"
	"unicode"
)

// Setter 把测量器、字体与间距量化步长绑定在一起，负责提取单词、装行与两端对齐。
// Setter 创建后不再修改，可以被多个 goroutine 同时使用（前提是 Measurer 本身并发安全）。
type Setter struct {
	measurer Measurer
	font     Font
	quantum  float64
	space    float64
}

// NewSetter 创建 Setter。m 为 nil 时使用 EstimateMeasurer；quantum <= 0 表示不量化。
func NewSetter(m Measurer, font Font, quantum float64) *Setter {
	if m == nil {
		m = EstimateMeasurer{}
	}
	if quantum < 0 || math.IsNaN(quantum) {
		quantum = 0
	}
	return &Setter{
		measurer: m,
		font:     font,
		quantum:  quantum,
		space:    checkWidth(" ", m.Measure(" ", font)),
	}
}

// Font 返回 Setter 使用的字体。
func (s *Setter) Font() Font { return s.font }

// Space 返回单词之间的最小（自然）间距。
func (s *Setter) Space() float64 { return s.space }

// Words 按空白拆分段落行。不换行空格（U+00A0、U+202F、U+2007）保留在单词内部。
func (s *Setter) Words(line string) []Word {
	fields := strings.FieldsFunc(line, isWordBreak)
	if len(fields) == 0 {
		return nil
	}
	words := make([]Word, len(fields))
	for i, f := range fields {
		words[i] = newWord(f, s.font, s.measurer)
	}
	return words
}

func isWordBreak(r rune) bool {
	switch r {
	case '\u00a0', '\u202f', '\u2007':
		return false
	}
	return unicode.IsSpace(r)
}

// packState 是贪心装行的折叠状态：已经完成的行加上一行待定的单词。
type packState struct {
	done    []Line
	pending []Word
	width   float64 // pending 的宽度，含单词间的最小间距
}

// hasRoomForNextWord 判断 w 能否放进当前行；恰好等于目标宽度也算放得下。
func (s *Setter) hasRoomForNextWord(st packState, w Word, target float64) bool {
	return st.width+s.space+w.Width() <= target
}

// step 把一个单词折叠进状态。空行总能接受单词，保证过宽的单词不会被丢掉。
func (s *Setter) step(st packState, w Word, target float64) packState {
	if len(st.pending) == 0 {
		st.pending = []Word{w}
		st.width = w.Width()
		return st
	}
	if s.hasRoomForNextWord(st, w, target) {
		st.pending = append(st.pending, w)
		st.width += s.space + w.Width()
		return st
	}
	st.done = append(st.done, Line{Words: st.pending})
	st.pending = []Word{w}
	st.width = w.Width()
	return st
}

// Pack 以首次适配的贪心策略把单词装入宽度不超过 target 的行。
// 最后一行标记为 Last；没有单词时返回 nil。
func (s *Setter) Pack(words []Word, target float64) []Line {
	var st packState
	for _, w := range words {
		st = s.step(st, w, target)
	}
	if len(st.pending) == 0 {
		return st.done
	}
	return append(st.done, Line{Words: st.pending, Last: true})
}

// Justify 为一行分配间距。
//
// 段末行使用自然间距且不追加分隔符。其余行把剩余宽度平均分给 n-1 个间隔，
// 余数按 distribute 的规则从后往前分配，使总宽度恰好等于 target；只有一个单词的行无法拉伸，
// 按原宽度输出（可能超出 target）。非段末行末尾追加一个分隔空格。
func (s *Setter) Justify(line Line, target float64) JustifiedLine {
	n := len(line.Words)
	jl := JustifiedLine{Line: line}
	if n > 1 {
		jl.Gaps = make([]float64, n-1)
	}

	if line.Last || n < 2 {
		for i := range jl.Gaps {
			jl.Gaps[i] = s.space
		}
		jl.Natural = true
	} else {
		s.distribute(jl.Gaps, target-line.WordsWidth())
	}

	jl.Text = make(Text, 0, 2*n)
	for i, w := range line.Words {
		if i > 0 {
			jl.Text = append(jl.Text, gapRun(jl.Gaps[i-1]))
		}
		jl.Text = append(jl.Text, wordRun(w))
	}
	if !line.Last {
		jl.Text = append(jl.Text, separatorRun(s.space))
	}
	return jl
}

// distribute 把 slack 分配到 gaps：每个间隔先取平均值（按 quantum 向下取整）；
// 量化后剩下的整数个 quantum 从最后一个间隔向前每个加一个；
// 不足一个 quantum 的零头由最后一个间隔吸收，保证总和精确等于 slack。
func (s *Setter) distribute(gaps []float64, slack float64) {
	n := len(gaps)
	if n == 0 {
		return
	}
	base := slack / float64(n)
	extra := 0
	if s.quantum > 0 {
		base = math.Floor(base/s.quantum) * s.quantum
		extra = int(math.Floor((slack - base*float64(n)) / s.quantum))
		extra = min(max(extra, 0), n)
	}
	rest := slack
	for i := 0; i < n-1; i++ {
		gaps[i] = base
		if i >= n-extra {
			gaps[i] += s.quantum
		}
		rest -= gaps[i]
	}
	gaps[n-1] = rest
}
