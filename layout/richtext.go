package layout

import (
	"encoding/json"
	"strings"
)

// RunKind 区分富文本片段的类型。
type RunKind uint8

const (
	RunWord      RunKind = iota // 单词文本
	RunGap                      // 单词之间的间隔，Width 为实际宽度
	RunSeparator                // 非段末行结尾追加的空格
	RunBreak                    // 段落之间的换行
)

var runKindNames = [...]string{"word", "gap", "separator", "break"}

func (k RunKind) String() string {
	if int(k) < len(runKindNames) {
		return runKindNames[k]
	}
	return "unknown"
}

// MarshalJSON 以名称输出 RunKind。
func (k RunKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// Run 是富文本中的一个片段。间隔以宽度属性表示，不插入额外字符。
type Run struct {
	Kind  RunKind `json:"kind"`
	Text  string  `json:"text,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Text 是按顺序排列的富文本片段。
type Text []Run

func wordRun(w Word) Run             { return Run{Kind: RunWord, Text: w.Text, Width: w.Width()} }
func gapRun(width float64) Run       { return Run{Kind: RunGap, Text: " ", Width: width} }
func separatorRun(space float64) Run { return Run{Kind: RunSeparator, Text: " ", Width: space} }
func breakRun() Run                  { return Run{Kind: RunBreak, Text: "\n"} }

// String 返回纯文本表示：间隔与分隔符都写成一个空格，换行写成 "\n"。
func (t Text) String() string {
	var b strings.Builder
	for _, r := range t {
		b.WriteString(r.Text)
	}
	return b.String()
}

// IsEmpty reports whether t has no runs.
func (t Text) IsEmpty() bool { return len(t) == 0 }

// Breaks 返回换行片段的数量。
func (t Text) Breaks() int {
	n := 0
	for _, r := range t {
		if r.Kind == RunBreak {
			n++
		}
	}
	return n
}

// Rows 按视觉行拆分：行尾分隔符与段落换行都会结束一行，二者本身不计入。
// 两个相邻换行之间的空段落产生一个空行。
func (t Text) Rows() []Text {
	if len(t) == 0 {
		return nil
	}
	var rows []Text
	var cur Text
	for _, r := range t {
		switch r.Kind {
		case RunSeparator, RunBreak:
			rows = append(rows, cur)
			cur = nil
		default:
			cur = append(cur, r)
		}
	}
	return append(rows, cur)
}

// Width 返回片段宽度之和，不包含分隔符与换行。
func (t Text) Width() float64 {
	var sum float64
	for _, r := range t {
		if r.Kind == RunWord || r.Kind == RunGap {
			sum += r.Width
		}
	}
	return sum
}
