package layout

import (
	"encoding/json"

	"golang.org/x/text/unicode/bidi"
)

// Direction 是段落的基础书写方向，只用于渲染时的对齐，不做双向重排。
type Direction int

const (
	DirectionAuto Direction = iota
	DirectionLTR
	DirectionRTL
)

func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	default:
		return "auto"
	}
}

// MarshalJSON 以名称输出方向。
func (d Direction) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// ParseDirection 解析 ltr/rtl/auto，未知值按 auto 处理。
func ParseDirection(s string) Direction {
	switch s {
	case "ltr", "LTR":
		return DirectionLTR
	case "rtl", "RTL":
		return DirectionRTL
	default:
		return DirectionAuto
	}
}

// DetectDirection 按第一个强方向字符判断段落方向；没有强字符时返回 fallback。
func DetectDirection(text string, fallback Direction) Direction {
	for i := 0; i < len(text); {
		props, size := bidi.LookupString(text[i:])
		if size == 0 {
			break
		}
		switch props.Class() {
		case bidi.L:
			return DirectionLTR
		case bidi.R, bidi.AL:
			return DirectionRTL
		}
		i += size
	}
	return fallback
}
