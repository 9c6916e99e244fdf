package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit 记录长度值在输入中使用的单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位：终端字符格或倍数
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// pt 与 mm 之间的换算。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return ""
}

// Length 保存数值及其原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + l.Unit.String()
}

// mm 返回以毫米表示的值；无单位的值原样返回。
func (l Length) mm() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// To 把长度换算到 target 单位。无单位的值不做换算。
func (l Length) To(target Unit) float64 {
	if l.Unit == UnitNone || l.Unit == target {
		return l.Value
	}
	mm := l.mm()
	switch target {
	case UnitCM:
		return mm / 10
	case UnitIN:
		return mm / 25.4
	case UnitPT:
		return mm * MmToPt
	default:
		return mm
	}
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseLength 解析 "120mm"、"12pt"、"80" 这样的长度。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("layout: 长度为空")
	}
	unit := UnitNone
	for _, s := range unitSuffixes {
		if strings.HasSuffix(v, s.suffix) {
			unit = s.unit
			v = strings.TrimSpace(strings.TrimSuffix(v, s.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("layout: 无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeight 表示行高：倍数（1.4x）或绝对长度（18pt）。
type LineHeight struct {
	Factor float64 `json:"factor,omitempty"`
	Len    Length  `json:"len,omitempty"`
}

// ParseLineHeight 解析 "1.4x" 或长度值。
func ParseLineHeight(value string) (LineHeight, error) {
	v := strings.TrimSpace(value)
	if f, ok := strings.CutSuffix(v, "x"); ok {
		factor, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return LineHeight{}, fmt.Errorf("layout: 无法解析行高 %q: %w", value, err)
		}
		return LineHeight{Factor: factor}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeight{}, err
	}
	return LineHeight{Len: l}, nil
}

// Resolve 以 mm 返回行高；未设置时取字号的 1.4 倍。
func (h LineHeight) Resolve(fontSizePt float64) float64 {
	switch {
	case h.Factor > 0:
		return fontSizePt * PtToMm * h.Factor
	case h.Len.Value > 0:
		return h.Len.ToMM()
	default:
		return fontSizePt * PtToMm * 1.4
	}
}
