package layout

import "unicode/utf8"

// estimateAdvance 是估算时每个字符占字号的比例。
const estimateAdvance = 0.55

// EstimateMeasurer 在没有字体度量时按字符数估算宽度：每个字符 0.55 倍字号。
// 字号 <= 0 时按 12 计算。
type EstimateMeasurer struct{}

// Measure implements Measurer.
func (EstimateMeasurer) Measure(text string, font Font) float64 {
	size := font.Size
	if size <= 0 {
		size = DefaultFont.Size
	}
	return size * estimateAdvance * float64(utf8.RuneCountInString(text))
}
