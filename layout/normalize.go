package layout

import "strings"

// Newline 是输出中段落之间使用的换行符。
const Newline = "\n"

var lineBreakReplacer = strings.NewReplacer(
	"\r\n", Newline,
	"\r", Newline,
	"\u0085", Newline,
	"\u2028", Newline,
	"\u2029", Newline,
)

// Normalize 将输入拆分为段落行，并把连续多个空行合并为一个。
// 空串返回 nil；只包含空白的行视为空行，以 "" 表示。
func Normalize(input string) []string {
	if input == "" {
		return nil
	}
	raw := strings.Split(lineBreakReplacer.Replace(input), Newline)
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if isBlank(line) {
			if n := len(out); n > 0 && out[n-1] == "" {
				continue
			}
			line = ""
		}
		out = append(out, line)
	}
	return out
}

// isBlank 与单词拆分使用同一个空白判断：只含不换行空格的行不是空行。
func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !isWordBreak(r) }) < 0
}
