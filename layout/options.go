package layout

// Context 由宿主视图提供：可用宽度与可选字体。
type Context struct {
	Width float64 // 必须大于 0
	Font  *Font   // 为 nil 时使用 DefaultFont

	// Measurer 为空时使用 EstimateMeasurer。
	Measurer Measurer

	// Quantum 为间距量化步长，例如终端中的 1 个字符格；<= 0 表示连续取值。
	Quantum float64

	// Direction 为 LTR 或 RTL 时直接作为所有段落的方向；
	// DirectionAuto 时按每个段落的第一个强方向字符判断。
	Direction Direction
}

// font 返回实际使用的字体。
func (c Context) font() Font {
	if c.Font == nil {
		return DefaultFont
	}
	return *c.Font
}

// BuildOptions 配置排版阶段的执行方式。
type BuildOptions struct {
	// Parallel 为 true 时按段落并发排版，输出顺序与顺序执行一致。
	Parallel bool
	Debug    DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Source bool // 在结果（以及调试 JSON）中保留每个段落的源文本
}
