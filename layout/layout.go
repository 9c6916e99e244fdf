package layout

import (
	"fmt"
	"sync"
)

// Build 按段落完成规范化、提取单词、贪心装行与两端对齐，返回结构化结果。
// 宽度必须大于 0；文本为空时返回没有段落的结果。
func Build(text string, ctx Context, opts BuildOptions) (*Result, error) {
	if !(ctx.Width > 0) {
		return nil, fmt.Errorf("layout: 宽度必须大于 0，当前为 %g", ctx.Width)
	}
	return build(text, ctx, opts), nil
}

// Layout 是顶层入口：返回两端对齐后的富文本。空文本直接返回空结果。
// 宽度 <= 0 属于调用方错误，这里不做处理。
func Layout(text string, ctx Context) Text {
	if text == "" {
		return nil
	}
	return build(text, ctx, BuildOptions{}).Text()
}

func build(text string, ctx Context, opts BuildOptions) *Result {
	setter := NewSetter(ctx.Measurer, ctx.font(), ctx.Quantum)
	res := &Result{
		Width: ctx.Width,
		Font:  setter.Font(),
		Space: setter.Space(),
	}
	if text == "" {
		return res
	}

	sources := Normalize(text)
	res.Paragraphs = make([]Paragraph, len(sources))
	layoutOne := func(i int) {
		res.Paragraphs[i] = layoutParagraph(setter, sources[i], ctx)
		if !opts.Debug.Source {
			res.Paragraphs[i].Source = ""
		}
	}

	if !opts.Parallel || len(sources) < 2 {
		for i := range sources {
			layoutOne(i)
		}
		return res
	}

	// 每个 goroutine 只写自己下标的段落，段落之间不共享可变状态。
	// worker 中的 panic（例如 *InvalidWidthError）在调用方 goroutine 上重新抛出，
	// 与顺序执行时一致。
	var wg sync.WaitGroup
	panics := make([]any, len(sources))
	for i := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					panics[i] = v
				}
			}()
			layoutOne(i)
		}()
	}
	wg.Wait()
	for _, v := range panics {
		if v != nil {
			panic(v)
		}
	}
	return res
}

// layoutParagraph 处理一个段落行：提取单词、装行、逐行对齐，最后一行按自然宽度输出。
func layoutParagraph(s *Setter, source string, ctx Context) Paragraph {
	p := Paragraph{
		Source:    source,
		Direction: ctx.Direction,
	}
	if p.Direction == DirectionAuto {
		p.Direction = DetectDirection(source, DirectionAuto)
	}
	lines := s.Pack(s.Words(source), ctx.Width)
	if len(lines) == 0 {
		return p
	}
	p.Lines = make([]JustifiedLine, len(lines))
	for i, l := range lines {
		p.Lines[i] = s.Justify(l, ctx.Width)
	}
	return p
}
