package layout_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/pjustify/layout"
	"github.com/ByLCY/pjustify/metrics"
)

const eps = 1e-6

// five 模拟每个字符约 5 个单位宽的字体，空格同样是 5。
var five = metrics.Fixed{Advance: 5}

func build(t *testing.T, text string, width float64) *layout.Result {
	t.Helper()
	res, err := layout.Build(text, layout.Context{Width: width, Measurer: five}, layout.BuildOptions{Debug: layout.DebugOptions{Source: true}})
	require.NoError(t, err)
	return res
}

func lineWords(p layout.Paragraph) [][]string {
	out := make([][]string, len(p.Lines))
	for i, l := range p.Lines {
		out[i] = l.Line.Texts()
	}
	return out
}

func TestLayoutEmpty(t *testing.T) {
	for _, w := range []float64{1, 40, 1000} {
		require.Empty(t, layout.Layout("", layout.Context{Width: w, Measurer: five}))
	}
	res := build(t, "", 40)
	require.Empty(t, res.Paragraphs)
	require.Empty(t, res.Text())
}

func TestBuildRejectsNonPositiveWidth(t *testing.T) {
	for _, w := range []float64{0, -10} {
		_, err := layout.Build("salam", layout.Context{Width: w}, layout.BuildOptions{})
		require.Error(t, err)
	}
}

func TestSingleLineFits(t *testing.T) {
	res := build(t, "salam donya chetori", 100)
	require.Len(t, res.Paragraphs, 1)
	p := res.Paragraphs[0]
	require.Equal(t, [][]string{{"salam", "donya", "chetori"}}, lineWords(p))

	line := p.Lines[0]
	require.True(t, line.Line.Last)
	require.True(t, line.Natural)
	require.Equal(t, []float64{5, 5}, line.Gaps)
	require.InDelta(t, 95.0, line.Width(), eps)
	require.Equal(t, "salam donya chetori", res.Text().String())
}

func TestNarrowWidthOneWordPerLine(t *testing.T) {
	res := build(t, "salam donya chetori", 40)
	p := res.Paragraphs[0]
	require.Equal(t, [][]string{{"salam"}, {"donya"}, {"chetori"}}, lineWords(p))

	// 单词行无法拉伸，按原宽度输出，但仍然追加行尾分隔符。
	for i, want := range []float64{25, 25, 35} {
		require.InDelta(t, want, p.Lines[i].Width(), eps)
		require.True(t, p.Lines[i].Natural)
		require.Empty(t, p.Lines[i].Gaps)
	}
	text := res.Text()
	require.Equal(t, layout.RunSeparator, p.Lines[0].Text[len(p.Lines[0].Text)-1].Kind)
	require.Equal(t, layout.RunSeparator, p.Lines[1].Text[len(p.Lines[1].Text)-1].Kind)
	require.Equal(t, layout.RunWord, p.Lines[2].Text[len(p.Lines[2].Text)-1].Kind)
	require.Len(t, text.Rows(), 3)
	require.Equal(t, "salam donya chetori", text.String())
}

func TestExactFitStaysOnLine(t *testing.T) {
	// 25 + 5 + 25 == 55
	res := build(t, "salam donya chetori", 55)
	require.Equal(t, [][]string{{"salam", "donya"}, {"chetori"}}, lineWords(res.Paragraphs[0]))

	res = build(t, "salam donya chetori", 54.999)
	require.Equal(t, [][]string{{"salam"}, {"donya"}, {"chetori"}}, lineWords(res.Paragraphs[0]))
}

func TestOverflowingWordIsKept(t *testing.T) {
	res := build(t, "a loooooooooooong b", 20)
	p := res.Paragraphs[0]
	require.Equal(t, [][]string{{"a"}, {"loooooooooooong"}, {"b"}}, lineWords(p))
	require.Greater(t, p.Lines[1].Width(), 20.0)
}

func TestInteriorLinesStretchToWidth(t *testing.T) {
	res := build(t, "a bb ccc dddd eeeee ffffff", 60)
	p := res.Paragraphs[0]
	require.Equal(t, [][]string{{"a", "bb", "ccc"}, {"dddd", "eeeee"}, {"ffffff"}}, lineWords(p))

	require.Equal(t, []float64{15, 15}, p.Lines[0].Gaps)
	require.InDelta(t, 60.0, p.Lines[0].Width(), eps)
	require.False(t, p.Lines[0].Natural)

	require.Equal(t, []float64{15}, p.Lines[1].Gaps)
	require.InDelta(t, 60.0, p.Lines[1].Width(), eps)

	require.True(t, p.Lines[2].Natural)
	require.InDelta(t, 30.0, p.Lines[2].Width(), eps)
}

func TestNonIntegralSlack(t *testing.T) {
	one := metrics.Fixed{Advance: 1}
	text := "a b c d eeeeeeeeee"

	res, err := layout.Build(text, layout.Context{Width: 11, Measurer: one}, layout.BuildOptions{})
	require.NoError(t, err)
	first := res.Paragraphs[0].Lines[0]
	require.Equal(t, []string{"a", "b", "c", "d"}, first.Line.Texts())
	require.InDelta(t, 7.0/3, first.Gaps[0], eps)
	require.Equal(t, first.Gaps[0], first.Gaps[1])
	require.InDelta(t, 11.0, first.Width(), eps)

	// 按字符格量化时余数全部落在最后一个间隔。
	res, err = layout.Build(text, layout.Context{Width: 11, Measurer: one, Quantum: 1}, layout.BuildOptions{})
	require.NoError(t, err)
	first = res.Paragraphs[0].Lines[0]
	require.Equal(t, []float64{2, 2, 3}, first.Gaps)
	require.Equal(t, 11.0, first.Width())
}

func TestParagraphBreaks(t *testing.T) {
	tests := []struct {
		in         string
		paragraphs int
		want       string
	}{
		{"salam", 1, "salam"},
		{"salam\ndonya", 2, "salam\ndonya"},
		{"salam\n\ndonya", 3, "salam\n\ndonya"},
		{"salam\n\n\n\n\ndonya", 3, "salam\n\ndonya"},
		{"salam\n", 2, "salam\n"},
	}
	for _, tt := range tests {
		res := build(t, tt.in, 100)
		require.Len(t, res.Paragraphs, tt.paragraphs, tt.in)
		text := res.Text()
		require.Equal(t, tt.paragraphs-1, text.Breaks(), tt.in)
		require.Equal(t, tt.want, text.String(), tt.in)
		require.Equal(t, tt.want, layout.Layout(tt.in, layout.Context{Width: 100, Measurer: five}).String())
	}
}

func TestNoTrailingBreakAfterLastParagraph(t *testing.T) {
	text := layout.Layout("یک دو سه\nچهار پنج", layout.Context{Width: 30, Measurer: five})
	require.NotEmpty(t, text)
	require.NotEqual(t, layout.RunBreak, text[len(text)-1].Kind)
	require.NotEqual(t, layout.RunSeparator, text[len(text)-1].Kind)
}

var corpus = []string{
	"من از بی‌نوایی نیم روی‌زرد غم بی‌نوایان رخم زرد کرد",
	"بنی آدم اعضای یکدیگرند که در آفرینش ز یک گوهرند\nچو عضوی به درد آورد روزگار دگر عضوها را نماند قرار",
	"The quick brown fox jumps over the lazy dog and keeps running far away\n\n\nsecond paragraph here",
	"x",
	"     leading and trailing spaces     \n\t\ttabs\tinside\t",
}

func TestLayoutProperties(t *testing.T) {
	for _, width := range []float64{10, 35, 60, 100, 250} {
		for _, in := range corpus {
			res := build(t, in, width)
			space := res.Space
			sources := layout.Normalize(in)
			require.Len(t, res.Paragraphs, len(sources))

			for i, p := range res.Paragraphs {
				require.Equal(t, len(strings.Fields(sources[i])), p.WordCount(), "word count preserved")
				for j, l := range p.Lines {
					n := len(l.Line.Words)
					last := j == len(p.Lines)-1
					require.Equal(t, last, l.Line.Last)
					switch {
					case last:
						require.InDelta(t, l.Line.NaturalWidth(space), l.Width(), eps, "last line keeps natural width")
					case n >= 2:
						require.LessOrEqual(t, l.Line.NaturalWidth(space), width+eps, "packing validity")
						require.InDelta(t, width, l.Width(), eps, "interior line is exact")
					default:
						require.Equal(t, 1, n)
					}
				}
			}
			require.Equal(t, len(res.Paragraphs)-1, res.Text().Breaks())
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	text := strings.Join(corpus, "\n")
	ctx := layout.Context{Width: 45, Measurer: five}
	seq, err := layout.Build(text, ctx, layout.BuildOptions{})
	require.NoError(t, err)
	par, err := layout.Build(text, ctx, layout.BuildOptions{Parallel: true})
	require.NoError(t, err)
	require.Equal(t, seq.Text(), par.Text())
}

func TestParallelRepanicsOnCaller(t *testing.T) {
	bad := layout.MeasureFunc(func(text string, font layout.Font) float64 {
		if text == "bad" {
			return -1
		}
		return five.Measure(text, font)
	})
	ctx := layout.Context{Width: 45, Measurer: bad}
	const msg = `layout: measurer returned invalid width -1 for "bad"`
	for _, parallel := range []bool{false, true} {
		require.PanicsWithError(t, msg, func() {
			_, _ = layout.Build("ok\nbad\nfine", ctx, layout.BuildOptions{Parallel: parallel})
		}, "parallel=%v", parallel)
	}
}

func TestDefaultsAreSubstituted(t *testing.T) {
	res, err := layout.Build("salam donya", layout.Context{Width: 1000}, layout.BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, layout.DefaultFont, res.Font)
	require.InDelta(t, layout.DefaultFont.Size*0.55, res.Space, eps)
	require.Equal(t, "salam donya", res.Text().String())
}

func TestCustomFontIsUsed(t *testing.T) {
	font := layout.Font{Name: "Vazir", Size: 20}
	m := layout.MeasureFunc(func(text string, f layout.Font) float64 {
		return f.Size * float64(len([]rune(text)))
	})
	res, err := layout.Build("ab cd", layout.Context{Width: 1000, Font: &font, Measurer: m}, layout.BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, font, res.Font)
	require.Equal(t, 20.0, res.Space)
	require.InDelta(t, 100.0, res.Paragraphs[0].Lines[0].Width(), eps)
}

func TestParagraphDirection(t *testing.T) {
	res := build(t, "سلام دنیا\nhello world\n123 456", 100)
	require.Equal(t, layout.DirectionRTL, res.Paragraphs[0].Direction)
	require.Equal(t, layout.DirectionLTR, res.Paragraphs[1].Direction)
	require.Equal(t, layout.DirectionAuto, res.Paragraphs[2].Direction)
}

func TestExplicitDirectionOverridesDetection(t *testing.T) {
	text := "PDF فایل آماده است\nسلام\n123"
	tests := []struct {
		dir  layout.Direction
		want []layout.Direction
	}{
		{layout.DirectionAuto, []layout.Direction{layout.DirectionLTR, layout.DirectionRTL, layout.DirectionAuto}},
		{layout.DirectionRTL, []layout.Direction{layout.DirectionRTL, layout.DirectionRTL, layout.DirectionRTL}},
		{layout.DirectionLTR, []layout.Direction{layout.DirectionLTR, layout.DirectionLTR, layout.DirectionLTR}},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			res, err := layout.Build(text, layout.Context{Width: 100, Measurer: five, Direction: tt.dir}, layout.BuildOptions{})
			require.NoError(t, err)
			var got []layout.Direction
			for _, p := range res.Paragraphs {
				got = append(got, p.Direction)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNoBreakSpaceLineIsAParagraph(t *testing.T) {
	res := build(t, "a\n\u00a0\nb", 100)
	require.Len(t, res.Paragraphs, 3)
	require.Equal(t, [][]string{{"\u00a0"}}, lineWords(res.Paragraphs[1]))
	require.Equal(t, "a\n\u00a0\nb", layout.Layout("a\n\u00a0\nb", layout.Context{Width: 100, Measurer: five}).String())
}

func TestWordsKeepNoBreakSpaceAndZWNJ(t *testing.T) {
	s := layout.NewSetter(five, layout.DefaultFont, 0)
	words := s.Words("می\u200cخواهم ۱۰\u00a0کیلو \t نان")
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	require.Equal(t, []string{"می\u200cخواهم", "۱۰\u00a0کیلو", "نان"}, texts)
	require.Empty(t, s.Words(" \t "))
}

func TestTextRows(t *testing.T) {
	res := build(t, "salam donya chetori\n\nkhoobam", 40)
	rows := res.Text().Rows()
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.String()
	}
	require.Equal(t, []string{"salam", "donya", "chetori", "", "khoobam"}, got)
}
