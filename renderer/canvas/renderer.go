package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/pjustify/fonts"
	"github.com/ByLCY/pjustify/layout"
	"github.com/ByLCY/pjustify/renderer"
)

// Renderer measures words with tdewolff/canvas font faces and draws layout
// results into a single-page PDF. Widths are in millimetres.
type Renderer struct {
	baseDir string
	opts    Options

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
	faces  map[float64]*canvas.FontFace
}

// Options configures the page produced by Render.
type Options struct {
	BaseDir    string            // 相对字体路径的根目录
	Margin     float64           // 页边距，mm
	LineHeight layout.LineHeight // 未设置时为字号的 1.4 倍
	Color      color.Color       // 文字颜色，默认深灰
	Meta       Meta
}

// Meta 写入 PDF 文档信息。
type Meta struct {
	Title, Subject, Author, Creator string
	Keywords                        []string
}

var defaultColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}

// NewRenderer creates a renderer resolving relative font paths against baseDir.
func NewRenderer(baseDir string) *Renderer {
	return NewRendererWithOptions(Options{BaseDir: baseDir, Margin: 10})
}

// NewRendererWithOptions creates a renderer with explicit page options.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.Color == nil {
		opts.Color = defaultColor
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	return &Renderer{
		baseDir:      opts.BaseDir,
		opts:         opts,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Measure implements layout.Measurer using the shaped advance of text.
// Fonts that cannot be loaded fall back to the built-in default font.
func (r *Renderer) Measure(text string, font layout.Font) float64 {
	if text == "" {
		return 0
	}
	face, err := r.fontFace(font)
	if err != nil {
		return layout.EstimateMeasurer{}.Measure(text, font)
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	return face.TextWidth(text)
}

// Render draws result on one page sized to the layout width plus margins.
// Interior lines place every word at its justified offset; RTL paragraphs are
// placed from the right edge leftwards.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	face, err := r.fontFace(result.Font)
	if err != nil {
		return nil, err
	}

	lineHeight := r.opts.LineHeight.Resolve(fontSize(result.Font))
	rows := 0
	for _, p := range result.Paragraphs {
		rows += max(len(p.Lines), 1)
	}
	margin := r.opts.Margin
	width := result.Width + 2*margin
	height := float64(rows)*lineHeight + 2*margin

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	r.applyMeta(writer)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标以左上角为原点

	r.fontMu.Lock()
	ascent := face.Metrics().Ascent
	cursorY := margin
	for _, p := range result.Paragraphs {
		if len(p.Lines) == 0 {
			cursorY += lineHeight
			continue
		}
		for _, line := range p.Lines {
			drawLine(ctx, face, line, margin, result.Width, cursorY+ascent, p.Direction == layout.DirectionRTL)
			cursorY += lineHeight
		}
	}
	r.fontMu.Unlock()

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLine 按 JustifiedLine 的间隔逐词绘制。
func drawLine(ctx *canvas.Context, face *canvas.FontFace, line layout.JustifiedLine, left, width, baseline float64, rtl bool) {
	x := 0.0
	for i, w := range line.Line.Words {
		if i > 0 {
			x += line.Gaps[i-1]
		}
		ww := w.Width()
		pos := left + x
		if rtl {
			pos = left + width - x - ww
		}
		ctx.DrawText(pos, baseline, canvas.NewTextLine(face, w.Text, canvas.Left))
		x += ww
	}
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	if writer == nil {
		return
	}
	m := r.opts.Meta
	creator := m.Creator
	if creator == "" {
		creator = "pjustify"
	}
	writer.SetInfo(m.Title, m.Subject, strings.Join(m.Keywords, ", "), m.Author, creator)
}

func fontSize(font layout.Font) float64 {
	if font.Size > 0 {
		return font.Size
	}
	return layout.DefaultFont.Size
}

// fontFace 返回 font 对应尺寸的字体面，按 (font, size) 缓存。
func (r *Renderer) fontFace(font layout.Font) (*canvas.FontFace, error) {
	entry, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	size := fontSize(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if face, ok := entry.faces[size]; ok {
		return face, nil
	}
	face := entry.family.Face(size, r.opts.Color, entry.style, canvas.FontNormal)
	entry.faces[size] = face
	return face, nil
}

func (r *Renderer) ensureFontFamily(font layout.Font) (*fontFamilyEntry, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = layout.DefaultFont.Name
	}
	family := canvas.NewFontFamily(familyName)

	entry := &fontFamilyEntry{family: family, style: style, faces: map[float64]*canvas.FontFace{}}
	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, err
		}
		entry.family, entry.style = fallback, canvas.FontRegular
	}
	r.fontFamilies[key] = entry
	return entry, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.Font, style canvas.FontStyle) error {
	data, err := fonts.Load(font.Src, r.baseDir)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load("builtin:"+fonts.Default, "")
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("pjustify-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	var result canvas.FontStyle
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.Font) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}
