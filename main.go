package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/pjustify/binding"
	"github.com/ByLCY/pjustify/dsl"
	"github.com/ByLCY/pjustify/fonts"
	"github.com/ByLCY/pjustify/layout"
	"github.com/ByLCY/pjustify/metrics"
	"github.com/ByLCY/pjustify/renderer"
	canvasrenderer "github.com/ByLCY/pjustify/renderer/canvas"
	"github.com/ByLCY/pjustify/renderer/terminal"
)

const defaultWidth = 80

// config 汇总命令行参数。
type config struct {
	jobPath  string
	text     string
	hasText  bool
	width    string
	font     string
	size     string
	metrics  string
	format   string
	output   string
	data     string
	debug    string
	parallel bool
	noNFC    bool
	verbose  bool
}

func main() {
	var cfg config
	flags := pflag.NewFlagSet("pjustify", pflag.ExitOnError)
	flags.StringVarP(&cfg.text, "text", "t", "", `Raw text instead of a job file ("-" reads stdin)`)
	flags.StringVarP(&cfg.width, "width", "w", "", "Target width: cells for -m cells (e.g. 64), else a length (e.g. 120mm; bare numbers are mm)")
	flags.StringVarP(&cfg.font, "font", "f", "", "Font src: builtin:go-regular or a TTF path")
	flags.StringVarP(&cfg.size, "size", "s", "", "Font size, e.g. 12pt")
	flags.StringVarP(&cfg.metrics, "metrics", "m", "", "Width oracle: canvas|ttf|cells (default cells for text, canvas otherwise)")
	flags.StringVarP(&cfg.format, "format", "F", "text", "Output format: text|pdf|json")
	flags.StringVarP(&cfg.output, "output", "o", "", "Output file instead of stdout (required for pdf)")
	flags.StringVar(&cfg.data, "data", "", "JSON data bound to ${...} placeholders")
	flags.StringVar(&cfg.debug, "debug", "", "Write layout debug JSON to this path")
	flags.BoolVar(&cfg.parallel, "parallel", false, "Lay out paragraphs concurrently")
	flags.BoolVar(&cfg.noNFC, "no-nfc", false, "Skip NFC normalization of the input")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "Per-paragraph statistics on stderr")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pjustify [flags] [job-file]\n")
		fmt.Fprintln(os.Stderr, "\nWithout a job file or --text, text is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	cfg.hasText = flags.Changed("text")
	if args := flags.Args(); len(args) > 0 {
		cfg.jobPath = args[0]
	}

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("排版失败: %v", err)
	}
	if cfg.output != "" {
		fmt.Printf("已生成 %s：%s\n", cfg.format, cfg.output)
	}
}

// run 串联输入解析、排版与输出。
func run(cfg config, stdin io.Reader, stdout io.Writer) error {
	var data any
	if cfg.data != "" {
		if err := json.Unmarshal([]byte(cfg.data), &data); err != nil {
			return fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	job, baseDir, err := loadJob(cfg, stdin, data)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, &job); err != nil {
		return err
	}
	if !cfg.noNFC {
		job.Text = norm.NFC.String(job.Text)
	}

	format := strings.ToLower(cfg.format)
	switch format {
	case "text", "json":
	case "pdf":
		if cfg.output == "" {
			return fmt.Errorf("pdf 输出需要 --output")
		}
	default:
		return fmt.Errorf("未知输出格式 %q", cfg.format)
	}

	pdfRenderer := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:    baseDir,
		Margin:     job.Margin.ToMM(),
		LineHeight: job.LineHeight,
		Meta:       canvasrenderer.Meta{Title: job.Title, Subject: job.Name},
	})
	measurer, quantum, err := selectMeasurer(cfg.metrics, format, job.Font, baseDir, pdfRenderer)
	if err != nil {
		return err
	}
	if c, ok := measurer.(io.Closer); ok {
		defer c.Close()
	}

	width, err := resolveWidth(job.Width, quantum > 0)
	if err != nil {
		return err
	}
	ctx := layout.Context{
		Width:     width,
		Font:      &job.Font,
		Measurer:  measurer,
		Quantum:   quantum,
		Direction: job.Direction,
	}
	result, err := layout.Build(job.Text, ctx, layout.BuildOptions{
		Parallel: cfg.parallel,
		Debug:    layout.DebugOptions{Source: cfg.debug != ""},
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if cfg.verbose {
		logStats(result)
	}
	if ttf, ok := measurer.(*metrics.TTF); ok {
		if missing := ttf.Missing(); len(missing) > 0 {
			log.Printf("字体缺少 %d 个字符的字形: %q", len(missing), string(missing))
		}
	}
	if cfg.debug != "" {
		if err := writeDebug(result, cfg.debug); err != nil {
			return err
		}
	}

	var r renderer.Renderer
	switch format {
	case "pdf":
		r = pdfRenderer
	case "json":
		r = jsonRenderer{}
	default:
		r = terminal.Renderer{AlignRTL: quantum > 0}
	}
	out, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if format == "text" && len(out) > 0 {
		out = append(out, '\n')
	}
	return writeOutput(cfg.output, out, stdout)
}

// loadJob 读取 job 文件或原始文本，返回 job 与解析相对路径的目录。
func loadJob(cfg config, stdin io.Reader, data any) (dsl.Job, string, error) {
	if cfg.jobPath != "" && !cfg.hasText {
		file, err := os.Open(cfg.jobPath)
		if err != nil {
			return dsl.Job{}, "", fmt.Errorf("无法打开 job 文件 %s: %w", cfg.jobPath, err)
		}
		defer file.Close()
		doc, err := dsl.ParseFile(cfg.jobPath, file)
		if err != nil {
			return dsl.Job{}, "", fmt.Errorf("解析 job 文件失败: %w", err)
		}
		job, err := dsl.Compile(doc, data)
		if err != nil {
			return dsl.Job{}, "", fmt.Errorf("编译 job 失败: %w", err)
		}
		return *job, filepath.Dir(cfg.jobPath), nil
	}

	text := cfg.text
	if !cfg.hasText || text == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return dsl.Job{}, "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		text = string(raw)
	}
	if data != nil {
		text = binding.Interpolate(text, data)
	}
	job := dsl.DefaultJob()
	job.Text = text
	return job, ".", nil
}

func applyOverrides(cfg config, job *dsl.Job) error {
	if cfg.width != "" {
		l, err := layout.ParseLength(cfg.width)
		if err != nil {
			return fmt.Errorf("--width: %w", err)
		}
		job.Width = l
	}
	if cfg.font != "" {
		job.Font.Src = cfg.font
	}
	if cfg.size != "" {
		l, err := layout.ParseLength(cfg.size)
		if err != nil {
			return fmt.Errorf("--size: %w", err)
		}
		job.Font.Size = l.ToPT()
	}
	return nil
}

// selectMeasurer 选择宽度预言机；cells 以字符格为单位并把间距量化到整格。
func selectMeasurer(name, format string, font layout.Font, baseDir string, canvasMeasurer layout.Measurer) (layout.Measurer, float64, error) {
	if name == "" {
		name = "canvas"
		if format == "text" {
			name = "cells"
		}
	}
	switch strings.ToLower(name) {
	case "cells":
		if format == "pdf" {
			return nil, 0, fmt.Errorf("pdf 输出不能使用 cells 宽度")
		}
		return metrics.Cells{}, 1, nil
	case "canvas":
		return canvasMeasurer, 0, nil
	case "ttf":
		data, err := fonts.Load(font.Src, baseDir)
		if err != nil {
			return nil, 0, err
		}
		ttf, err := metrics.NewTTF(data)
		if err != nil {
			return nil, 0, err
		}
		return ttf, 0, nil
	default:
		return nil, 0, fmt.Errorf("未知宽度预言机 %q（可用：canvas, ttf, cells）", name)
	}
}

// resolveWidth 返回目标宽度：cells 模式下是字符格数，否则是 mm。
// cells 模式不接受带单位的宽度；无单位的宽度在其他模式下按 mm 处理。
func resolveWidth(l layout.Length, cells bool) (float64, error) {
	if l.IsZero() {
		if cells {
			return float64(terminalWidth(defaultWidth)), nil
		}
		return 120, nil
	}
	if cells {
		if l.Unit != layout.UnitNone {
			return 0, fmt.Errorf("cells 宽度以字符格计，不能带单位：%s（改用 -m canvas 或 -m ttf）", l)
		}
		return l.Value, nil
	}
	return l.ToMM(), nil
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func logStats(res *layout.Result) {
	for i, p := range res.Paragraphs {
		log.Printf("段落 %d: 方向=%s 行数=%d 单词=%d", i+1, p.Direction, len(p.Lines), p.WordCount())
	}
}

// jsonRenderer 输出与调试 JSON 相同的结构。
type jsonRenderer struct{}

func (jsonRenderer) Render(res *layout.Result) ([]byte, error) {
	var b strings.Builder
	if err := layout.WriteDebug(&b, res); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeOutput(path string, out []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(out)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
