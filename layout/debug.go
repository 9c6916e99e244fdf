package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteDebug 将排版结果以缩进 JSON 写入 w。
func WriteDebug(w io.Writer, res *Result) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("layout: 编码调试 JSON 失败: %w", err)
	}
	return nil
}

// WriteDebugJSON 将排版结果输出到 path，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDebug(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
