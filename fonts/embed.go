package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是未指定字体时使用的内置字体名。
const Default = "go-regular"

// builtin 保存随程序分发的字体。Go 字体不含阿拉伯字母，只作为兜底与测试字体。
var builtin = map[string][]byte{
	"go-regular":     goregular.TTF,
	"go-bold":        gobold.TTF,
	"go-italic":      goitalic.TTF,
	"go-bold-italic": gobolditalic.TTF,
	"go-mono":        gomono.TTF,
}

// Builtin 返回内置字体名称列表（已排序）。
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBuiltin 判断 src 是否指向内置字体（builtin:* 或 built-in:*）。
func IsBuiltin(src string) bool {
	_, ok := cutBuiltin(src)
	return ok
}

func cutBuiltin(src string) (string, bool) {
	if name, ok := strings.CutPrefix(src, "builtin:"); ok {
		return name, true
	}
	return strings.CutPrefix(src, "built-in:")
}

// Load 返回字体字节。src 可以是 "builtin:go-regular"、空串（使用默认字体）
// 或文件路径；相对路径基于 baseDir 解析。
func Load(src, baseDir string) ([]byte, error) {
	if src == "" {
		return builtin[Default], nil
	}
	if name, ok := cutBuiltin(src); ok {
		data, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置字体 %s（可用：%s）", name, strings.Join(Builtin(), ", "))
		}
		return data, nil
	}
	path := src
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}
