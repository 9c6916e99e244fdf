package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("解析 JSON 失败: %v", err)
	}
	return v
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"سارا","age":31},"items":[{"title":"کتاب"},{"title":"قلم"}],"price":12.5}`)
	tests := []struct {
		in, want string
	}{
		{"سلام ${user.name}!", "سلام سارا!"},
		{"${ user.age } سال", "31 سال"},
		{"${items[1].title}", "قلم"},
		{"${price}", "12.5"},
		{"${missing}", "${missing}"},
		{"${missing|مهمان}", "مهمان"},
		{"${user.name|مهمان}", "سارا"},
		{"${items[9].title|-}", "-"},
		{"${items[x]}", "${items[x]}"},
		{"no placeholders", "no placeholders"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Interpolate(tt.in, data); got != tt.want {
				t.Fatalf("Interpolate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a} ${b|x}", nil); got != "${a} x" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestLookupNested(t *testing.T) {
	data := decode(t, `{"m":[[1,2],[3,4]]}`)
	v, ok := Lookup(data, "m[1][0]")
	if !ok || v.(float64) != 3 {
		t.Fatalf("Lookup m[1][0] = %v, %v", v, ok)
	}
	if _, ok := Lookup(data, "m[2]"); ok {
		t.Fatalf("out of range index should fail")
	}
}
