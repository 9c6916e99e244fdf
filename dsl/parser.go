package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	jobLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "RawString", Pattern: "`[^`]*`"},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	jobParser = participle.MustBuild[Document](
		participle.Lexer(jobLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a job file:
//
//	job Greeting {
//	  width: 120mm
//	  font: "builtin:go-regular"
//	  text {
//	    "first paragraph"
//	    `second paragraph`
//	  }
//	}
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'job' @Ident"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Entry is either a `key: value` setting or a `key { "..." }` text block.
type Entry struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"( ':' @@"`
	Block *TextBlock     `parser:"| @@ )"`
}

// Value is the right-hand side of a setting.
type Value struct {
	String *StringLiteral `parser:"  @(String | RawString)"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Raw returns the value as written, with strings unquoted.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// TextBlock holds one or more string literals, one paragraph line each.
type TextBlock struct {
	Lines []*TextLiteral `parser:"'{' Newline* ( @@ ( ';' | Newline )* )+ '}'"`
}

// TextLiteral wraps a single string statement inside a text block.
type TextLiteral struct {
	Value StringLiteral `parser:"@(String | RawString)"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a job file from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return jobParser.Parse("", r)
}

// ParseFile parses a job file, using name in error positions.
func ParseFile(name string, r io.Reader) (*Document, error) {
	return jobParser.Parse(name, r)
}

// ParseString parses a job file held in a string.
func ParseString(input string) (*Document, error) {
	return jobParser.ParseString("", input)
}
