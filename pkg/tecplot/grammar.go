package tecplot

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var tecplotLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Number", Pattern: `(?i)[-+]?(inf(inity)?|nan)\b|[-+]?(\d+\.?\d*|\.\d+)(e[-+]?\d+)?`},
	{Name: "Keyword", Pattern: `(ZONE|TITLE|VARIABLES)\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[=,]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// fileAST is the parse tree of a whole file. The grammar is LL(1): zone
// keywords have their own token type, so attribute keys never swallow the
// start of the next zone.
type fileAST struct {
	Title     string     `parser:"('TITLE' '=' @String)?"`
	Variables []string   `parser:"('VARIABLES' '=' @String (','? @String)*)?"`
	Zones     []*zoneAST `parser:"@@*"`
}

type zoneAST struct {
	Pos    lexer.Position
	Attrs  []*attrAST `parser:"'ZONE' @@*"`
	Values []string   `parser:"@Number*"`
}

type attrAST struct {
	Pos   lexer.Position
	Key   string `parser:"@Ident '='"`
	Value string `parser:"(@String | @Number | @Ident) ','?"`
}

var fileParser = participle.MustBuild[fileAST](
	participle.Lexer(tecplotLexer),
	participle.Unquote("String"),
)
