package lexer

import "github.com/samber/lo"

// Dialect is the fixed lookup configuration of the tokenizer.
// Dialects are built once and only read afterwards.
type Dialect struct {
	name        string
	keywords    map[string]bool
	punctuation map[rune]bool

	// colonAssign makes ':' followed by '=' a single ":=" operator.
	colonAssign   bool
	// angleNotEqual makes '<' followed by '>' a single "<>" operator.
	angleNotEqual bool
}

func (d *Dialect) Name() string {
	return d.name
}

func (d *Dialect) IsKeyword(word string) bool {
	return d.keywords[word]
}

func newDialect(name string, keywords []string, punctuation string, pascalOperators bool) *Dialect {
	return &Dialect{
		name:          name,
		keywords:      lo.SliceToMap(keywords, func(k string) (string, bool) { return k, true }),
		punctuation:   lo.SliceToMap([]rune(punctuation), func(r rune) (rune, bool) { return r, true }),
		colonAssign:   pascalOperators,
		angleNotEqual: pascalOperators,
	}
}

var defaultKeywords = []string{"var", "if", "else", "while", "print", "true", "false"}

var DefaultDialect = newDialect("default", defaultKeywords, "(){};", false)

// PascalDialect accepts whole programs of the analyzed language.
var PascalDialect = newDialect(
	"pascal",
	append(defaultKeywords[:len(defaultKeywords):len(defaultKeywords)],
		"program", "begin", "end", "then", "do", "integer", "boolean", "real",
	),
	"(){};,.:",
	true,
)
