package lexer

import (
	"fmt"

	"github.com/samber/lo"
)

type TokenKind int

const (
	Keyword TokenKind = iota
	Identifier
	IntegerLiteral
	RealLiteral
	StringLiteral
	ArithmeticOperator
	ComparisonOperator
	Punctuation
)

var tokenKindNames = map[TokenKind]string{
	Keyword:            "Keyword",
	Identifier:         "Identifier",
	IntegerLiteral:     "IntegerLiteral",
	RealLiteral:        "RealLiteral",
	StringLiteral:      "StringLiteral",
	ArithmeticOperator: "ArithmeticOperator",
	ComparisonOperator: "ComparisonOperator",
	Punctuation:        "Punctuation",
}

var tokenKindsByName = lo.Invert(tokenKindNames)

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TokenKind) UnmarshalText(b []byte) error {
	kind, ok := tokenKindsByName[string(b)]
	if !ok {
		return fmt.Errorf("unknown token kind: %s", b)
	}
	*k = kind
	return nil
}

// Token is an immutable lexeme of the source.
// Value holds int64 for IntegerLiteral, float64 for RealLiteral and the
// unquoted contents for StringLiteral.
type Token struct {
	Kind      TokenKind `json:"kind"`
	Lexeme    string    `json:"lexeme"`
	Value     any       `json:"value,omitempty"`
	BeginsPos int       `json:"begins"`
	EndsPos   int       `json:"ends"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
}
