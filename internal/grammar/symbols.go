package grammar

import (
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Placeholders stand for a whole class of terminals in a symbol stream.
const (
	IdentifierSymbol             = "<identifier>"
	IntegerSymbol                = "<integer>"
	TypeSymbol                   = "<type>"
	RelationalOperatorSymbol     = "<relational-operator>"
	AdditiveOperatorSymbol       = "<additive-operator>"
	MultiplicativeOperatorSymbol = "<multiplicative-operator>"
)

// reservedWords are never identifiers. Besides the grammar words this covers
// every keyword the tokenizer emits, so a keyword token cannot name a variable.
var reservedWords = lo.SliceToMap([]string{
	"program", "var", "begin", "end",
	"if", "then", "else", "while", "do",
	"integer", "boolean", "real",
	"print", "true", "false",
}, func(w string) (string, bool) { return w, true })

var typeNames = []string{"integer", "boolean", "real", TypeSymbol}

var relationalOperators = []string{"<", "<=", ">", ">=", "=", "==", "!=", "<>", RelationalOperatorSymbol}

var additiveOperators = []string{"+", "-", AdditiveOperatorSymbol}

var multiplicativeOperators = []string{"*", "/", MultiplicativeOperatorSymbol}

func IsReserved(s string) bool {
	return reservedWords[s]
}

func IsIdentifier(s string) bool {
	if s == IdentifierSymbol {
		return true
	}
	if s == "" || IsReserved(s) {
		return false
	}

	for i, c := range s {
		if c == utf8.RuneError {
			return false
		}
		if c == '_' || unicode.IsLetter(c) {
			continue
		}
		if i != 0 && unicode.IsDigit(c) {
			continue
		}
		return false
	}
	return true
}

func IsInteger(s string) bool {
	if s == IntegerSymbol {
		return true
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || '9' < s[i] {
			return false
		}
	}
	return true
}

func IsType(s string) bool {
	return lo.Contains(typeNames, s)
}

func IsRelationalOperator(s string) bool {
	return lo.Contains(relationalOperators, s)
}

func IsAdditiveOperator(s string) bool {
	return lo.Contains(additiveOperators, s)
}

func IsMultiplicativeOperator(s string) bool {
	return lo.Contains(multiplicativeOperators, s)
}
