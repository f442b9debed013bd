package lexer

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/karupanerura/minipascal-analyzer/internal/types"
)

// Tokenize splits source into tokens with DefaultDialect.
func Tokenize(source string) ([]Token, error) {
	return TokenizeWithDialect(source, DefaultDialect)
}

func TokenizeWithDialect(source string, dialect *Dialect) ([]Token, error) {
	lex := newLexer(source, dialect)

	var tokens []Token
	for {
		tok, err := lex.consume()
		if errors.Is(err, io.EOF) {
			return tokens, nil
		} else if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

type lexer struct {
	source  string
	index   int
	dialect *Dialect
}

func newLexer(source string, dialect *Dialect) *lexer {
	return &lexer{
		source:  source,
		index:   0,
		dialect: dialect,
	}
}

func (l *lexer) peekRune(at int) (rune, int) {
	if at >= len(l.source) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.source[at:])
}

func (l *lexer) token(kind TokenKind, beginsPos int, value any) Token {
	return Token{
		Kind:      kind,
		Lexeme:    l.source[beginsPos:l.index],
		Value:     value,
		BeginsPos: beginsPos,
		EndsPos:   l.index,
	}
}

func (l *lexer) consume() (Token, error) {
	for l.index != len(l.source) {
		c, size := l.peekRune(l.index)
		switch {
		case c == ' ', c == '\t', c == '\n', c == '\r':
			l.index += size // just skip white spaces

		case c == '_' || unicode.IsLetter(c):
			return l.consumeWord(), nil

		case '0' <= c && c <= '9':
			return l.consumeNumber()

		case c == '"':
			return l.consumeString()

		case c == '+', c == '-', c == '*', c == '/':
			beginsPos := l.index
			l.index++
			return l.token(ArithmeticOperator, beginsPos, nil), nil

		case c == '<', c == '>', c == '=', c == '!':
			beginsPos := l.index
			l.index++
			if next, _ := l.peekRune(l.index); next == '=' || (c == '<' && next == '>' && l.dialect.angleNotEqual) {
				l.index++
			}
			return l.token(ComparisonOperator, beginsPos, nil), nil

		case c == ':' && l.dialect.colonAssign:
			beginsPos := l.index
			l.index++
			if next, _ := l.peekRune(l.index); next == '=' {
				l.index++
				return l.token(ComparisonOperator, beginsPos, nil), nil
			}
			if !l.dialect.punctuation[c] {
				return Token{}, &types.LexError{Reason: types.InvalidCharacter, Char: c, Position: beginsPos}
			}
			return l.token(Punctuation, beginsPos, nil), nil

		case l.dialect.punctuation[c]:
			beginsPos := l.index
			l.index += size
			return l.token(Punctuation, beginsPos, nil), nil

		default:
			return Token{}, &types.LexError{Reason: types.InvalidCharacter, Char: c, Position: l.index}
		}
	}

	return Token{}, io.EOF
}

func (l *lexer) consumeWord() Token {
	beginsPos := l.index
	for l.index != len(l.source) {
		c, size := l.peekRune(l.index)
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		l.index += size
	}

	if l.dialect.IsKeyword(l.source[beginsPos:l.index]) {
		return l.token(Keyword, beginsPos, nil)
	}
	return l.token(Identifier, beginsPos, nil)
}

// consumeNumber takes the maximal run of digits and dots. Malformed runs such
// as "1.2.3" are left to strconv to reject.
func (l *lexer) consumeNumber() (Token, error) {
	beginsPos := l.index
	for l.index != len(l.source) {
		if c := l.source[l.index]; c != '.' && (c < '0' || '9' < c) {
			break
		}
		l.index++
	}

	lexeme := l.source[beginsPos:l.index]
	if strings.IndexByte(lexeme, '.') == -1 {
		v, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return Token{}, &types.LexError{Reason: types.MalformedNumericLiteral, Lexeme: lexeme, Position: beginsPos, Err: err}
		}
		return l.token(IntegerLiteral, beginsPos, v), nil
	}

	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return Token{}, &types.LexError{Reason: types.MalformedNumericLiteral, Lexeme: lexeme, Position: beginsPos, Err: err}
	}
	return l.token(RealLiteral, beginsPos, v), nil
}

// consumeString reads a double quoted literal verbatim; there are no escapes.
func (l *lexer) consumeString() (Token, error) {
	beginsPos := l.index
	end := strings.IndexByte(l.source[beginsPos+1:], '"')
	if end == -1 {
		l.index = len(l.source)
		return Token{}, &types.LexError{Reason: types.UnterminatedString, Lexeme: l.source[beginsPos:], Position: beginsPos}
	}

	l.index = beginsPos + 1 + end + 1
	return l.token(StringLiteral, beginsPos, l.source[beginsPos+1:l.index-1]), nil
}
