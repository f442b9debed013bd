package types

import (
	"fmt"
	"strconv"
	"strings"
)

type DiagnosticTag string

const (
	LexErrorTag      DiagnosticTag = "LexError"
	SyntaxErrorTag   DiagnosticTag = "SyntaxError"
	SemanticErrorTag DiagnosticTag = "SemanticError"
)

const (
	MessageUsedBeforeDeclaration = "used before declaration"
	MessageDeclaredButNeverUsed  = "declared but never used"
)

// Diagnostic is the single outcome of a failed analysis.
type Diagnostic interface {
	error
	Tag() DiagnosticTag
	Diagnostic() map[string]any
}

type LexErrorReason string

const (
	InvalidCharacter        LexErrorReason = "invalid character"
	UnterminatedString      LexErrorReason = "unterminated string literal"
	MalformedNumericLiteral LexErrorReason = "malformed numeric literal"
)

type LexError struct {
	Reason   LexErrorReason
	Char     rune   // set for InvalidCharacter
	Lexeme   string // set for MalformedNumericLiteral and UnterminatedString
	Position int    // byte offset in the source
	Err      error
}

var _ Diagnostic = (*LexError)(nil)

func (e *LexError) Error() string {
	var b strings.Builder
	b.WriteString(string(LexErrorTag))
	b.WriteString(": ")
	b.WriteString(string(e.Reason))
	switch e.Reason {
	case InvalidCharacter:
		b.WriteString(" ")
		b.WriteString(strconv.QuoteRune(e.Char))
	default:
		if e.Lexeme != "" {
			b.WriteString(" ")
			b.WriteString(strconv.Quote(e.Lexeme))
		}
	}
	b.WriteString(" at ")
	b.WriteString(strconv.Itoa(e.Position))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LexError) Unwrap() error {
	return e.Err
}

func (e *LexError) Tag() DiagnosticTag {
	return LexErrorTag
}

func (e *LexError) Diagnostic() map[string]any {
	o := map[string]any{
		"tag":      e.Tag(),
		"reason":   e.Reason,
		"position": e.Position,
	}
	if e.Reason == InvalidCharacter {
		o["char"] = string(e.Char)
	}
	if e.Lexeme != "" {
		o["lexeme"] = e.Lexeme
	}
	return o
}

type SyntaxError struct {
	Message  string
	Position int // index of the offending symbol
}

var _ Diagnostic = (*SyntaxError)(nil)

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s at %d", SyntaxErrorTag, e.Message, e.Position)
}

func (e *SyntaxError) Tag() DiagnosticTag {
	return SyntaxErrorTag
}

func (e *SyntaxError) Diagnostic() map[string]any {
	return map[string]any{
		"tag":      e.Tag(),
		"message":  e.Message,
		"position": e.Position,
	}
}

type SemanticError struct {
	Message    string
	Identifier string
}

var _ Diagnostic = (*SemanticError)(nil)

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %q %s", SemanticErrorTag, e.Identifier, e.Message)
}

func (e *SemanticError) Tag() DiagnosticTag {
	return SemanticErrorTag
}

func (e *SemanticError) Diagnostic() map[string]any {
	return map[string]any{
		"tag":        e.Tag(),
		"message":    e.Message,
		"identifier": e.Identifier,
	}
}
