package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/karupanerura/minipascal-analyzer/internal/grammar"
	"github.com/karupanerura/minipascal-analyzer/internal/lexer"
	"github.com/karupanerura/minipascal-analyzer/internal/types"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of analyzing one document.
type Report struct {
	Name  string         `json:"name"`
	Mode  grammar.Mode   `json:"mode"`
	Valid bool           `json:"valid"`
	Error map[string]any `json:"error,omitempty"`

	Err error `json:"-"`
}

func newReport(name string, mode grammar.Mode, err error) Report {
	r := Report{Name: name, Mode: mode, Valid: err == nil, Err: err}
	if err == nil {
		return r
	}

	var d types.Diagnostic
	if errors.As(err, &d) {
		r.Error = d.Diagnostic()
	} else {
		r.Error = map[string]any{"message": err.Error()}
	}
	return r
}

// Symbols projects tokens onto the grammar symbols the parser consumes.
// The grammar classifies symbols by their text, so this is the lexeme.
func Symbols(tokens []lexer.Token) []string {
	return lo.Map(tokens, func(tok lexer.Token, _ int) string {
		return tok.Lexeme
	})
}

// Analyze runs the whole pipeline on doc. A document carrying its own mode
// is analyzed in that mode.
func Analyze(doc *Document, mode grammar.Mode) Report {
	if doc.Mode != nil {
		mode = *doc.Mode
	}

	symbols := doc.Symbols
	if doc.IsSource() {
		tokens, err := lexer.TokenizeWithDialect(doc.Source, lexer.PascalDialect)
		if err != nil {
			return newReport(doc.Name, mode, err)
		}
		symbols = Symbols(tokens)
	}

	return newReport(doc.Name, mode, grammar.Parse(symbols, mode))
}

// AnalyzeAll analyzes docs in parallel. Reports keep the order of docs.
func AnalyzeAll(ctx context.Context, docs []*Document, mode grammar.Mode) ([]Report, error) {
	reports := make([]Report, len(docs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, doc := range docs {
		i := i
		doc := doc
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("docs[%d]: %w", i, err)
			}
			reports[i] = Analyze(doc, mode)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
