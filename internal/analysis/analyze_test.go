package analysis_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/karupanerura/minipascal-analyzer/internal/analysis"
	"github.com/karupanerura/minipascal-analyzer/internal/grammar"
	"github.com/karupanerura/minipascal-analyzer/internal/lexer"
	"github.com/karupanerura/minipascal-analyzer/internal/types"
)

const validSource = `program demo;
var total, i : integer;
begin
  i := 0;
  while i < 10 do i := i + 1;
  if i >= 10 then total := (i + 2) * 3 else total := max(i, 1)
end.`

func TestAnalyzeSource(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name     string
		source   string
		mode     grammar.Mode
		expected analysis.Report
	}{
		{
			name:     "valid",
			source:   validSource,
			mode:     grammar.SyntaxAndSemantics,
			expected: analysis.Report{Name: "valid", Mode: grammar.SyntaxAndSemantics, Valid: true},
		},
		{
			name:   "lex error",
			source: "program p; begin x := 1 # 2 end.",
			mode:   grammar.SyntaxAndSemantics,
			expected: analysis.Report{Name: "lex error", Mode: grammar.SyntaxAndSemantics, Error: map[string]any{
				"tag":      types.LexErrorTag,
				"reason":   types.InvalidCharacter,
				"char":     "#",
				"position": 24,
			}},
		},
		{
			name:   "keyword as variable",
			source: "program p; var print, true : integer; begin print := true; true := print end.",
			mode:   grammar.SyntaxAndSemantics,
			expected: analysis.Report{Name: "keyword as variable", Mode: grammar.SyntaxAndSemantics, Error: map[string]any{
				"tag":      types.SyntaxErrorTag,
				"message":  "expected variable identifier",
				"position": 4,
			}},
		},
		{
			name:     "angle not-equal operator",
			source:   "program p; var x : integer; begin if x <> 1 then x := 1 else x := 2 end.",
			mode:     grammar.SyntaxAndSemantics,
			expected: analysis.Report{Name: "angle not-equal operator", Mode: grammar.SyntaxAndSemantics, Valid: true},
		},
		{
			name:   "syntax error",
			source: "program p; var x : integer; begin x := 1 end",
			mode:   grammar.SyntaxOnly,
			expected: analysis.Report{Name: "syntax error", Mode: grammar.SyntaxOnly, Error: map[string]any{
				"tag":      types.SyntaxErrorTag,
				"message":  "expected '.' after 'end' keyword",
				"position": 13,
			}},
		},
		{
			name:     "undeclared variable passes syntax mode",
			source:   "program p; begin y := 1 end.",
			mode:     grammar.SyntaxOnly,
			expected: analysis.Report{Name: "undeclared variable passes syntax mode", Mode: grammar.SyntaxOnly, Valid: true},
		},
		{
			name:   "undeclared variable",
			source: "program p; begin y := 1 end.",
			mode:   grammar.SyntaxAndSemantics,
			expected: analysis.Report{Name: "undeclared variable", Mode: grammar.SyntaxAndSemantics, Error: map[string]any{
				"tag":        types.SemanticErrorTag,
				"message":    types.MessageUsedBeforeDeclaration,
				"identifier": "y",
			}},
		},
		{
			name:   "unused variable",
			source: "program p; var x, y : integer; begin y := 1 end.",
			mode:   grammar.SyntaxAndSemantics,
			expected: analysis.Report{Name: "unused variable", Mode: grammar.SyntaxAndSemantics, Error: map[string]any{
				"tag":        types.SemanticErrorTag,
				"message":    types.MessageDeclaredButNeverUsed,
				"identifier": "x",
			}},
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := analysis.Analyze(analysis.NewSourceDocument(tt.name, tt.source), tt.mode)
			if diff := cmp.Diff(tt.expected, got, cmpopts.IgnoreFields(analysis.Report{}, "Err")); diff != "" {
				t.Errorf("unexpected report (-want +got):\n%s", diff)
			}
			if got.Valid != (got.Err == nil) {
				t.Errorf("Valid=%v but Err=%v", got.Valid, got.Err)
			}
		})
	}
}

func TestSymbols(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.TokenizeWithDialect("begin x := (1 + y) end.", lexer.PascalDialect)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"begin", "x", ":=", "(", "1", "+", "y", ")", "end", "."}
	if diff := cmp.Diff(expected, analysis.Symbols(tokens)); diff != "" {
		t.Errorf("unexpected symbols (-want +got):\n%s", diff)
	}
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	semantics := grammar.SyntaxAndSemantics
	syntax := grammar.SyntaxOnly
	for _, tt := range []struct {
		name      string
		parse     func(string, io.Reader) (*analysis.Document, error)
		body      string
		expected  *analysis.Document
		expectErr bool
	}{
		{
			name:     "json array",
			parse:    analysis.ParseDocumentJSON,
			body:     `["program", "p", ";"]`,
			expected: analysis.NewSymbolsDocument("json array", []string{"program", "p", ";"}),
		},
		{
			name:     "json object",
			parse:    analysis.ParseDocumentJSON,
			body:     `{"mode": "syntax", "symbols": ["program", "<identifier>"]}`,
			expected: &analysis.Document{Name: "json object", Mode: &syntax, Symbols: []string{"program", "<identifier>"}},
		},
		{
			name:      "json non-string symbol",
			parse:     analysis.ParseDocumentJSON,
			body:      `["program", 1]`,
			expectErr: true,
		},
		{
			name:      "json unknown field",
			parse:     analysis.ParseDocumentJSON,
			body:      `{"symbol": ["program"]}`,
			expectErr: true,
		},
		{
			name:      "json unknown mode",
			parse:     analysis.ParseDocumentJSON,
			body:      `{"mode": "lexical", "symbols": []}`,
			expectErr: true,
		},
		{
			name:      "json scalar",
			parse:     analysis.ParseDocumentJSON,
			body:      `"program"`,
			expectErr: true,
		},
		{
			name:     "yaml list",
			parse:    analysis.ParseDocumentYAML,
			body:     "- program\n- p\n- \";\"\n- \"1\"\n",
			expected: analysis.NewSymbolsDocument("yaml list", []string{"program", "p", ";", "1"}),
		},
		{
			name:     "yaml object",
			parse:    analysis.ParseDocumentYAML,
			body:     "mode: semantics\nsymbols:\n  - program\n  - p\n",
			expected: &analysis.Document{Name: "yaml object", Mode: &semantics, Symbols: []string{"program", "p"}},
		},
		{
			name:     "toml object",
			parse:    analysis.ParseDocumentTOML,
			body:     "mode = \"syntax\"\nsymbols = [\"program\", \"p\", \";\"]\n",
			expected: &analysis.Document{Name: "toml object", Mode: &syntax, Symbols: []string{"program", "p", ";"}},
		},
		{
			name:      "toml broken",
			parse:     analysis.ParseDocumentTOML,
			body:      "symbols = [",
			expectErr: true,
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := tt.parse(tt.name, strings.NewReader(tt.body))
			if err != nil {
				if tt.expectErr {
					t.Logf("expected error: %v", err)
					return
				}
				t.Fatal(err)
			}
			if tt.expectErr {
				t.Fatal("should be error")
			}
			if diff := cmp.Diff(tt.expected, doc, cmp.AllowUnexported(analysis.Document{})); diff != "" {
				t.Errorf("unexpected document (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"prog.pas":    validSource,
		"tokens.json": `["program", "p", ";", "begin", "x", ":=", "1", "end", "."]`,
		"tokens.yml":  "mode: syntax\nsymbols: [program, p, \";\", begin, x, \":=\", \"1\", end, \".\"]\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	src, err := analysis.LoadDocument(filepath.Join(dir, "prog.pas"))
	if err != nil {
		t.Fatal(err)
	}
	if !src.IsSource() || src.Source != validSource {
		t.Errorf("expect a source document but got %+v", src)
	}

	jsonDoc, err := analysis.LoadDocument(filepath.Join(dir, "tokens.json"))
	if err != nil {
		t.Fatal(err)
	}
	if report := analysis.Analyze(jsonDoc, grammar.SyntaxOnly); !report.Valid {
		t.Errorf("expect valid but got %+v", report.Error)
	}
	if report := analysis.Analyze(jsonDoc, grammar.SyntaxAndSemantics); report.Valid {
		t.Error("x is not declared so semantics should fail")
	}

	yamlDoc, err := analysis.LoadDocument(filepath.Join(dir, "tokens.yml"))
	if err != nil {
		t.Fatal(err)
	}
	// the document mode wins over the requested one
	if report := analysis.Analyze(yamlDoc, grammar.SyntaxAndSemantics); !report.Valid || report.Mode != grammar.SyntaxOnly {
		t.Errorf("unexpected report: %+v", report)
	}

	if _, err := analysis.LoadDocument(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("should be error")
	}
}

func TestAnalyzeAll(t *testing.T) {
	t.Parallel()

	var docs []*analysis.Document
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("doc%02d", i)
		if i%2 == 0 {
			docs = append(docs, analysis.NewSourceDocument(name, validSource))
		} else {
			docs = append(docs, analysis.NewSourceDocument(name, "program p; begin y := 1 end."))
		}
	}

	reports, err := analysis.AnalyzeAll(context.Background(), docs, grammar.SyntaxAndSemantics)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != len(docs) {
		t.Fatalf("expect %d reports but got %d", len(docs), len(reports))
	}
	for i, report := range reports {
		if report.Name != docs[i].Name {
			t.Errorf("reports[%d]: expect %s but got %s", i, docs[i].Name, report.Name)
		}
		if report.Valid != (i%2 == 0) {
			t.Errorf("reports[%d]: unexpected validity %v", i, report.Valid)
		}
	}
}

func TestAnalyzeAllCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analysis.AnalyzeAll(ctx, []*analysis.Document{analysis.NewSourceDocument("a", validSource)}, grammar.SyntaxOnly)
	if err == nil {
		t.Error("should be error")
	}
}
