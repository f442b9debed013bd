package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/minipascal-analyzer/internal/analysis"
	"github.com/karupanerura/minipascal-analyzer/internal/grammar"
	"github.com/karupanerura/minipascal-analyzer/internal/lexer"
	"github.com/karupanerura/minipascal-analyzer/internal/server"
	"github.com/karupanerura/minipascal-analyzer/internal/types"
	"github.com/mattn/go-isatty"
)

type Option struct {
	Files  []string `short:"f" long:"file" description:"[REQUIRED] Program source, or symbols document (.json, .yaml, .toml). Repeatable"`
	Mode   string   `short:"m" long:"mode" description:"[OPTIONAL] Checks to run" choice:"syntax" choice:"semantics" default:"semantics"`
	Tokens bool     `long:"tokens" description:"[OPTIONAL] Print the tokens of source files instead of analyzing them"`
	Listen string   `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the analysis API" required:"false"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	_, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(stdout)
			return 1
		}
	}
	if (len(opt.Files) == 0) == (opt.Listen == "") {
		parser.WriteHelp(stdout)
		return 1
	}

	// server mode
	if opt.Listen != "" {
		if err := serve(opt.Listen); err != nil {
			log.Printf("failed to serve: %v", err)
			return 1
		}
		return 0
	}

	docs := make([]*analysis.Document, len(opt.Files))
	for i, file := range opt.Files {
		docs[i], err = analysis.LoadDocument(file)
		if err != nil {
			log.Printf("failed to load document: %v", err)
			return 1
		}
	}

	if opt.Tokens {
		return printTokens(docs, stdout, stderr)
	}

	mode, err := grammar.ParseMode(opt.Mode)
	if err != nil {
		log.Printf("invalid mode: %v", err)
		return 1
	}

	reports, err := analysis.AnalyzeAll(context.Background(), docs, mode)
	if err != nil {
		log.Printf("failed to analyze: %v", err)
		return 1
	}
	if err := dumpJSON(stdout, reports); err != nil {
		log.Printf("failed to dump reports: %v", err)
		return 1
	}

	for _, report := range reports {
		if !report.Valid {
			return 1
		}
	}
	return 0
}

type tokensOutput struct {
	Name   string        `json:"name"`
	Tokens []lexer.Token `json:"tokens"`
}

func printTokens(docs []*analysis.Document, stdout, stderr io.Writer) int {
	outputs := make([]tokensOutput, 0, len(docs))
	for _, doc := range docs {
		if !doc.IsSource() {
			log.Printf("%s: not a source file", doc.Name)
			return 1
		}

		tokens, err := lexer.TokenizeWithDialect(doc.Source, lexer.PascalDialect)
		if err != nil {
			var d types.Diagnostic
			if !errors.As(err, &d) {
				log.Printf("failed to tokenize %s: %v", doc.Name, err)
				return 1
			}
			if _, err = fmt.Fprintf(stderr, "%s: %s\n", doc.Name, d.Error()); err != nil {
				log.Printf("failed to dump error: %v", err)
			}
			if err = dumpJSON(stderr, d.Diagnostic()); err != nil {
				log.Printf("failed to dump error as JSON: %v", err)
			}
			return 1
		}
		outputs = append(outputs, tokensOutput{Name: doc.Name, Tokens: tokens})
	}

	if err := dumpJSON(stdout, outputs); err != nil {
		log.Printf("failed to dump tokens: %v", err)
		return 1
	}
	return 0
}

func serve(listen string) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
