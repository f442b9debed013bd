package analysis

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/karupanerura/minipascal-analyzer/internal/grammar"
	"github.com/mitchellh/mapstructure"
)

// Document is one unit of analysis: either program source text, or a
// pre-tokenized stream of grammar symbols.
type Document struct {
	Name    string
	Mode    *grammar.Mode // overrides the mode requested by the caller
	Source  string
	Symbols []string

	isSource bool
}

func (d *Document) IsSource() bool {
	return d.isSource
}

func NewSourceDocument(name, source string) *Document {
	return &Document{Name: name, Source: source, isSource: true}
}

func NewSymbolsDocument(name string, symbols []string) *Document {
	return &Document{Name: name, Symbols: symbols}
}

// documentDef is the object form of a symbols document.
type documentDef struct {
	Mode    string   `json:"mode" mapstructure:"mode"`
	Symbols []string `json:"symbols" mapstructure:"symbols"`
}

func (d *documentDef) compile(name string) (*Document, error) {
	doc := NewSymbolsDocument(name, d.Symbols)
	if d.Mode != "" {
		mode, err := grammar.ParseMode(d.Mode)
		if err != nil {
			return nil, err
		}
		doc.Mode = &mode
	}
	return doc, nil
}

func LoadDocument(filePath string) (*Document, error) {
	var parseDocument func(string, io.Reader) (*Document, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseDocument = ParseDocumentJSON
	case ".yaml", ".yml":
		parseDocument = ParseDocumentYAML
	case ".toml":
		parseDocument = ParseDocumentTOML
	default:
		parseDocument = ParseSource
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	doc, err := parseDocument(filePath, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return doc, nil
}

func ParseSource(name string, r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}
	return NewSourceDocument(name, string(b)), nil
}

func ParseDocumentYAML(name string, r io.Reader) (*Document, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseDocumentJSON(name, bytes.NewReader(jsonBytes))
}

func ParseDocumentJSON(name string, r io.Reader) (*Document, error) {
	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return compileDocument(name, v)
}

// ParseDocumentTOML accepts the object form only; TOML has no top-level arrays.
func ParseDocumentTOML(name string, r io.Reader) (*Document, error) {
	var m map[string]any
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("toml.Decode: %w", err)
	}

	return compileDocument(name, m)
}

func compileDocument(name string, v any) (*Document, error) {
	switch vv := v.(type) {
	case []any:
		symbols, err := decodeSymbols(vv)
		if err != nil {
			return nil, err
		}
		return NewSymbolsDocument(name, symbols), nil

	case map[string]any:
		var def documentDef
		config := &mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &def,
		}
		decoder, err := mapstructure.NewDecoder(config)
		if err != nil {
			return nil, fmt.Errorf("mapstructure.NewDecoder: %w", err)
		}
		if err := decoder.Decode(vv); err != nil {
			return nil, fmt.Errorf("mapstructure.Decode: %w", err)
		}
		return def.compile(name)

	default:
		return nil, fmt.Errorf("unsupported document type: %T", v)
	}
}

func decodeSymbols(list []any) ([]string, error) {
	symbols := make([]string, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("symbols[%d]: expected string but got %T", i, v)
		}
		symbols[i] = s
	}
	return symbols, nil
}
