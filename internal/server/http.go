package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/karupanerura/minipascal-analyzer/internal/analysis"
	"github.com/karupanerura/minipascal-analyzer/internal/grammar"
	"github.com/karupanerura/minipascal-analyzer/internal/lexer"
	"github.com/karupanerura/minipascal-analyzer/internal/types"
)

const (
	analysesPath = "/v1/analyses"
	tokensPath   = "/v1/tokens"
)

type analysisRequest struct {
	Mode    string   `json:"mode"`
	Source  *string  `json:"source"`
	Symbols []string `json:"symbols"`
}

type analysisResource struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CreateTime time.Time       `json:"createTime"`
	Report     analysis.Report `json:"report"`
}

type tokensRequest struct {
	Source  string `json:"source"`
	Dialect string `json:"dialect"`
}

type httpHandler struct {
	analyses sync.Map
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == analysesPath:
		switch r.Method {
		case http.MethodGet:
			h.listAnalyses(w, r)
			return

		case http.MethodPost:
			h.createAnalysis(w, r)
			return

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

	case strings.HasPrefix(r.URL.Path, analysesPath+"/"):
		id := strings.TrimPrefix(r.URL.Path, analysesPath+"/")
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h.getAnalysis(w, r, id)
		return

	case r.URL.Path == tokensPath:
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h.tokenize(w, r)
		return

	default:
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
}

func (h *httpHandler) createAnalysis(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	mode, err := grammar.ParseMode(req.Mode)
	if err != nil {
		log.Printf("invalid mode: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	id := uuid.New().String()
	name := analysesPath + "/" + id

	var doc *analysis.Document
	switch {
	case req.Source != nil && req.Symbols == nil:
		doc = analysis.NewSourceDocument(name, *req.Source)
	case req.Source == nil && req.Symbols != nil:
		doc = analysis.NewSymbolsDocument(name, req.Symbols)
	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	res := &analysisResource{
		ID:         id,
		Name:       name,
		CreateTime: time.Now().UTC(),
		Report:     analysis.Analyze(doc, mode),
	}
	h.analyses.Store(id, res)
	if err := resJSON(w, http.StatusCreated, res); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) listAnalyses(w http.ResponseWriter, r *http.Request) {
	results := []*analysisResource{}
	h.analyses.Range(func(key, value any) bool {
		results = append(results, value.(*analysisResource))
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreateTime.Before(results[j].CreateTime)
	})

	if err := resJSON(w, http.StatusOK, map[string][]*analysisResource{"analyses": results}); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) getAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.analyses.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := resJSON(w, http.StatusOK, ret.(*analysisResource)); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) tokenize(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req tokensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var dialect *lexer.Dialect
	switch req.Dialect {
	case "", lexer.PascalDialect.Name():
		dialect = lexer.PascalDialect
	case lexer.DefaultDialect.Name():
		dialect = lexer.DefaultDialect
	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	tokens, err := lexer.TokenizeWithDialect(req.Source, dialect)
	if err != nil {
		var d types.Diagnostic
		if !errors.As(err, &d) {
			log.Printf("failed to tokenize: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if err := resJSON(w, http.StatusBadRequest, map[string]any{"error": d.Diagnostic()}); err != nil {
			log.Printf("failed to write response: %v", err)
		}
		return
	}

	if tokens == nil {
		tokens = []lexer.Token{}
	}
	if err := resJSON(w, http.StatusOK, map[string][]lexer.Token{"tokens": tokens}); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func NewHTTPHandler() http.Handler {
	return &httpHandler{}
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
