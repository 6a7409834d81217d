// Package api exposes the service over HTTP: search, document fetch,
// and health, each behind gin-gonic middleware for CORS and request
// size limits.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/dirsearch/internal/index"
	"github.com/gcbaptista/dirsearch/internal/indexstats"
	"github.com/gcbaptista/dirsearch/internal/tokenizer"
)

// API holds the dependencies shared by the HTTP handlers.
type API struct {
	idx   *index.Index
	stats *indexstats.Stats
}

// New creates an API bound to idx and stats.
func New(idx *index.Index, stats *indexstats.Stats) *API {
	return &API{idx: idx, stats: stats}
}

// Router builds the gin engine with middleware, routes, and a 404
// fallback, without relying on gin.Default so the wiring stays explicit.
func (a *API) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(RequestSizeLimitMiddleware(1 << 20))

	r.GET("/search", a.SearchHandler)
	r.GET("/document", a.DocumentHandler)
	r.GET("/health", a.HealthHandler)

	r.NoRoute(func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	return r
}

type searchResultJSON struct {
	DocID     uint64           `json:"doc_id"`
	Filename  string           `json:"filename"`
	Matches   int              `json:"matches"`
	Positions map[string][]int `json:"positions"`
}

// SearchHandler implements GET /search?q=<raw> (also accepted as
// ?term=<raw>). Always responds 200; an empty or whitespace-only query
// yields total_results: 0 and an empty results list.
func (a *API) SearchHandler(c *gin.Context) {
	raw := c.Query("q")
	if raw == "" {
		raw = c.Query("term")
	}

	tokens := tokenizer.TokenizeString(raw)
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok.Term]; ok {
			continue
		}
		seen[tok.Term] = struct{}{}
		terms = append(terms, tok.Term)
	}

	result := a.idx.Search(terms)

	results := make([]searchResultJSON, 0, len(result.Results))
	for _, r := range result.Results {
		results = append(results, searchResultJSON{
			DocID:     uint64(r.DocID),
			Filename:  r.Filename,
			Matches:   r.Matches,
			Positions: r.Positions,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"query":         raw,
		"total_results": result.TotalResults,
		"results":       results,
	})
}

// DocumentHandler implements GET /document?docID=<uint>. A non-numeric
// id yields 400; an unknown id yields 404 with {"error": "not found"}.
func (a *API) DocumentHandler(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("docID"))

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, "docID must be a non-negative integer")
		return
	}

	record, err := a.idx.Fetch(index.DocumentID(id))
	if err != nil {
		sendError(c, http.StatusNotFound, "not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id": uint64(record.ID),
		"filename":    record.Filename,
		"content":     string(record.Content),
	})
}

// HealthHandler implements GET /health.
func (a *API) HealthHandler(c *gin.Context) {
	snap := a.stats.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"documents_indexed":  a.idx.DocCount(),
		"documents_ingested": snap.DocumentsIngested,
		"ingest_failures":    snap.IngestFailures,
		"bytes_read":         snap.BytesRead,
	})
}
