package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"cgreplay/internal/catalog"
	"cgreplay/internal/logging"
	"cgreplay/internal/pairs"
	"cgreplay/internal/seed"
)

// maxCount caps the count query parameter so a request cannot ask for an
// unbounded response.
const maxCount = 10000

type handlers struct {
	catalog   catalog.Document
	pairCount int
	logger    *slog.Logger
}

// SeedResponse is the payload of GET /v1/seed/{userID}.
type SeedResponse struct {
	UserID     string `json:"user_id"`
	Seed       uint32 `json:"seed"`
	LegacySeed uint32 `json:"legacy_seed"`
	Diverges   bool   `json:"diverges"`
	Normalized bool   `json:"normalized"`
}

// SessionResponse is the payload of GET /v1/sessions/{userID}.
type SessionResponse struct {
	UserID      string               `json:"user_id"`
	Seed        uint32               `json:"seed"`
	CatalogHash uint32               `json:"catalog_hash"`
	Fallback    bool                 `json:"fallback"`
	Pairs       []pairs.OrientedPair `json:"pairs"`
}

// CatalogResponse is the payload of GET /v1/catalog.
type CatalogResponse struct {
	Source       string   `json:"source"`
	Fallback     bool     `json:"fallback"`
	Count        int      `json:"count"`
	PairTotal    int      `json:"pair_total"`
	Hash         uint32   `json:"hash"`
	RecordedHash string   `json:"recorded_hash,omitempty"`
	HashDrift    bool     `json:"hash_drift"`
	Version      string   `json:"version,omitempty"`
	GeneratedAt  string   `json:"generated_at,omitempty"`
	Files        []string `json:"files"`
}

// NewRouter builds the API router over an immutable catalog snapshot.
func NewRouter(opts Options) chi.Router {
	logger := logging.NewComponentLogger(opts.Logger, "httpapi")
	h := &handlers{
		catalog:   opts.Catalog,
		pairCount: opts.PairCount,
		logger:    logger,
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware(RequestIDHeader))
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/seed/{userID}", h.handleSeed)
		r.Get("/sessions/{userID}", h.handleSession)
		r.Get("/catalog", h.handleCatalog)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		h.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (h *handlers) handleSeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, SeedResponse{
		UserID:     userID,
		Seed:       seed.FromString(userID),
		LegacySeed: seed.FromStringLegacy(userID),
		Diverges:   seed.Diverges(userID),
		Normalized: seed.IsNormalized(userID),
	})
}

func (h *handlers) handleSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	count := h.pairCount
	if raw := strings.TrimSpace(r.URL.Query().Get("count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxCount {
			h.writeError(w, http.StatusBadRequest, "count must be an integer between 0 and "+strconv.Itoa(maxCount))
			return
		}
		count = n
	}

	session, err := pairs.Reproduce(userID, h.catalog.Files, count)
	if err != nil {
		if errors.Is(err, pairs.ErrInsufficientCatalog) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logging.WithContext(r.Context(), h.logger).Error("reproduce session failed",
			slog.String(logging.FieldUserID, userID), logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusOK, SessionResponse{
		UserID:      session.UserID,
		Seed:        session.Seed,
		CatalogHash: h.catalog.Hash(),
		Fallback:    h.catalog.Fallback,
		Pairs:       session.Pairs,
	})
}

func (h *handlers) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	doc := h.catalog
	files := doc.Files
	if files == nil {
		files = []string{}
	}
	h.writeJSON(w, http.StatusOK, CatalogResponse{
		Source:       doc.Source,
		Fallback:     doc.Fallback,
		Count:        doc.Len(),
		PairTotal:    pairs.Total(doc.Len()),
		Hash:         doc.Hash(),
		RecordedHash: doc.RecordedHash,
		HashDrift:    doc.HashDrift(),
		Version:      doc.Version,
		GeneratedAt:  doc.GeneratedAt,
		Files:        files,
	})
}

// userID returns the decoded path parameter. Identifiers are hashed exactly
// as given, so no trimming or case folding is applied. chi matches against
// RawPath when it is set, leaving the parameter escaped.
func (h *handlers) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if r.URL.RawPath == "" {
		return userID, true
	}
	userID, err := url.PathUnescape(userID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid user id")
		return "", false
	}
	return userID, true
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (h *handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
