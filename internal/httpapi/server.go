// Package httpapi exposes the diagram engine over HTTP.
//
// The server holds one diagram per process, advanced by posting document
// revisions. A revision that fails validation is recorded as failed and
// the previous good revision stays live, so a bad edit from an upstream
// document generator never blanks the diagram consumers see.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-graphviz"
	"github.com/google/uuid"

	"github.com/voltlab/sldraw/pkg/cache"
	apperrors "github.com/voltlab/sldraw/pkg/errors"
	"github.com/voltlab/sldraw/pkg/geom"
	"github.com/voltlab/sldraw/pkg/layout"
	"github.com/voltlab/sldraw/pkg/render"
	"github.com/voltlab/sldraw/pkg/sld"
)

// RevisionStatus is the lifecycle state of a submitted document revision.
type RevisionStatus string

const (
	StatusPending  RevisionStatus = "pending"
	StatusResolved RevisionStatus = "resolved"
	StatusFailed   RevisionStatus = "failed"
)

// Revision is one submitted document and its layout outcome.
type Revision struct {
	ID          uuid.UUID      `json:"id"`
	Status      RevisionStatus `json:"status"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Error       string         `json:"error,omitempty"`

	doc    *sld.Document
	result *layout.Result
}

// cacheTTL bounds how long layouts and artifacts live in the cache. Keys
// are content-addressed, so the TTL only caps storage, not correctness.
const cacheTTL = 24 * time.Hour

// Server serves the diagram API. Create with [NewServer].
type Server struct {
	engine *layout.Engine
	store  cache.Cache
	logger *log.Logger

	mu        sync.Mutex
	revisions map[uuid.UUID]*Revision
	current   *Revision // last revision that laid out successfully
}

// NewServer creates a server computing layouts with engine and caching
// results in store. A nil store disables caching.
func NewServer(engine *layout.Engine, store cache.Cache, logger *log.Logger) *Server {
	if store == nil {
		store = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		engine:    engine,
		store:     store,
		logger:    logger,
		revisions: make(map[uuid.UUID]*Revision),
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/revisions", s.handleSubmit)
		r.Get("/revisions/{id}", s.handleRevision)
		r.Get("/layout", s.handleLayout)
		r.Get("/bounds", s.handleBounds)
		r.Get("/export/{format}", s.handleExport)
	})
	return r
}

// handleSubmit accepts a document revision. Validation failures are
// recorded and reported with 422 while the previous good revision stays
// live.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	rev := &Revision{
		ID:          uuid.New(),
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
	}

	doc, err := sld.ReadDocument(r.Body)
	if err != nil {
		rejection := apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "document rejected")
		rev.Status = StatusFailed
		rev.Error = rejection.Error()
		s.mu.Lock()
		s.revisions[rev.ID] = rev
		currentID := ""
		if s.current != nil {
			currentID = s.current.ID.String()
		}
		s.mu.Unlock()

		s.logger.Warn("rejected revision", "revision", rev.ID, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"code":             rejection.Code,
			"error":            apperrors.UserMessage(rejection),
			"revision":         rev,
			"current_revision": currentID,
		})
		return
	}

	result := s.layoutCached(r, doc)
	rev.Status = StatusResolved
	rev.doc = doc
	rev.result = &result

	s.mu.Lock()
	s.revisions[rev.ID] = rev
	s.current = rev
	s.mu.Unlock()

	s.logger.Info("resolved revision",
		"revision", rev.ID,
		"components", len(doc.Components),
		"warnings", len(result.Warnings))
	writeJSON(w, http.StatusCreated, map[string]any{
		"revision":     rev,
		"total_height": result.TotalHeight,
		"warnings":     result.Warnings,
	})
}

// layoutCached computes the layout for doc, consulting the cache under
// the content-addressed layout key.
func (s *Server) layoutCached(r *http.Request, doc *sld.Document) layout.Result {
	ctx := r.Context()
	key := cache.LayoutKey(cache.DocumentKey(doc), s.engine.Options())

	if data, hit, err := s.store.Get(ctx, key); err == nil && hit {
		var cached layout.Result
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached
		}
	} else if err != nil {
		s.logger.Warn("layout cache read failed", "error", err)
	}

	result := s.engine.Layout(doc)
	if data, err := json.Marshal(result); err == nil {
		if err := s.store.Set(ctx, key, data, cacheTTL); err != nil {
			s.logger.Warn("layout cache write failed", "error", err)
		}
	}
	return result
}

func (s *Server) handleRevision(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidRevision, "invalid revision id")
		return
	}
	s.mu.Lock()
	rev, ok := s.revisions[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, apperrors.ErrCodeRevisionNotFound, "unknown revision")
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	rev, ok := s.currentRevision()
	if !ok {
		writeError(w, http.StatusNotFound, apperrors.ErrCodeNoLayout, "no resolved revision")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"revision": rev.ID,
		"layout":   rev.result,
	})
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	rev, ok := s.currentRevision()
	if !ok {
		writeError(w, http.StatusNotFound, apperrors.ErrCodeNoLayout, "no resolved revision")
		return
	}
	writeJSON(w, http.StatusOK, geom.Bounds(rev.result.Placed, render.DefaultPadding))
}

// handleExport renders the current revision as svg, png, dot or json.
// Rendered artifacts are cached by layout content and format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rev, ok := s.currentRevision()
	if !ok {
		writeError(w, http.StatusNotFound, apperrors.ErrCodeNoLayout, "no resolved revision")
		return
	}
	format := chi.URLParam(r, "format")

	layoutKey := cache.LayoutKey(cache.DocumentKey(rev.doc), s.engine.Options())
	artifactKey := cache.ArtifactKey(layoutKey, format)
	if data, hit, err := s.store.Get(r.Context(), artifactKey); err == nil && hit {
		w.Header().Set("Content-Type", contentType(format))
		_, _ = w.Write(data)
		return
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case "svg":
		data = render.SVG(rev.result.Placed, rev.doc.Connections)
	case "dot":
		data = []byte(render.ToDOT(rev.doc))
	case "png":
		data, err = render.RenderDOT(r.Context(), render.ToDOT(rev.doc), graphviz.PNG)
	case "json":
		data, err = json.MarshalIndent(rev.result, "", "  ")
	default:
		writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidFormat, "unsupported format: "+format)
		return
	}
	if err != nil {
		s.logger.Error("export failed", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "export failed")
		return
	}

	if err := s.store.Set(r.Context(), artifactKey, data, cacheTTL); err != nil {
		s.logger.Warn("artifact cache write failed", "error", err)
	}
	w.Header().Set("Content-Type", contentType(format))
	_, _ = w.Write(data)
}

func (s *Server) currentRevision() (*Revision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

func contentType(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "dot":
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code apperrors.Code, msg string) {
	writeJSON(w, status, map[string]any{"code": code, "error": msg})
}
