package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"dictation/internal/domain"
	"dictation/internal/lessonstore"
	"dictation/internal/segment"
)

// Segmenter cuts text into dictation sentences with optional per-call bounds.
// Unset bounds keep the configured values.
type Segmenter interface {
	SegmentWith(text string, b segment.Bounds) ([]domain.Sentence, error)
}

// LessonStore serves lessons ingested at startup.
type LessonStore interface {
	Get(id string) (domain.Lesson, error)
	List() ([]domain.Lesson, error)
	Search(query string, topK int) ([]domain.Lesson, error)
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes  int
	tokenizerName string
	lessons       LessonStore
	logger        *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:  64 << 10,
		tokenizerName: "none",
		logger:        slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /segment.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithTokenizerName sets the tokenizer reported by /health.
func WithTokenizerName(name string) Option {
	return func(o *options) { o.tokenizerName = name }
}

// WithLessons enables GET /lessons and GET /lessons/{id} backed by store.
func WithLessons(store LessonStore) Option {
	return func(o *options) { o.lessons = store }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type handler struct {
	seg  Segmenter
	opts options
	log  *slog.Logger
}

// NewHandler returns an http.Handler that serves /health and POST /segment,
// plus the lesson routes when a store is configured.
func NewHandler(seg Segmenter, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = slog.New(slog.DiscardHandler)
	}

	h := &handler{seg: seg, opts: opts, log: opts.logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/segment", h.handleSegment)
	if opts.lessons != nil {
		mux.HandleFunc("/lessons", h.handleLessons)
		mux.HandleFunc("/lessons/{id}", h.handleLesson)
	}
	return mux
}

// BuildVersion reports the module version baked into the binary, or "dev".
func BuildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"version":   BuildVersion(),
		"tokenizer": h.opts.tokenizerName,
	})
}

type segmentRequest struct {
	Text string `json:"text"`
	segment.Bounds
}

type segmentResponse struct {
	Sentences []domain.Sentence `json:"sentences"`
}

func (h *handler) handleSegment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}

	// JSON escaping can at most sextuple the text; anything beyond is refused
	// before decoding.
	r.Body = http.MaxBytesReader(w, r.Body, int64(h.opts.maxTextBytes)*6+1024)

	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	if req.MaxLen != nil && *req.MaxLen < 1 {
		writeError(w, http.StatusBadRequest, "max_len must be at least 1")
		return
	}
	if req.MinLen != nil && *req.MinLen < 0 {
		writeError(w, http.StatusBadRequest, "min_len must not be negative")
		return
	}

	start := time.Now()
	sentences, err := h.seg.SegmentWith(req.Text, req.Bounds)
	durationMS := time.Since(start).Milliseconds()
	if err != nil {
		if errors.Is(err, segment.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "segmentation failed",
			slog.Int("text_len", len(req.Text)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.InfoContext(r.Context(), "segmentation complete",
		slog.Int("text_len", len(req.Text)),
		slog.Int("sentences", len(sentences)),
		slog.Int64("duration_ms", durationMS),
	)

	writeJSON(w, http.StatusOK, segmentResponse{Sentences: sentences})
}

// lessonSummary is the list view of a lesson.
type lessonSummary struct {
	ID         string   `json:"id"`
	Path       string   `json:"path"`
	Title      string   `json:"title"`
	Words      []string `json:"words"`
	Paragraphs int      `json:"paragraphs"`
	Sentences  int      `json:"sentences"`
}

func (h *handler) handleLessons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		lessons []domain.Lesson
		err     error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
		}
		lessons, err = h.opts.lessons.Search(q, limit)
	} else {
		lessons, err = h.opts.lessons.List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]lessonSummary, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, lessonSummary{
			ID:         l.ID,
			Path:       l.Path,
			Title:      l.Title,
			Words:      l.Words,
			Paragraphs: len(l.Paragraphs),
			Sentences:  l.SentenceCount(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) handleLesson(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	lesson, err := h.opts.lessons.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, lessonstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server: wires the handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	addr            string
	handler         http.Handler
	shutdownTimeout time.Duration
	log             *slog.Logger
	ready           chan string
}

// New returns a server for h listening on addr.
func New(addr string, h http.Handler) *Server {
	return &Server{
		addr:            addr,
		handler:         h,
		shutdownTimeout: 10 * time.Second,
		log:             slog.Default(),
		ready:           make(chan string, 1),
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithLogger sets the logger for lifecycle events.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	if l != nil {
		s.log = l
	}
	return s
}

// Ready delivers the bound address once the listener is open.
func (s *Server) Ready() <-chan string { return s.ready }

// Start serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	addr := ln.Addr().String()
	s.log.Info("http server listening", slog.String("addr", addr))
	s.ready <- addr

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		s.log.Info("http server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http serve: %w", err)
	}
}
