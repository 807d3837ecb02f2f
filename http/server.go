// Package http serves distill pipelines over HTTP using gin.
package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/distill"
	"github.com/gin-gonic/gin"
)

// ShutdownTimeout bounds how long Close waits for in-flight requests.
const ShutdownTimeout = 30 * time.Second

// Defaults for history listings.
const (
	DefaultRecordLimit = 20
	MaxRecordLimit     = 100
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and persistence logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithResultWriters sets the writers run after every successful extraction.
// Write failures are logged and never fail the request.
func WithResultWriters(writers ...distill.ResultWriter) Option {
	return func(s *Server) {
		s.writers = writers
	}
}

// WithRecordService enables the /records endpoints.
func WithRecordService(records distill.RecordService) Option {
	return func(s *Server) {
		s.records = records
	}
}

// WithEngine sets the engine whose state drives /health and enables
// POST /engine/restart.
func WithEngine(engine distill.Engine) Option {
	return func(s *Server) {
		s.engine = engine
	}
}

// WithRateLimit limits extraction requests per client IP. A non-positive
// rps disables limiting, which is the default.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newClientLimiter(rps, burst)
	}
}

// Server is the HTTP surface of a distill pipeline.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *gin.Engine

	pipeline distill.Pipeline
	writers  []distill.ResultWriter
	records  distill.RecordService
	engine   distill.Engine
	limiter  *clientLimiter
	logger   *slog.Logger
}

// NewServer returns a Server with all routes registered.
func NewServer(pipeline distill.Pipeline, opts ...Option) *Server {
	s := &Server{
		pipeline: pipeline,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/health", s.handleHealth)

	api := r.Group("")
	if s.limiter != nil {
		api.Use(rateLimit(s.limiter))
	}
	api.POST("/scrape", s.handleScrape(distill.ModeRaw))
	api.POST("/scrape/readable", s.handleScrape(distill.ModeReadable))

	if s.engine != nil {
		api.POST("/engine/restart", s.handleEngineRestart)
	}

	if s.records != nil {
		api.GET("/records", s.handleRecordIndex)
		api.GET("/records/:id", s.handleRecordView)
	}

	s.router = r
	s.server = &http.Server{Handler: r}
	return s
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Open starts listening on addr and serves in the background.
func (s *Server) Open(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return distill.WrapError(distill.EINTERNAL, err, "listening on %s", addr)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// Addr returns the listening address, or "" before Open.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

type scrapeRequest struct {
	URL string `json:"url" binding:"required"`
}

type scrapeResponse struct {
	URL      string            `json:"url"`
	Title    string            `json:"title"`
	Markdown string            `json:"markdown"`
	Warnings []distill.Warning `json:"warnings,omitempty"`
}

type readableResponse struct {
	scrapeResponse
	HTML string `json:"html"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleScrape(mode distill.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondError(c, distill.WrapError(distill.EINVALID, err, "request body must be JSON with a url"))
			return
		}

		res, err := s.pipeline.Extract(c.Request.Context(), distill.Request{URL: req.URL, Mode: mode})
		if err != nil {
			s.respondError(c, err)
			return
		}
		s.persist(c.Request.Context(), res)

		body := scrapeResponse{
			URL:      res.URL,
			Title:    res.Title,
			Markdown: res.Markdown,
			Warnings: res.Warnings,
		}
		if mode == distill.ModeReadable {
			c.JSON(http.StatusOK, readableResponse{scrapeResponse: body, HTML: res.ArticleHTML()})
			return
		}
		c.JSON(http.StatusOK, body)
	}
}

// persist runs every writer, detached from client cancellation.
func (s *Server) persist(ctx context.Context, res *distill.Result) {
	ctx = context.WithoutCancel(ctx)
	for _, w := range s.writers {
		if err := w.WriteResult(ctx, res); err != nil {
			s.logger.Warn("result write failed", "url", res.URL, "mode", res.Mode, "err", err)
		}
	}
}

// handleHealth answers 503 while the engine is crashed or closed, so a
// supervisor can restart it or the process.
func (s *Server) handleHealth(c *gin.Context) {
	if s.engine == nil {
		c.String(http.StatusOK, "OK")
		return
	}

	stats := s.engine.Stats()
	status, text := http.StatusOK, "OK"
	if !stats.State.Available() {
		status, text = http.StatusServiceUnavailable, "engine "+string(stats.State)
	}

	if c.Query("verbose") == "" {
		c.String(status, text)
		return
	}
	c.JSON(status, gin.H{
		"status": healthStatus(stats.State),
		"engine": stats,
	})
}

func healthStatus(state distill.EngineState) string {
	if state.Available() {
		return "ok"
	}
	return "unavailable"
}

func (s *Server) handleEngineRestart(c *gin.Context) {
	before := s.engine.Stats().State
	if err := s.engine.Restart(); err != nil {
		var e *distill.Error
		if !errors.As(err, &e) {
			err = distill.WrapError(distill.EENGINE, err, "engine restart failed")
		}
		s.logger.Error("engine restart failed", "state", before, "err", err)
		s.respondError(c, err)
		return
	}

	stats := s.engine.Stats()
	s.logger.Info("engine restarted", "from", before, "launches", stats.Launches)
	c.JSON(http.StatusOK, gin.H{
		"status": healthStatus(stats.State),
		"engine": stats,
	})
}

func (s *Server) handleRecordIndex(c *gin.Context) {
	filter := distill.RecordFilter{Limit: DefaultRecordLimit}

	if v := c.Query("url"); v != "" {
		filter.URL = &v
	}
	if v := c.Query("mode"); v != "" {
		mode, err := distill.ParseMode(v)
		if err != nil {
			s.respondError(c, err)
			return
		}
		filter.Mode = &mode
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(c, distill.Errorf(distill.EINVALID, "invalid limit %q", v))
			return
		}
		filter.Limit = min(n, MaxRecordLimit)
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(c, distill.Errorf(distill.EINVALID, "invalid offset %q", v))
			return
		}
		filter.Offset = n
	}

	records, err := s.records.FindRecords(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if records == nil {
		records = []*distill.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleRecordView(c *gin.Context) {
	rec, err := s.records.FindRecordByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// respondError writes err as {error, code}. Internal errors are logged and
// their details hidden from the client.
func (s *Server) respondError(c *gin.Context, err error) {
	code := distill.ErrorCode(err)
	if code == distill.EINTERNAL {
		s.logger.Error("internal error", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
	}
	c.AbortWithStatusJSON(statusCode(code), errorResponse{
		Error: distill.ErrorMessage(err),
		Code:  code,
	})
}
