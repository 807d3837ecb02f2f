// Package pipeline implements distill.Pipeline: the browser-driven stages
// that turn a URL into a title, article HTML and Markdown.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure Pipeline implements distill.Pipeline at compile time.
var _ distill.Pipeline = (*Pipeline)(nil)

// Stage names, reported in warnings and error messages.
const (
	StageAcquire  = "acquire"
	StageNavigate = "navigate"
	StageCapture  = "capture"
	StageLazyLoad = "lazyload"
	StageExtract  = "extract"
	StageConvert  = "convert"
)

// Delays are the settle pauses applied between stages. Settling is a
// heuristic: slow asynchronous pages may still render after it elapses.
type Delays struct {
	// RawSettle follows the load event in raw mode.
	RawSettle time.Duration

	// ReadableSettle follows the load event in readable mode.
	ReadableSettle time.Duration

	// ScrollSettle follows scroll simulation.
	ScrollSettle time.Duration
}

// DefaultDelays returns the settle delays used when none are configured.
func DefaultDelays() Delays {
	return Delays{
		RawSettle:      time.Second,
		ReadableSettle: 1500 * time.Millisecond,
		ScrollSettle:   500 * time.Millisecond,
	}
}

// Timeouts bound individual engine calls. A zero value means no bound
// beyond the request context.
type Timeouts struct {
	Navigate time.Duration
	Evaluate time.Duration
}

// DefaultTimeouts returns the per-stage timeouts used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Navigate: 30 * time.Second,
		Evaluate: 15 * time.Second,
	}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDelays sets the settle delays.
func WithDelays(d Delays) Option {
	return func(p *Pipeline) {
		p.delays = d
	}
}

// WithTimeouts sets the per-stage timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(p *Pipeline) {
		p.timeouts = t
	}
}

// WithLogger sets the logger used to report degraded stages.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRequireContent makes an empty readable extraction fail with EEMPTY
// instead of returning an empty result with a warning.
func WithRequireContent(require bool) Option {
	return func(p *Pipeline) {
		p.requireContent = require
	}
}

// Pipeline runs extraction requests against sessions from a provider.
// Pipeline is safe for concurrent use; each request gets its own session.
type Pipeline struct {
	provider  distill.SessionProvider
	extractor distill.Extractor
	converter distill.Converter

	delays         Delays
	timeouts       Timeouts
	logger         *slog.Logger
	requireContent bool
}

// New creates a Pipeline. extractor finds the article in the sanitized page
// during readable requests.
func New(provider distill.SessionProvider, extractor distill.Extractor, converter distill.Converter, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider:  provider,
		extractor: extractor,
		converter: converter,
		delays:    DefaultDelays(),
		timeouts:  DefaultTimeouts(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run carries the per-request state between stages.
type run struct {
	req     distill.Request
	session distill.Session
	html    string
	result  *distill.Result
}

func (r *run) warn(stage, message string) {
	r.result.Warnings = append(r.result.Warnings, distill.Warning{Stage: stage, Message: message})
}

// stage is one step of a request. code classifies untyped failures.
type stage struct {
	name string
	code string
	fn   func(ctx context.Context, r *run) error
}

// stages returns the stage list for a mode.
func (p *Pipeline) stages(mode distill.Mode) []stage {
	if mode == distill.ModeReadable {
		return []stage{
			{StageNavigate, distill.ENAVIGATION, p.navigate(p.delays.ReadableSettle)},
			{StageLazyLoad, distill.EEVALUATION, p.lazyLoad},
			{StageExtract, distill.EEVALUATION, p.extract},
			{StageConvert, distill.EINTERNAL, p.convert},
		}
	}
	return []stage{
		{StageNavigate, distill.ENAVIGATION, p.navigate(p.delays.RawSettle)},
		{StageCapture, distill.EEVALUATION, p.capture},
		{StageConvert, distill.EINTERNAL, p.convert},
	}
}

// Extract runs every stage for the request's mode. The session is closed on
// every return path. The first failing stage aborts the request.
func (p *Pipeline) Extract(ctx context.Context, req distill.Request) (*distill.Result, error) {
	if req.Mode == "" {
		req.Mode = distill.ModeRaw
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session, err := p.provider.Acquire(ctx)
	if err != nil {
		return nil, classify(StageAcquire, distill.ESESSION, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			p.logger.Warn("session close failed", "url", req.URL, "err", err)
		}
	}()

	r := &run{
		req:     req,
		session: session,
		result:  &distill.Result{URL: req.URL, Mode: req.Mode},
	}
	for _, s := range p.stages(req.Mode) {
		if err := s.fn(ctx, r); err != nil {
			return nil, classify(s.name, s.code, err)
		}
	}
	return r.result, nil
}

// classify maps a stage failure to a typed error. Deadlines and
// cancellation become ETIMEOUT; typed errors keep their code.
func classify(name, code string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return distill.WrapError(distill.ETIMEOUT, err, "%s timed out", name)
	}
	var e *distill.Error
	if errors.As(err, &e) {
		return err
	}
	return distill.WrapError(code, err, "%s failed", name)
}

func (p *Pipeline) navigate(settle time.Duration) func(ctx context.Context, r *run) error {
	return func(ctx context.Context, r *run) error {
		navCtx, cancel := withTimeout(ctx, p.timeouts.Navigate)
		defer cancel()

		if err := r.session.Navigate(navCtx, r.req.URL); err != nil {
			if navCtx.Err() != nil {
				return distill.WrapError(distill.ETIMEOUT, err, "navigation to %s timed out", r.req.URL)
			}
			return err
		}
		return sleep(ctx, settle)
	}
}

func (p *Pipeline) capture(ctx context.Context, r *run) error {
	title, err := p.evaluate(ctx, r.session, TitleScript, false)
	if err != nil {
		return err
	}
	html, err := p.evaluate(ctx, r.session, OuterHTMLScript, false)
	if err != nil {
		return err
	}
	r.result.Title, _ = title.(string)
	r.html, _ = html.(string)
	return nil
}

// lazyLoad is best-effort: engine failures become warnings. Only caller
// cancellation aborts it.
func (p *Pipeline) lazyLoad(ctx context.Context, r *run) error {
	if _, err := p.evaluate(ctx, r.session, ScrollScript, true); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.degrade(r, StageLazyLoad, "scroll simulation failed", err)
	}
	if err := sleep(ctx, p.delays.ScrollSettle); err != nil {
		return err
	}
	if _, err := p.evaluate(ctx, r.session, RepairImagesScript, false); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.degrade(r, StageLazyLoad, "image repair failed", err)
	}
	return nil
}

// extract sanitizes the live page, then runs the extractor over the
// serialized result. An in-page failure or a page without an article yields
// an empty article with a warning.
func (p *Pipeline) extract(ctx context.Context, r *run) error {
	v, err := p.evaluate(ctx, r.session, SanitizeScript, false)
	if err != nil {
		return err
	}

	snapshot := distill.DecodeEnvelope(v)
	env := distill.Envelope{Title: snapshot.Title, Error: snapshot.Error}
	switch {
	case snapshot.Error != "":
	case strings.TrimSpace(snapshot.Content) == "":
		env.Error = "page returned no document"
	default:
		env, err = p.extractor.Extract(snapshot.Content, r.req.URL)
		if err != nil {
			return err
		}
		if env.Title == "" {
			env.Title = snapshot.Title
		}
	}

	if env.Error != "" {
		r.warn(StageExtract, env.Error)
		p.logger.Warn("extraction degraded", "url", r.req.URL, "error", env.Error)
	}
	if p.requireContent && env.Empty() {
		return distill.Errorf(distill.EEMPTY, "no article found at %s", r.req.URL)
	}

	r.result.Title = env.Title
	r.result.HTML = &env.Content
	r.html = env.Content
	return nil
}

func (p *Pipeline) convert(_ context.Context, r *run) error {
	md, err := p.converter.Convert(r.html, r.req.URL)
	if err != nil {
		return err
	}
	r.result.Markdown = md
	return nil
}

// evaluate runs script under the evaluation timeout.
func (p *Pipeline) evaluate(ctx context.Context, s distill.Session, script string, awaitPromise bool) (any, error) {
	evalCtx, cancel := withTimeout(ctx, p.timeouts.Evaluate)
	defer cancel()

	v, err := s.Evaluate(evalCtx, script, awaitPromise)
	if err != nil && evalCtx.Err() != nil {
		return nil, distill.WrapError(distill.ETIMEOUT, err, "evaluation timed out")
	}
	return v, err
}

func (p *Pipeline) degrade(r *run, stage, message string, err error) {
	r.warn(stage, message+": "+err.Error())
	p.logger.Warn(message, "url", r.req.URL, "stage", stage, "err", err)
}

// withTimeout bounds ctx by d; a non-positive d leaves it unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
