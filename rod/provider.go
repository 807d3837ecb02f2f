// Package rod implements distill.SessionProvider and distill.Session on
// go-rod (Chrome DevTools Protocol).
package rod

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/sync/semaphore"
)

// Ensure Provider implements distill.SessionProvider and distill.Engine at
// compile time.
var (
	_ distill.SessionProvider = (*Provider)(nil)
	_ distill.Engine          = (*Provider)(nil)
)

// Defaults for a Provider.
const (
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultRecycleAfter = 75

	pingTimeout = 2 * time.Second
)

// State describes the browser owned by a Provider.
type State = distill.EngineState

// State constants.
const (
	StateRunning = distill.EngineRunning
	StateIdle    = distill.EngineIdle
	StateCrashed = distill.EngineCrashed
	StateClosed  = distill.EngineClosed
)

// Stats is a snapshot of provider activity.
type Stats = distill.EngineStats

// Provider owns one Chrome process and hands out one page per session.
//
// Chrome accumulates memory over time and the baseline never returns to
// initial levels even with proper page cleanup, so the browser is recycled
// after a number of sessions. Recycling waits until no session is open.
//
// Provider is safe for concurrent use.
type Provider struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	state    State

	open        int
	total       int64
	sinceLaunch int64
	launches    int64

	idleTimer *time.Timer
	idleGen   uint64

	sem    *semaphore.Weighted
	closed atomic.Bool

	headless     bool
	bin          string
	noSandbox    bool
	idleTimeout  time.Duration
	maxSessions  int64
	recycleAfter int64
}

// Option configures a Provider.
type Option func(*Provider)

// WithHeadless toggles headless mode. Defaults to true.
func WithHeadless(headless bool) Option {
	return func(p *Provider) {
		p.headless = headless
	}
}

// WithBrowserBin sets the Chrome binary. By default rod finds or downloads one.
func WithBrowserBin(path string) Option {
	return func(p *Provider) {
		p.bin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, typically needed in containers.
func WithNoSandbox(noSandbox bool) Option {
	return func(p *Provider) {
		p.noSandbox = noSandbox
	}
}

// WithIdleTimeout tears the browser down after d without open sessions.
// Zero disables idle teardown. Defaults to 5 minutes.
func WithIdleTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.idleTimeout = d
	}
}

// WithMaxSessions bounds concurrently open sessions. Acquire waits for a free
// slot until its context is done. Zero means unbounded.
func WithMaxSessions(n int64) Option {
	return func(p *Provider) {
		p.maxSessions = n
	}
}

// WithRecycleAfter relaunches the browser after n sessions. Zero disables
// recycling. Defaults to 75.
func WithRecycleAfter(n int64) Option {
	return func(p *Provider) {
		p.recycleAfter = n
	}
}

// NewProvider launches Chrome and returns a Provider.
// Close must be called when the Provider is no longer needed.
func NewProvider(opts ...Option) (*Provider, error) {
	p := &Provider{
		headless:     true,
		idleTimeout:  DefaultIdleTimeout,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxSessions > 0 {
		p.sem = semaphore.NewWeighted(p.maxSessions)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.launchBrowser(); err != nil {
		return nil, err
	}
	p.armIdleTimer()
	return p, nil
}

// Acquire opens a new page in the shared browser.
func (p *Provider) Acquire(ctx context.Context) (distill.Session, error) {
	if p.sem != nil {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return nil, distill.WrapError(distill.ETIMEOUT, err, "waiting for a free session")
		}
	}

	browser, err := p.reserve()
	if err != nil {
		p.releaseSlot()
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, p.pageFailed(ctx, browser, err)
	}

	// Drop the acquire context so Close works after it is cancelled.
	return newSession(page.Context(context.Background()), p.release), nil
}

// reserve returns a usable browser and counts a new open session.
func (p *Provider) reserve() (*rod.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateClosed:
		return nil, distill.Errorf(distill.EENGINE, "browser provider closed")
	case StateCrashed:
		return nil, distill.Errorf(distill.EENGINE, "browser crashed; restart required")
	case StateIdle:
		if err := p.launchBrowser(); err != nil {
			return nil, err
		}
	}

	if p.recycleAfter > 0 && p.sinceLaunch >= p.recycleAfter && p.open == 0 {
		p.recycleBrowser()
	}

	p.stopIdleTimer()
	p.open++
	p.total++
	p.sinceLaunch++
	return p.browser, nil
}

// pageFailed undoes a reservation and classifies the failure. A browser that
// no longer answers a version request is marked crashed.
func (p *Provider) pageFailed(ctx context.Context, browser *rod.Browser, err error) error {
	defer p.release()

	if ctx.Err() != nil {
		return distill.WrapError(distill.ETIMEOUT, err, "creating page")
	}
	if _, pingErr := (proto.BrowserGetVersion{}).Call(browser.Timeout(pingTimeout)); pingErr != nil {
		p.mu.Lock()
		if p.browser == browser && p.state == StateRunning {
			p.state = StateCrashed
		}
		p.mu.Unlock()
		return distill.WrapError(distill.EENGINE, err, "browser is not responding")
	}
	return distill.WrapError(distill.ESESSION, err, "creating page")
}

// release marks one session closed and frees its slot.
func (p *Provider) release() {
	p.mu.Lock()
	p.open--
	if p.open == 0 {
		p.armIdleTimer()
	}
	p.mu.Unlock()
	p.releaseSlot()
}

func (p *Provider) releaseSlot() {
	if p.sem != nil {
		p.sem.Release(1)
	}
}

// Restart relaunches the browser, clearing a crashed or idle state.
// Open sessions of the old browser are invalidated.
func (p *Provider) Restart() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return distill.Errorf(distill.EENGINE, "browser provider closed")
	}
	p.stopIdleTimer()
	_ = p.closeBrowser()
	if err := p.launchBrowser(); err != nil {
		p.state = StateCrashed
		return err
	}
	if p.open == 0 {
		p.armIdleTimer()
	}
	return nil
}

// Stats returns a snapshot of provider activity.
func (p *Provider) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		State:         p.state,
		OpenSessions:  p.open,
		TotalSessions: p.total,
		Launches:      p.launches,
	}
}

// Close releases browser resources. Close is safe to call multiple times.
func (p *Provider) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopIdleTimer()
	p.state = StateClosed
	return p.closeBrowser()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (p *Provider) LauncherPID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.launcher == nil {
		return 0
	}
	return p.launcher.PID()
}

// launchBrowser starts a new browser instance with stability flags.
// Must be called with mu held.
func (p *Provider) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(p.headless)
	if p.bin != "" {
		lnchr = lnchr.Bin(p.bin)
	}
	if p.noSandbox {
		lnchr = lnchr.NoSandbox(true)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return distill.WrapError(distill.EENGINE, err, "launching browser")
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return distill.WrapError(distill.EENGINE, err, "connecting to browser")
	}

	p.browser = browser
	p.launcher = lnchr
	p.state = StateRunning
	p.sinceLaunch = 0
	p.launches++
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (p *Provider) closeBrowser() error {
	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held and no open sessions.
func (p *Provider) recycleBrowser() {
	oldBrowser := p.browser
	oldLauncher := p.launcher
	p.browser = nil
	p.launcher = nil

	if err := p.launchBrowser(); err != nil {
		p.browser = oldBrowser
		p.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
}

// armIdleTimer schedules idle teardown. Must be called with mu held.
func (p *Provider) armIdleTimer() {
	if p.idleTimeout <= 0 || p.state != StateRunning {
		return
	}
	p.stopIdleTimer()
	gen := p.idleGen
	p.idleTimer = time.AfterFunc(p.idleTimeout, func() {
		p.idleTeardown(gen)
	})
}

// stopIdleTimer cancels pending idle teardown. Must be called with mu held.
func (p *Provider) stopIdleTimer() {
	p.idleGen++
	if p.idleTimer != nil {
		p.idleTimer.Stop()
		p.idleTimer = nil
	}
}

func (p *Provider) idleTeardown(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A timer that fired while being stopped carries a stale generation.
	if gen != p.idleGen || p.open > 0 || p.state != StateRunning {
		return
	}
	_ = p.closeBrowser()
	p.state = StateIdle
	p.idleTimer = nil
}
