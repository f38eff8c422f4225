// Package tracker turns a stream of foreground-window samples into timed sessions.
package tracker

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/clock"
	"github.com/hpungsan/avrora/internal/errors"
	"github.com/hpungsan/avrora/internal/sampler"
)

// Default timings used when Options leaves them zero.
const (
	DefaultPollInterval   = 2 * time.Second
	DefaultSamplerTimeout = 5 * time.Second
)

// Recorder persists a finalized session and returns its id.
type Recorder interface {
	RecordSession(ctx context.Context, s *activity.Session) (string, error)
}

// Observer is told about tick outcomes. Observers must not block.
type Observer interface {
	// SessionClosed is called after a finalized session was handed to the
	// recorder. recordErr is the recorder's error, if any.
	SessionClosed(ctx context.Context, s activity.Session, recordErr error)

	// SampleFailed is called when a tick was skipped because sampling failed.
	SampleFailed(ctx context.Context, err error)
}

// Options configures a Tracker.
type Options struct {
	Sampler    sampler.Sampler
	Recorder   Recorder
	Categorize func(appName, windowTitle, url string) activity.Category

	// Clock defaults to the wall clock.
	Clock clock.Clock

	// Logger defaults to a discarding logger.
	Logger *log.Logger

	PollInterval   time.Duration
	SamplerTimeout time.Duration

	// FlushOnStop records the open session when Stop is called.
	FlushOnStop bool

	Observers []Observer
}

// Tracker owns the open session. All state changes happen under mu so ticks
// never interleave.
type Tracker struct {
	sampler        sampler.Sampler
	recorder       Recorder
	categorize     func(appName, windowTitle, url string) activity.Category
	clock          clock.Clock
	logger         *log.Logger
	pollInterval   time.Duration
	samplerTimeout time.Duration
	flushOnStop    bool
	observers      []Observer

	mu      sync.Mutex
	current *activity.Session

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Tracker. Sampler, Recorder and Categorize are required.
func New(opts Options) *Tracker {
	t := &Tracker{
		sampler:        opts.Sampler,
		recorder:       opts.Recorder,
		categorize:     opts.Categorize,
		clock:          opts.Clock,
		logger:         opts.Logger,
		pollInterval:   opts.PollInterval,
		samplerTimeout: opts.SamplerTimeout,
		flushOnStop:    opts.FlushOnStop,
		observers:      opts.Observers,
	}
	if t.clock == nil {
		t.clock = clock.System{}
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard, "", 0)
	}
	if t.pollInterval <= 0 {
		t.pollInterval = DefaultPollInterval
	}
	if t.samplerTimeout <= 0 {
		t.samplerTimeout = DefaultSamplerTimeout
	}
	return t
}

// Start begins polling in a background goroutine. It returns ALREADY_RUNNING
// if the tracker is already polling. Polling stops when ctx is cancelled or
// Stop is called.
func (t *Tracker) Start(ctx context.Context) error {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	if t.running {
		return errors.NewAlreadyRunning()
	}

	runCtx, cancel := context.WithCancel(ctx)
	t.running = true
	t.cancel = cancel
	t.done = make(chan struct{})

	go t.loop(runCtx, t.done)

	t.logger.Printf("monitoring started (interval %s)", t.pollInterval)
	return nil
}

func (t *Tracker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.CheckActivity(ctx)
		}
	}
}

// Stop halts polling and waits for an in-flight tick to finish. The open
// session is discarded unless FlushOnStop was set. Stop on an idle tracker
// is a no-op.
func (t *Tracker) Stop() {
	t.runMu.Lock()
	if !t.running {
		t.runMu.Unlock()
		return
	}
	cancel, done := t.cancel, t.done
	t.running = false
	t.cancel = nil
	t.done = nil
	t.runMu.Unlock()

	cancel()
	<-done

	if t.flushOnStop {
		t.Flush(context.Background())
	}
	t.logger.Printf("monitoring stopped")
}

// Running reports whether the polling loop is active.
func (t *Tracker) Running() bool {
	t.runMu.Lock()
	defer t.runMu.Unlock()
	return t.running
}

// CheckActivity performs one tick: sample, compare with the open session and
// rotate it when the (app, title) pair changed. Failures are logged and the
// open session is kept.
func (t *Tracker) CheckActivity(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// A started tick runs to completion; Stop only prevents the next one.
	ctx = context.WithoutCancel(ctx)

	win, err := t.sample(ctx)
	if err != nil {
		if !errors.Is(err, errors.ErrSamplerUnavailable) {
			err = errors.NewSamplerUnavailable(err)
		}
		t.logger.Printf("sample skipped: %v", err)
		for _, o := range t.observers {
			o.SampleFailed(ctx, err)
		}
		return
	}
	if win == nil {
		return
	}

	appName := activity.NormalizeAppName(win.Owner)
	title := win.Title

	if t.current != nil && t.current.SameActivity(appName, title) {
		return
	}

	now := clock.UnixMs(t.clock.Now())

	if t.current != nil {
		t.closeCurrent(ctx, now)
	}

	url := activity.ExtractURL(title)
	t.current = &activity.Session{
		AppName:     appName,
		WindowTitle: title,
		URL:         url,
		Category:    t.categorize(appName, title, url),
		StartTimeMs: now,
	}
}

type sampleResult struct {
	win *sampler.Window
	err error
}

// sample runs the sampler under the sampler timeout. A sampler that ignores
// its context is abandoned when the deadline passes; its late result is
// dropped.
func (t *Tracker) sample(ctx context.Context) (*sampler.Window, error) {
	sampleCtx, cancel := context.WithTimeout(ctx, t.samplerTimeout)
	defer cancel()

	resCh := make(chan sampleResult, 1)
	go func() {
		win, err := t.sampler.Sample(sampleCtx)
		resCh <- sampleResult{win: win, err: err}
	}()

	select {
	case res := <-resCh:
		return res.win, res.err
	case <-sampleCtx.Done():
		return nil, errors.NewSamplerUnavailable(sampleCtx.Err())
	}
}

// Flush closes and records the open session at the current time.
// It is a no-op when no session is open.
func (t *Tracker) Flush(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}
	t.closeCurrent(ctx, clock.UnixMs(t.clock.Now()))
	t.current = nil
}

// closeCurrent finalizes t.current at now and hands it to the recorder.
// Caller holds t.mu. The write ignores cancellation of ctx so a session closed
// while Stop is pending is still persisted.
func (t *Tracker) closeCurrent(ctx context.Context, now int64) {
	ctx = context.WithoutCancel(ctx)
	s := t.current
	s.DurationMs = max(now-s.StartTimeMs, 0)

	_, err := t.recorder.RecordSession(ctx, s)
	if err != nil {
		t.logger.Printf("record session %s/%q: %v", s.AppName, s.WindowTitle, err)
	}
	for _, o := range t.observers {
		o.SessionClosed(ctx, *s, err)
	}
}

// Current returns a copy of the open session, or nil when none is open.
func (t *Tracker) Current() *activity.Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}
	s := *t.current
	return &s
}
