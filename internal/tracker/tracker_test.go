package tracker

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hpungsan/avrora/internal/activity"
	"github.com/hpungsan/avrora/internal/clock"
	"github.com/hpungsan/avrora/internal/errors"
	"github.com/hpungsan/avrora/internal/sampler"
)

var epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// scripted returns queued windows in order; an error entry fails that tick.
type scripted struct {
	mu    sync.Mutex
	steps []step
	calls int
}

type step struct {
	win *sampler.Window
	err error
}

func (s *scripted) push(owner, title string) {
	s.mu.Lock()
	s.steps = append(s.steps, step{win: &sampler.Window{Owner: owner, Title: title}})
	s.mu.Unlock()
}

func (s *scripted) fail(err error) {
	s.mu.Lock()
	s.steps = append(s.steps, step{err: err})
	s.mu.Unlock()
}

func (s *scripted) Sample(ctx context.Context) (*sampler.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.steps) == 0 {
		return nil, nil
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	return st.win, st.err
}

type memRecorder struct {
	mu       sync.Mutex
	sessions []activity.Session
	err      error
}

func (r *memRecorder) RecordSession(ctx context.Context, s *activity.Session) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	s.ID = fmt.Sprintf("s%d", len(r.sessions)+1)
	r.sessions = append(r.sessions, *s)
	return s.ID, nil
}

func (r *memRecorder) recorded() []activity.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]activity.Session(nil), r.sessions...)
}

type countingObserver struct {
	mu       sync.Mutex
	closed   []activity.Session
	failures int
	recErrs  int
}

func (o *countingObserver) SessionClosed(ctx context.Context, s activity.Session, recordErr error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = append(o.closed, s)
	if recordErr != nil {
		o.recErrs++
	}
}

func (o *countingObserver) SampleFailed(ctx context.Context, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures++
}

type fixture struct {
	tracker  *Tracker
	sampler  *scripted
	recorder *memRecorder
	clock    *clock.Manual
	observer *countingObserver
}

func newFixture(t *testing.T, flushOnStop bool) *fixture {
	t.Helper()
	f := &fixture{
		sampler:  &scripted{},
		recorder: &memRecorder{},
		clock:    clock.NewManual(epoch),
		observer: &countingObserver{},
	}
	f.tracker = New(Options{
		Sampler:      f.sampler,
		Recorder:     f.recorder,
		Categorize:   activity.NewCategorizer(activity.DefaultTables()).Categorize,
		Clock:        f.clock,
		PollInterval: 10 * time.Millisecond,
		FlushOnStop:  flushOnStop,
		Observers:    []Observer{f.observer},
	})
	return f
}

// tick advances the clock by d, queues a sample and runs one check.
func (f *fixture) tick(d time.Duration, owner, title string) {
	f.clock.Advance(d)
	f.sampler.push(owner, title)
	f.tracker.CheckActivity(context.Background())
}

func TestCheckActivity_EndToEnd(t *testing.T) {
	f := newFixture(t, false)

	f.tick(0, "Code", "file.js - Visual Studio Code")
	f.tick(2*time.Second, "Code", "file.js - Visual Studio Code")
	f.tick(2*time.Second, "Chrome", "GitHub - foo")

	got := f.recorder.recorded()
	if len(got) != 1 {
		t.Fatalf("recorded %d sessions, want 1", len(got))
	}
	s := got[0]
	if s.AppName != "Code" {
		t.Errorf("AppName = %q, want %q", s.AppName, "Code")
	}
	if s.DurationMs != 4000 {
		t.Errorf("DurationMs = %d, want 4000", s.DurationMs)
	}
	if s.Category != activity.CategoryProductive {
		t.Errorf("Category = %q, want %q", s.Category, activity.CategoryProductive)
	}
	if s.StartTimeMs != epoch.UnixMilli() {
		t.Errorf("StartTimeMs = %d, want %d", s.StartTimeMs, epoch.UnixMilli())
	}

	open := f.tracker.Current()
	if open == nil {
		t.Fatalf("Current() = nil, want open Chrome session")
	}
	if open.AppName != "Chrome" {
		t.Errorf("open AppName = %q, want %q", open.AppName, "Chrome")
	}
	if open.Category != activity.CategoryBrowsing {
		t.Errorf("open Category = %q, want %q", open.Category, activity.CategoryBrowsing)
	}
}

func TestCheckActivity_EditorWithoutProductiveTitleIsOther(t *testing.T) {
	f := newFixture(t, false)

	// "Code" alone matches no productive app name; only the full
	// "Visual Studio Code" does.
	f.tick(0, "Code", "file.js")
	f.tick(2*time.Second, "Code", "file.js")
	f.tick(2*time.Second, "Chrome", "GitHub - foo")

	got := f.recorder.recorded()
	if len(got) != 1 {
		t.Fatalf("recorded %d sessions, want 1", len(got))
	}
	if got[0].Category != activity.CategoryOther {
		t.Errorf("Category = %q, want %q", got[0].Category, activity.CategoryOther)
	}
	if got[0].DurationMs != 4000 {
		t.Errorf("DurationMs = %d, want 4000", got[0].DurationMs)
	}
}

func TestCheckActivity_BrowserWithURL(t *testing.T) {
	f := newFixture(t, false)

	f.tick(0, "chrome.exe", "foo - https://github.com/foo/bar")

	open := f.tracker.Current()
	if open == nil {
		t.Fatalf("Current() = nil")
	}
	if open.AppName != "chrome" {
		t.Errorf("AppName = %q, want %q", open.AppName, "chrome")
	}
	if open.URL != "https://github.com/foo/bar" {
		t.Errorf("URL = %q", open.URL)
	}
	if open.Category != activity.CategoryProductive {
		t.Errorf("Category = %q, want %q", open.Category, activity.CategoryProductive)
	}
}

func TestCheckActivity_TitleChangeSameApp(t *testing.T) {
	f := newFixture(t, false)

	f.tick(0, "Code", "a.go")
	f.tick(1500*time.Millisecond, "Code", "b.go")

	got := f.recorder.recorded()
	if len(got) != 1 {
		t.Fatalf("recorded %d sessions, want 1", len(got))
	}
	if got[0].WindowTitle != "a.go" || got[0].DurationMs != 1500 {
		t.Errorf("session = %+v, want a.go for 1500ms", got[0])
	}
}

func TestCheckActivity_EmptyOwnerIsUnknown(t *testing.T) {
	f := newFixture(t, false)

	f.tick(0, "", "Desktop")

	open := f.tracker.Current()
	if open == nil || open.AppName != activity.UnknownApp {
		t.Fatalf("Current() = %+v, want AppName %q", open, activity.UnknownApp)
	}
}

func TestCheckActivity_NilWindowKeepsSession(t *testing.T) {
	f := newFixture(t, false)

	f.tick(0, "Code", "a.go")
	f.clock.Advance(time.Second)
	f.tracker.CheckActivity(context.Background()) // no queued window

	if len(f.recorder.recorded()) != 0 {
		t.Fatalf("nil sample closed the open session")
	}
	if open := f.tracker.Current(); open == nil || open.WindowTitle != "a.go" {
		t.Fatalf("Current() = %+v, want a.go", open)
	}
}

func TestCheckActivity_SamplerFailureKeepsSession(t *testing.T) {
	f := newFixture(t, false)

	f.tick(0, "Code", "a.go")
	f.clock.Advance(2 * time.Second)
	f.sampler.fail(stderrors.New("access denied"))
	f.tracker.CheckActivity(context.Background())
	f.tick(2*time.Second, "Code", "a.go")
	f.tick(2*time.Second, "Slack", "general")

	got := f.recorder.recorded()
	if len(got) != 1 {
		t.Fatalf("recorded %d sessions, want 1", len(got))
	}
	if got[0].DurationMs != 6000 {
		t.Errorf("DurationMs = %d, want 6000 (failure does not split)", got[0].DurationMs)
	}
	if f.observer.failures != 1 {
		t.Errorf("observer failures = %d, want 1", f.observer.failures)
	}
}

func TestCheckActivity_PersistenceFailureContinues(t *testing.T) {
	f := newFixture(t, false)
	f.recorder.err = errors.NewPersistenceFailure("record_session", stderrors.New("disk full"))

	f.tick(0, "Code", "a.go")
	f.tick(time.Second, "Slack", "general")
	f.tick(time.Second, "Code", "a.go")

	if len(f.recorder.recorded()) != 0 {
		t.Fatalf("recorder stored sessions despite error")
	}
	if f.observer.recErrs != 2 {
		t.Errorf("observer record errors = %d, want 2", f.observer.recErrs)
	}
	if open := f.tracker.Current(); open == nil || open.AppName != "Code" {
		t.Fatalf("Current() = %+v, want Code session opened after failure", open)
	}
}

func TestCheckActivity_SessionsMatchChanges(t *testing.T) {
	f := newFixture(t, false)

	seq := []struct {
		owner, title string
		gap          time.Duration
	}{
		{"Code", "a.go", 0},
		{"Code", "a.go", 2 * time.Second},
		{"Slack", "general", 2 * time.Second},
		{"Slack", "general", 2 * time.Second},
		{"Slack", "random", 2 * time.Second},
		{"chrome", "YouTube", 2 * time.Second},
		{"chrome", "YouTube", 2 * time.Second},
		{"Code", "a.go", 2 * time.Second},
	}

	changes := 0
	prev := ""
	var lastStart time.Time
	for i, s := range seq {
		f.tick(s.gap, s.owner, s.title)
		key := s.owner + "\x00" + s.title
		if i > 0 && key != prev {
			changes++
		}
		if key != prev {
			lastStart = f.clock.Now()
		}
		prev = key
	}

	got := f.recorder.recorded()
	if len(got) != changes {
		t.Fatalf("recorded %d sessions, want %d", len(got), changes)
	}

	var sum int64
	for _, s := range got {
		if s.DurationMs < 0 {
			t.Errorf("negative duration: %+v", s)
		}
		sum += s.DurationMs
	}
	want := lastStart.Sub(epoch).Milliseconds()
	if sum != want {
		t.Errorf("sum of durations = %d, want %d", sum, want)
	}

	for i := 1; i < len(got); i++ {
		if got[i].StartTimeMs != got[i-1].StartTimeMs+got[i-1].DurationMs {
			t.Errorf("session %d does not start where %d ended", i, i-1)
		}
	}
}

func TestStart_AlreadyRunning(t *testing.T) {
	f := newFixture(t, false)

	if err := f.tracker.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer f.tracker.Stop()

	err := f.tracker.Start(context.Background())
	if !errors.Is(err, errors.ErrAlreadyRunning) {
		t.Fatalf("second Start() error = %v, want ALREADY_RUNNING", err)
	}
	if !f.tracker.Running() {
		t.Fatalf("Running() = false after Start")
	}
}

func TestStart_PollsSampler(t *testing.T) {
	f := newFixture(t, false)

	if err := f.tracker.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		f.sampler.mu.Lock()
		calls := f.sampler.calls
		f.sampler.mu.Unlock()
		if calls >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("sampler called %d times, want >= 3", calls)
		}
		time.Sleep(5 * time.Millisecond)
	}

	f.tracker.Stop()
	if f.tracker.Running() {
		t.Fatalf("Running() = true after Stop")
	}
}

func TestStop_DiscardsOpenSession(t *testing.T) {
	f := newFixture(t, false)

	if err := f.tracker.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	f.tick(0, "Code", "a.go")
	f.clock.Advance(10 * time.Second)
	f.tracker.Stop()

	if n := len(f.recorder.recorded()); n != 0 {
		t.Fatalf("Stop() recorded %d sessions, want 0", n)
	}
}

func TestStop_FlushOnStop(t *testing.T) {
	f := newFixture(t, true)

	if err := f.tracker.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	f.tick(0, "Code", "a.go")
	f.clock.Advance(10 * time.Second)
	f.tracker.Stop()

	got := f.recorder.recorded()
	if len(got) != 1 {
		t.Fatalf("Stop() recorded %d sessions, want 1", len(got))
	}
	if got[0].DurationMs != 10000 {
		t.Errorf("DurationMs = %d, want 10000", got[0].DurationMs)
	}
	if f.tracker.Current() != nil {
		t.Errorf("Current() != nil after flush")
	}
}

func TestStop_Idle(t *testing.T) {
	f := newFixture(t, false)
	f.tracker.Stop() // must not block or panic
}

func TestStart_AfterStop(t *testing.T) {
	f := newFixture(t, false)

	if err := f.tracker.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	f.tracker.Stop()
	if err := f.tracker.Start(context.Background()); err != nil {
		t.Fatalf("Start() after Stop error = %v", err)
	}
	f.tracker.Stop()
}

func TestFlush_NoOpenSession(t *testing.T) {
	f := newFixture(t, false)
	f.tracker.Flush(context.Background())
	if n := len(f.recorder.recorded()); n != 0 {
		t.Fatalf("Flush() recorded %d sessions, want 0", n)
	}
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	f := newFixture(t, false)
	f.tick(0, "Code", "a.go")

	snap := f.tracker.Current()
	snap.AppName = "mutated"

	if f.tracker.Current().AppName != "Code" {
		t.Fatalf("Current() exposed internal state")
	}
}

func TestCheckActivity_SamplerTimeout(t *testing.T) {
	rec := &memRecorder{}
	obs := &countingObserver{}
	tr := New(Options{
		Sampler: sampler.Func(func(ctx context.Context) (*sampler.Window, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}),
		Recorder:       rec,
		Categorize:     activity.NewCategorizer(activity.DefaultTables()).Categorize,
		SamplerTimeout: 20 * time.Millisecond,
		Observers:      []Observer{obs},
	})

	start := time.Now()
	tr.CheckActivity(context.Background())
	if time.Since(start) > time.Second {
		t.Fatalf("CheckActivity() did not honor sampler timeout")
	}
	if obs.failures != 1 {
		t.Errorf("observer failures = %d, want 1", obs.failures)
	}
	if tr.Current() != nil {
		t.Errorf("Current() != nil after timed-out sample")
	}
}

func TestCheckActivity_SamplerIgnoringContext(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	obs := &countingObserver{}
	tr := New(Options{
		Sampler: sampler.Func(func(ctx context.Context) (*sampler.Window, error) {
			<-release
			return &sampler.Window{Owner: "Code", Title: "late"}, nil
		}),
		Recorder:       &memRecorder{},
		Categorize:     activity.NewCategorizer(activity.DefaultTables()).Categorize,
		SamplerTimeout: 20 * time.Millisecond,
		Observers:      []Observer{obs},
	})

	done := make(chan struct{})
	go func() {
		tr.CheckActivity(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("CheckActivity() blocked past the sampler timeout")
	}
	if obs.failures != 1 {
		t.Errorf("observer failures = %d, want 1", obs.failures)
	}
	if tr.Current() != nil {
		t.Errorf("Current() != nil after abandoned sample")
	}
}

// ctxRecorder refuses writes on a cancelled context, as database/sql does.
type ctxRecorder struct {
	memRecorder
}

func (r *ctxRecorder) RecordSession(ctx context.Context, s *activity.Session) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.memRecorder.RecordSession(ctx, s)
}

func TestStop_InFlightTickPersistsClosedSession(t *testing.T) {
	rec := &ctxRecorder{}
	var tr *Tracker
	var calls atomic.Int32
	inSecond := make(chan struct{})

	tr = New(Options{
		Sampler: sampler.Func(func(ctx context.Context) (*sampler.Window, error) {
			switch calls.Add(1) {
			case 1:
				return &sampler.Window{Owner: "Code", Title: "a.go"}, nil
			case 2:
				close(inSecond)
				for tr.Running() {
					time.Sleep(time.Millisecond)
				}
				return &sampler.Window{Owner: "Slack", Title: "general"}, nil
			default:
				return nil, nil
			}
		}),
		Recorder:       rec,
		Categorize:     activity.NewCategorizer(activity.DefaultTables()).Categorize,
		PollInterval:   10 * time.Millisecond,
		SamplerTimeout: 2 * time.Second,
	})

	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-inSecond:
	case <-time.After(2 * time.Second):
		t.Fatal("second tick never started")
	}
	tr.Stop()

	got := rec.recorded()
	if len(got) != 1 {
		t.Fatalf("recorded %d sessions, want 1", len(got))
	}
	if got[0].AppName != "Code" {
		t.Errorf("AppName = %q, want %q", got[0].AppName, "Code")
	}
}

func TestFlush_CancelledContextStillRecords(t *testing.T) {
	rec := &ctxRecorder{}
	f := newFixture(t, false)
	f.tracker.recorder = rec

	f.tick(0, "Code", "a.go")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.tracker.Flush(ctx)

	if n := len(rec.recorded()); n != 1 {
		t.Fatalf("recorded %d sessions, want 1", n)
	}
}
