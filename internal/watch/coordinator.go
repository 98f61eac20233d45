// Package watch drives the incremental rebuild loop: filesystem changes are
// debounced, at most one rebuild is in flight at any instant, and a change
// arriving mid-rebuild triggers exactly one follow-up pass so the final
// artifact always reflects the most recent source state.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/inkweld/inkweld/internal/build"
	"github.com/inkweld/inkweld/internal/logfields"
	"github.com/inkweld/inkweld/internal/metrics"
)

// State is the coordinator's position in the rebuild lifecycle.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateRebuilding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncing:
		return "debouncing"
	case StateRebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

// Builder is the re-entrant build pass the coordinator drives. *build.Builder
// satisfies it.
type Builder interface {
	Run(ctx context.Context) (*build.Result, error)
	ProjectRoot() string
}

// BuilderFactory creates a builder for a project root. The coordinator uses it
// on source switches, when the watched project changes entirely.
type BuilderFactory func(projectRoot string) Builder

// Coordinator is the watch-state machine. All transitions funnel through
// onChange and onRebuildDone; the mutex guards the only cross-callback shared
// mutable state (current state, pending change set, debounce timer).
type Coordinator struct {
	mu       sync.Mutex
	state    State
	pending  map[string]struct{}
	timer    *time.Timer
	inFlight sync.WaitGroup

	debounce   time.Duration
	newBuilder BuilderFactory
	builder    Builder
	recorder   metrics.Recorder
	exclude    []string

	// onResult receives every successful build result. Failures are logged
	// and the previously delivered artifact stays in place.
	onResult func(*build.Result)

	lastGood *build.Result

	ctx context.Context
}

// Options configures a Coordinator.
type Options struct {
	Debounce time.Duration
	Recorder metrics.Recorder
	OnResult func(*build.Result)

	// ExcludePaths are never watched and never trigger rebuilds. The build
	// artifact lives here when it is written inside the project root;
	// without the exclusion every rebuild's own write would re-enter the
	// change loop.
	ExcludePaths []string
}

// NewCoordinator creates a coordinator for the given project root.
func NewCoordinator(newBuilder BuilderFactory, projectRoot string, opts Options) *Coordinator {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	exclude := make([]string, 0, len(opts.ExcludePaths))
	for _, p := range opts.ExcludePaths {
		exclude = append(exclude, filepath.Clean(p))
	}
	return &Coordinator{
		state:      StateIdle,
		pending:    make(map[string]struct{}),
		debounce:   opts.Debounce,
		newBuilder: newBuilder,
		builder:    newBuilder(projectRoot),
		recorder:   opts.Recorder,
		onResult:   opts.OnResult,
		exclude:    exclude,
	}
}

// StateSnapshot returns the current state, for status reporting and tests.
func (c *Coordinator) StateSnapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastGood returns the most recent successful build result, if any.
func (c *Coordinator) LastGood() *build.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastGood
}

// onChange is the single entry point for filesystem change events.
// In Idle or Debouncing it (re)starts the debounce window; in Rebuilding the
// change is recorded, not executed, and produces exactly one follow-up
// rebuild after the in-flight pass completes.
func (c *Coordinator) onChange(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recorder.IncWatchEvent("change")
	c.pending[path] = struct{}{}

	switch c.state {
	case StateRebuilding:
		c.recorder.IncWatchEvent("queued")
	case StateIdle, StateDebouncing:
		c.state = StateDebouncing
		c.restartTimerLocked()
	}
}

// restartTimerLocked (re)arms the debounce window. Caller holds c.mu.
func (c *Coordinator) restartTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.recorder.IncWatchEvent("debounce")
	c.timer = time.AfterFunc(c.debounce, c.onDebounceExpired)
}

// onDebounceExpired moves Debouncing to Rebuilding and starts one build pass.
func (c *Coordinator) onDebounceExpired() {
	c.mu.Lock()
	if c.state != StateDebouncing {
		c.mu.Unlock()
		return
	}
	c.state = StateRebuilding
	changed := len(c.pending)
	c.pending = make(map[string]struct{})
	ctx := c.ctx
	c.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	c.inFlight.Add(1)
	go func() {
		defer c.inFlight.Done()
		slog.Info("change detected; rebuilding document", logfields.ChangedPaths(changed))
		c.runBuild(ctx)
		c.onRebuildDone()
	}()
}

// runBuild executes one pass. A failure during a watched rebuild is caught
// and logged; the previously assembled artifact stays in place.
func (c *Coordinator) runBuild(ctx context.Context) {
	c.recorder.IncWatchEvent("rebuild")

	c.mu.Lock()
	builder := c.builder
	c.mu.Unlock()

	result, err := builder.Run(ctx)
	if err != nil {
		slog.Warn("rebuild failed; keeping previous artifact", logfields.Error(err))
		return
	}

	c.mu.Lock()
	c.lastGood = result
	c.mu.Unlock()

	if c.onResult != nil {
		c.onResult(result)
	}
}

// onRebuildDone is the single completion entry point: with queued changes the
// coordinator re-enters Debouncing exactly once, otherwise it returns to Idle.
func (c *Coordinator) onRebuildDone() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) > 0 {
		c.state = StateDebouncing
		c.restartTimerLocked()
		return
	}
	c.state = StateIdle
}

// cancelPendingLocked stops any armed debounce timer and drops queued
// changes. Caller holds c.mu.
func (c *Coordinator) cancelPendingLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = make(map[string]struct{})
	if c.state == StateDebouncing {
		c.state = StateIdle
	}
}

// SwitchSource changes which project is being watched: pending debounce and
// queued changes are cancelled, any in-flight rebuild runs to completion
// (never preempted, preventing a torn artifact), then one synchronous
// from-scratch pass runs before the caller re-arms the watch. This is the
// only path allowed to block without a prior debounce.
func (c *Coordinator) SwitchSource(ctx context.Context, projectRoot string) error {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.mu.Unlock()

	c.inFlight.Wait()

	c.mu.Lock()
	builder := c.newBuilder(projectRoot)
	c.builder = builder
	// A debounce armed between the cancel above and this flip must not fire
	// against the old source.
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state = StateRebuilding
	c.mu.Unlock()

	result, err := builder.Run(ctx)

	c.mu.Lock()
	if err == nil {
		c.lastGood = result
	}
	c.mu.Unlock()

	// Completion goes through the same exit as asynchronous rebuilds so a
	// change recorded during the switch pass still gets its follow-up.
	c.onRebuildDone()

	if err != nil {
		return err
	}
	if c.onResult != nil {
		c.onResult(result)
	}
	return nil
}
