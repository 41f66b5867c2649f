// Package engine plays a scene list back on a fixed timer.
//
// The Engine owns all playback state behind a single mutex. The timer
// goroutine and every input call go through that mutex, so a tick always sees
// the latest scene list, index and tempo.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ivlev/reelstudio/internal/director"
	"github.com/ivlev/reelstudio/internal/metrics"
)

const (
	// DefaultInterval is the wall-clock period between ticks.
	DefaultInterval = 120 * time.Millisecond
	// StepSeconds is the scene time advanced per tick at tempo 1.0.
	StepSeconds = 0.12
)

// Snapshot is a copy of the playback state.
type Snapshot struct {
	Scenes        []director.Scene
	ActiveIndex   int
	SceneProgress float64
	Tempo         float64
	Playing       bool
	// Advanced is true when the tick that produced this snapshot moved to the next scene.
	Advanced bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval overrides the tick period.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithTickHandler registers a callback run after every timer tick.
// It is called without the engine lock held.
func WithTickHandler(fn func(Snapshot)) Option {
	return func(e *Engine) { e.onTick = fn }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

type Engine struct {
	mu       sync.Mutex
	scenes   []director.Scene
	index    int
	progress float64
	tempo    float64
	playing  bool

	interval time.Duration
	onTick   func(Snapshot)
	log      *slog.Logger

	// ticker lifetime, guarded by mu
	cancel context.CancelFunc
	done   chan struct{}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		tempo:    1.0,
		interval: DefaultInterval,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the scene list and rewinds to the first scene.
func (e *Engine) Load(scenes []director.Scene) {
	cp := make([]director.Scene, len(scenes))
	copy(cp, scenes)

	e.mu.Lock()
	e.scenes = cp
	e.index = 0
	e.progress = 0
	e.mu.Unlock()

	e.log.Debug("scenes loaded", "count", len(cp))
}

// SetTempo sets the effective tempo. Progress is kept.
func (e *Engine) SetTempo(t float64) {
	e.mu.Lock()
	e.tempo = clampTempo(t)
	e.mu.Unlock()
}

// UpdateScene patches scene i in place. It reports false for an invalid index.
func (e *Engine) UpdateScene(i int, fn func(*director.Scene)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i < 0 || i >= len(e.scenes) {
		return false
	}
	fn(&e.scenes[i])
	return true
}

// Tick advances playback by one step and returns the resulting state.
// At most one scene boundary is crossed per tick.
func (e *Engine) Tick() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	advanced := e.stepLocked()
	s := e.snapshotLocked()
	s.Advanced = advanced
	return s
}

func (e *Engine) stepLocked() bool {
	if len(e.scenes) == 0 {
		return false
	}
	e.index = metrics.ClampIndex(e.index, len(e.scenes))
	active := e.scenes[e.index]

	updated := e.progress + StepSeconds*e.tempo
	if updated >= active.Duration {
		e.index = (e.index + 1) % len(e.scenes)
		e.progress = 0
		return true
	}
	e.progress = updated
	return false
}

// Play starts the ticker. It is a no-op when already playing.
// The ticker stops on Pause, Close or when ctx is done.
func (e *Engine) Play(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing {
		return
	}

	tctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.playing = true

	go e.run(tctx, done)
	e.log.Debug("playback started", "interval", e.interval)
}

func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.mu.Lock()
			// Only clear state that still belongs to this run.
			if e.done == done {
				e.playing = false
				e.cancel = nil
				e.done = nil
			}
			e.mu.Unlock()
			return
		case <-ticker.C:
			e.mu.Lock()
			// Pause may have won the race for the lock.
			if ctx.Err() != nil {
				e.mu.Unlock()
				continue
			}
			advanced := e.stepLocked()
			s := e.snapshotLocked()
			s.Advanced = advanced
			e.mu.Unlock()

			if advanced {
				e.log.Debug("scene advanced", "index", s.ActiveIndex)
			}
			if e.onTick != nil {
				e.onTick(s)
			}
		}
	}
}

// Pause stops the ticker and waits until the timer goroutine is gone, so no
// tick lands after Pause returns. Position is kept for the next Play.
func (e *Engine) Pause() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	if cancel != nil {
		// Cancelled under the lock: a tick waiting for mu will see ctx.Err.
		cancel()
	}
	e.cancel = nil
	e.done = nil
	e.playing = false
	e.mu.Unlock()

	if done == nil {
		return
	}
	<-done
	e.log.Debug("playback paused")
}

// Toggle switches between playing and paused and reports the new state.
func (e *Engine) Toggle(ctx context.Context) bool {
	if e.Playing() {
		e.Pause()
		return false
	}
	e.Play(ctx)
	return true
}

// Close releases the ticker. The engine may be played again afterwards.
func (e *Engine) Close() error {
	e.Pause()
	return nil
}

func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// ActiveIndex is always a valid index into the scene list, or 0 when empty.
func (e *Engine) ActiveIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return metrics.ClampIndex(e.index, len(e.scenes))
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	scenes := make([]director.Scene, len(e.scenes))
	copy(scenes, e.scenes)
	return Snapshot{
		Scenes:        scenes,
		ActiveIndex:   metrics.ClampIndex(e.index, len(e.scenes)),
		SceneProgress: e.progress,
		Tempo:         e.tempo,
		Playing:       e.playing,
	}
}

func clampTempo(t float64) float64 {
	return metrics.EffectiveTempo(t, 0)
}
