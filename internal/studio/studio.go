// Package studio holds the state of one interactive session: the chosen
// format, the idea and script text, the tempo trim and the playback engine.
// Everything a presentation layer shows comes from View.
package studio

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/reelstudio/internal/config"
	"github.com/ivlev/reelstudio/internal/director"
	"github.com/ivlev/reelstudio/internal/engine"
	"github.com/ivlev/reelstudio/internal/metrics"
	"github.com/ivlev/reelstudio/internal/preset"
)

// Placeholder copy shown when there is no scene to display.
const (
	placeholderTag  = "Standby"
	placeholderCopy = "Sync a script to start the preview."
)

type Session struct {
	mu         sync.Mutex
	id         string
	format     preset.FormatPreset
	background preset.BackgroundLoop
	idea       string
	script     string
	tempoBoost float64

	engine *engine.Engine
	log    *slog.Logger
}

// StageView is one row of the pipeline checklist.
type StageView struct {
	preset.Stage
	Status metrics.StageStatus
}

// Readout is everything the presentation layer renders, derived on demand.
type Readout struct {
	SessionID  string
	Format     preset.FormatPreset
	Background preset.BackgroundLoop
	Idea       string
	Script     string
	TempoBoost float64
	Tempo      float64

	Scenes        []director.Scene
	ActiveIndex   int
	Current       director.Scene
	SceneProgress float64
	SceneFraction float64
	Playing       bool

	Runtime        float64
	GlobalProgress float64
	RetentionScore int
	ActiveStage    int
	Stages         []StageView
}

// New builds a session from cfg with a fresh id. Extra engine options, such
// as a tick handler, are passed through to the playback engine.
func New(cfg *config.Config, logger *slog.Logger, opts ...engine.Option) (*Session, error) {
	return NewWithID(uuid.NewString(), cfg, logger, opts...)
}

// NewWithID is New with a caller-chosen session id, so the id can be attached
// to the log before the session exists.
func NewWithID(id string, cfg *config.Config, logger *slog.Logger, opts ...engine.Option) (*Session, error) {
	format, err := preset.FormatByID(cfg.Format)
	if err != nil {
		return nil, err
	}
	background, err := preset.BackgroundByID(cfg.Background)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	idea := cfg.Idea
	if idea == "" {
		idea = director.DefaultIdea
	}

	engineOpts := append([]engine.Option{
		engine.WithInterval(cfg.TickInterval),
		engine.WithLogger(logger),
	}, opts...)

	s := &Session{
		id:         id,
		format:     format,
		background: background,
		idea:       idea,
		tempoBoost: snap(cfg.TempoBoost, config.TempoBoostStep, config.MinTempoBoost, config.MaxTempoBoost),
		engine:     engine.New(engineOpts...),
		log:        logger,
	}
	s.script = director.GenerateScript(s.idea, s.format)
	s.engine.Load(director.DeriveScenes(s.script))
	s.engine.SetTempo(metrics.EffectiveTempo(s.format.Tempo, s.tempoBoost))

	return s, nil
}

func (s *Session) ID() string { return s.id }

// SetIdea changes the idea prompt. Scenes are rebuilt only on Regenerate.
func (s *Session) SetIdea(idea string) {
	s.mu.Lock()
	s.idea = idea
	s.mu.Unlock()
}

// SetScript changes the script text. Scenes are rebuilt only on Sync.
func (s *Session) SetScript(script string) {
	s.mu.Lock()
	s.script = script
	s.mu.Unlock()
}

// Sync re-derives the scenes from the current script and rewinds playback.
func (s *Session) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
}

func (s *Session) syncLocked() {
	scenes := director.DeriveScenes(s.script)
	s.engine.Load(scenes)
	s.log.Info("scenes synced", "count", len(scenes), "format", s.format.ID)
}

// Regenerate rebuilds the script from the idea and format, then syncs.
func (s *Session) Regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerateLocked()
}

func (s *Session) regenerateLocked() {
	s.script = director.GenerateScript(s.idea, s.format)
	s.syncLocked()
}

// SelectFormat switches the preset, regenerates the script and applies the new tempo.
func (s *Session) SelectFormat(id string) error {
	format, err := preset.FormatByID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.format = format
	s.engine.SetTempo(metrics.EffectiveTempo(s.format.Tempo, s.tempoBoost))
	s.regenerateLocked()
	return nil
}

// CycleFormat selects the preset after the current one.
func (s *Session) CycleFormat() {
	s.mu.Lock()
	next := preset.NextFormat(s.format.ID).ID
	s.mu.Unlock()

	// Ids from the preset table always resolve.
	_ = s.SelectFormat(next)
}

// SelectBackground switches the cosmetic background loop.
func (s *Session) SelectBackground(id string) error {
	bg, err := preset.BackgroundByID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.background = bg
	s.mu.Unlock()
	return nil
}

func (s *Session) CycleBackground() {
	s.mu.Lock()
	s.background = preset.NextBackground(s.background.ID)
	s.mu.Unlock()
}

// SetTempoBoost sets the user trim, clamped and snapped to the slider step.
// Playback position is kept.
func (s *Session) SetTempoBoost(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tempoBoost = snap(v, config.TempoBoostStep, config.MinTempoBoost, config.MaxTempoBoost)
	s.engine.SetTempo(metrics.EffectiveTempo(s.format.Tempo, s.tempoBoost))
}

// NudgeTempo moves the trim by steps slider notches.
func (s *Session) NudgeTempo(steps int) {
	s.mu.Lock()
	v := s.tempoBoost + float64(steps)*config.TempoBoostStep
	s.mu.Unlock()
	s.SetTempoBoost(v)
}

// EditSceneCopy patches the copy of scene i without touching the others.
func (s *Session) EditSceneCopy(i int, copyText string) error {
	ok := s.engine.UpdateScene(i, func(sc *director.Scene) { sc.Copy = copyText })
	if !ok {
		return fmt.Errorf("scene %d out of range", i)
	}
	return nil
}

// EditSceneDuration patches the duration of scene i, clamped to the slider range.
func (s *Session) EditSceneDuration(i int, d float64) error {
	d = snap(d, config.SceneEditStep, config.MinSceneEdit, config.MaxSceneEdit)
	ok := s.engine.UpdateScene(i, func(sc *director.Scene) { sc.Duration = d })
	if !ok {
		return fmt.Errorf("scene %d out of range", i)
	}
	return nil
}

// NudgeSceneDuration moves the duration of scene i by steps slider notches.
func (s *Session) NudgeSceneDuration(i, steps int) error {
	pb := s.engine.Snapshot()
	if i < 0 || i >= len(pb.Scenes) {
		return fmt.Errorf("scene %d out of range", i)
	}
	return s.EditSceneDuration(i, pb.Scenes[i].Duration+float64(steps)*config.SceneEditStep)
}

func (s *Session) Play(ctx context.Context) { s.engine.Play(ctx) }

func (s *Session) Pause() { s.engine.Pause() }

// TogglePlay flips between playing and paused and reports the new state.
func (s *Session) TogglePlay(ctx context.Context) bool {
	playing := s.engine.Toggle(ctx)
	s.log.Info("playback toggled", "playing", playing)
	return playing
}

// Close stops the playback timer.
func (s *Session) Close() error {
	return s.engine.Close()
}

// View derives the current readout.
func (s *Session) View() Readout {
	s.mu.Lock()
	r := Readout{
		SessionID:  s.id,
		Format:     s.format,
		Background: s.background,
		Idea:       s.idea,
		Script:     s.script,
		TempoBoost: s.tempoBoost,
	}
	// Taken under mu so the scenes always belong to the format above.
	pb := s.engine.Snapshot()
	s.mu.Unlock()

	r.Tempo = pb.Tempo
	r.Scenes = pb.Scenes
	r.ActiveIndex = pb.ActiveIndex
	r.SceneProgress = pb.SceneProgress
	r.Playing = pb.Playing

	if len(pb.Scenes) > 0 {
		r.Current = pb.Scenes[pb.ActiveIndex]
		r.SceneFraction = metrics.SceneFraction(r.Current, pb.SceneProgress)
	} else {
		r.Current = director.Scene{Tag: placeholderTag, Copy: placeholderCopy}
	}

	r.Runtime = metrics.TotalRuntime(pb.Scenes)
	r.GlobalProgress = metrics.GlobalProgress(pb.Scenes, pb.ActiveIndex, pb.SceneProgress)
	r.RetentionScore = metrics.ViralityScore(pb.Scenes, r.Format, r.Idea)

	stages := preset.Stages()
	r.ActiveStage = metrics.StageIndex(r.GlobalProgress, len(stages))
	statuses := metrics.StageStatuses(r.ActiveStage, len(stages))
	r.Stages = make([]StageView, len(stages))
	for i, st := range stages {
		r.Stages[i] = StageView{Stage: st, Status: statuses[i]}
	}

	return r
}

// Blueprint captures the session for export.
func (s *Session) Blueprint() *director.Blueprint {
	r := s.View()
	return &director.Blueprint{
		Version:        director.BlueprintVersion,
		SessionID:      r.SessionID,
		CreatedAt:      time.Now().UTC(),
		Format:         r.Format.ID,
		Background:     r.Background.ID,
		Idea:           r.Idea,
		Script:         r.Script,
		TempoBoost:     r.TempoBoost,
		Scenes:         r.Scenes,
		Runtime:        r.Runtime,
		RetentionScore: r.RetentionScore,
	}
}

// Restore loads a previously exported blueprint. Edited scenes in the
// blueprint are kept; a blueprint without scenes is re-derived from its script.
func (s *Session) Restore(bp *director.Blueprint) error {
	format, err := preset.FormatByID(bp.Format)
	if err != nil {
		return err
	}
	bg, err := preset.BackgroundByID(bp.Background)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.format = format
	s.background = bg
	s.idea = bp.Idea
	s.script = bp.Script
	s.tempoBoost = snap(bp.TempoBoost, config.TempoBoostStep, config.MinTempoBoost, config.MaxTempoBoost)
	s.engine.SetTempo(metrics.EffectiveTempo(s.format.Tempo, s.tempoBoost))

	if len(bp.Scenes) > 0 {
		scenes := make([]director.Scene, len(bp.Scenes))
		copy(scenes, bp.Scenes)
		for i := range scenes {
			// Hand-edited files may carry durations the sliders cannot produce.
			scenes[i].Duration = math.Min(config.MaxSceneEdit, math.Max(config.MinSceneEdit, scenes[i].Duration))
		}
		s.engine.Load(scenes)
	} else {
		s.syncLocked()
	}
	s.log.Info("blueprint restored", "source_session", bp.SessionID, "scenes", len(bp.Scenes))
	return nil
}

// snap rounds v to the nearest step and clamps it to [lo, hi].
func snap(v, step, lo, hi float64) float64 {
	v = math.Round(v/step) * step
	return math.Min(hi, math.Max(lo, v))
}
