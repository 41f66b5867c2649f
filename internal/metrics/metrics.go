// Package metrics derives the display readouts of a reel: runtime, retention
// score, playback progress and the pipeline stage checklist. Every function is
// pure and cheap, so callers recompute on each read instead of caching.
package metrics

import (
	"math"
	"strings"

	"github.com/ivlev/reelstudio/internal/director"
	"github.com/ivlev/reelstudio/internal/preset"
)

// Effective tempo bounds
const (
	MinTempo = 0.6
	MaxTempo = 1.8
)

// StageStatus is the checklist state of one pipeline stage.
type StageStatus string

const (
	StageComplete StageStatus = "complete"
	StageActive   StageStatus = "active"
	StagePending  StageStatus = "pending"
)

// TotalRuntime is the sum of all scene durations in seconds.
func TotalRuntime(scenes []director.Scene) float64 {
	total := 0.0
	for _, s := range scenes {
		total += s.Duration
	}
	return total
}

// ViralityScore is a synthetic retention score in [0, 99].
func ViralityScore(scenes []director.Scene, format preset.FormatPreset, idea string) int {
	sceneFactor := math.Min(12, float64(len(scenes))*2.6)
	tempoFactor := (format.Tempo - 0.6) * 40
	ideaFactor := math.Min(25, float64(wordCount(idea))*1.5)

	withOverlay := 0
	for _, s := range scenes {
		if len(s.Overlay) > 0 {
			withOverlay++
		}
	}
	overlayFactor := math.Min(20, float64(withOverlay)*2.5)

	score := int(math.Floor(54 + sceneFactor + tempoFactor + ideaFactor + overlayFactor + 0.5))
	if score > 99 {
		score = 99
	}
	if score < 0 {
		score = 0
	}
	return score
}

// wordCount splits on whitespace runs. An empty idea still counts as one word.
func wordCount(idea string) int {
	n := len(strings.Fields(idea))
	if n == 0 {
		return 1
	}
	return n
}

// GlobalProgress is the percentage of the whole reel already played.
func GlobalProgress(scenes []director.Scene, activeIndex int, sceneProgress float64) float64 {
	if len(scenes) == 0 {
		return 0
	}
	activeIndex = ClampIndex(activeIndex, len(scenes))

	completed := TotalRuntime(scenes[:activeIndex])
	active := math.Min(sceneProgress, scenes[activeIndex].Duration)
	total := math.Max(TotalRuntime(scenes), 1)

	return math.Min(100, (completed+active)/total*100)
}

// SceneFraction is the share of the active scene already played, in [0, 1].
func SceneFraction(scene director.Scene, sceneProgress float64) float64 {
	if scene.Duration <= 0 {
		return 0
	}
	return clamp(sceneProgress/scene.Duration, 0, 1)
}

// StageIndex maps a global progress percentage onto one of stageCount stages.
func StageIndex(globalProgress float64, stageCount int) int {
	if stageCount <= 0 {
		return 0
	}
	idx := int(math.Floor(globalProgress / 100 * float64(stageCount)))
	if idx > stageCount-1 {
		idx = stageCount - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// StageStatuses lists the checklist state for count stages around active.
func StageStatuses(active, count int) []StageStatus {
	out := make([]StageStatus, count)
	for i := range out {
		switch {
		case i < active:
			out[i] = StageComplete
		case i == active:
			out[i] = StageActive
		default:
			out[i] = StagePending
		}
	}
	return out
}

// EffectiveTempo combines the preset tempo and the user trim.
func EffectiveTempo(base, boost float64) float64 {
	return clamp(base+boost, MinTempo, MaxTempo)
}

// ClampIndex keeps i inside a list of length n; 0 for an empty list.
func ClampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
