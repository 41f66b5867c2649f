package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/reelstudio/internal/director"
	"github.com/ivlev/reelstudio/internal/preset"
)

func scenesOf(durations ...float64) []director.Scene {
	out := make([]director.Scene, len(durations))
	for i, d := range durations {
		out[i] = director.Scene{Duration: d, Overlay: "Blueprint inside"}
	}
	return out
}

func TestTotalRuntime(t *testing.T) {
	assert.Equal(t, 0.0, TotalRuntime(nil))
	assert.Equal(t, 3.0+2.0+4.5, TotalRuntime(scenesOf(3.0, 2.0, 4.5)))

	scenes := director.DeriveScenes(director.DefaultScript())
	sum := 0.0
	for _, s := range scenes {
		sum += s.Duration
	}
	assert.Equal(t, sum, TotalRuntime(scenes))
}

func TestViralityScore(t *testing.T) {
	calm, err := preset.FormatByID(preset.CalmCraft)
	require.NoError(t, err)

	tests := []struct {
		name   string
		scenes []director.Scene
		format preset.FormatPreset
		idea   string
		want   int
	}{
		// 54 + 0 + 7.2 + 1.5 + 0 = 62.7
		{"empty scenes, empty idea", nil, calm, "", 63},
		// 54 + 10.4 + 7.2 + 4.5 + 10 = 86.1
		{"four scenes", scenesOf(3, 3, 3, 3), calm, "coffee at dawn", 86},
		// 54 + 12 + 32.8 + ... capped at 99
		{"capped", scenesOf(3, 3, 3, 3, 3), preset.Default(), director.DefaultIdea, 99},
		// overlay filter only counts populated overlays: 54 + 2.6 + 7.2 + 1.5 = 65.3
		{"no overlay", []director.Scene{{Duration: 3}}, calm, "x", 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ViralityScore(tt.scenes, tt.format, tt.idea))
		})
	}
}

func TestViralityScoreRange(t *testing.T) {
	ideas := []string{"", " ", "one", strings.Repeat("word ", 200)}
	lists := [][]director.Scene{nil, scenesOf(2.2), scenesOf(6.4, 6.4, 6.4, 6.4, 6.4, 6.4, 6.4, 6.4, 6.4, 6.4)}

	for _, f := range preset.Formats() {
		for _, idea := range ideas {
			for _, scenes := range lists {
				score := ViralityScore(scenes, f, idea)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 99)
			}
		}
	}
}

func TestGlobalProgress(t *testing.T) {
	scenes := scenesOf(3.0, 2.0, 5.0)

	assert.Equal(t, 0.0, GlobalProgress(nil, 0, 1))
	assert.InDelta(t, 0.0, GlobalProgress(scenes, 0, 0), 1e-9)
	assert.InDelta(t, 15.0, GlobalProgress(scenes, 0, 1.5), 1e-9)
	assert.InDelta(t, 40.0, GlobalProgress(scenes, 1, 1.0), 1e-9)
	// Progress past the scene duration is capped at the duration.
	assert.InDelta(t, 50.0, GlobalProgress(scenes, 1, 9.0), 1e-9)
	// Out of range index is clamped to the last scene.
	assert.InDelta(t, 100.0, GlobalProgress(scenes, 7, 5.0), 1e-9)

	// Runtimes under one second divide by one.
	assert.InDelta(t, 50.0, GlobalProgress(scenesOf(0.5), 0, 0.5), 1e-9)
}

func TestGlobalProgressMonotonicWithinScene(t *testing.T) {
	scenes := director.DeriveScenes(director.DefaultScript())
	for i := range scenes {
		prev := -1.0
		for p := 0.0; p <= scenes[i].Duration; p += 0.12 {
			g := GlobalProgress(scenes, i, p)
			assert.GreaterOrEqual(t, g, prev)
			prev = g
		}
	}
}

func TestStageIndex(t *testing.T) {
	tests := []struct {
		progress float64
		want     int
	}{
		{0, 0},
		{19.9, 0},
		{20, 1},
		{59, 2},
		{99.9, 4},
		{100, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StageIndex(tt.progress, 5), "progress %v", tt.progress)
	}
	assert.Equal(t, 0, StageIndex(50, 0))
}

func TestStageStatuses(t *testing.T) {
	assert.Equal(t,
		[]StageStatus{StageComplete, StageComplete, StageActive, StagePending, StagePending},
		StageStatuses(2, 5))
}

func TestEffectiveTempo(t *testing.T) {
	assert.InDelta(t, 1.42, EffectiveTempo(1.42, 0), 1e-9)
	assert.Equal(t, MaxTempo, EffectiveTempo(1.42, 0.5))
	assert.Equal(t, MinTempo, EffectiveTempo(0.78, -0.3))
	assert.Equal(t, MinTempo, EffectiveTempo(-5, 0))
}

func TestSceneFraction(t *testing.T) {
	s := director.Scene{Duration: 4}
	assert.Equal(t, 0.5, SceneFraction(s, 2))
	assert.Equal(t, 1.0, SceneFraction(s, 9))
	assert.Equal(t, 0.0, SceneFraction(director.Scene{}, 1))
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, ClampIndex(3, 0))
	assert.Equal(t, 2, ClampIndex(5, 3))
	assert.Equal(t, 1, ClampIndex(1, 3))
	assert.Equal(t, 0, ClampIndex(-1, 3))
}
