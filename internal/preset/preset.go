package preset

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset is returned when a lookup id matches no fixed preset.
var ErrUnknownPreset = errors.New("unknown preset")

// FormatPreset fixes the base tempo and the template layout of a reel.
type FormatPreset struct {
	ID          string  `yaml:"id" json:"id"`
	Label       string  `yaml:"label" json:"label"`
	Description string  `yaml:"description" json:"description"`
	BeatCount   int     `yaml:"beat_count" json:"beat_count"` // informational only
	Tempo       float64 `yaml:"tempo" json:"tempo"`
}

// BackgroundLoop is a cosmetic backdrop for the preview.
type BackgroundLoop struct {
	ID       string `yaml:"id" json:"id"`
	Label    string `yaml:"label" json:"label"`
	VideoURL string `yaml:"video_url" json:"video_url"`
	Accent   string `yaml:"accent" json:"accent"`
	Mood     string `yaml:"mood" json:"mood"`
}

// Stage is one step of the automation pipeline checklist.
type Stage struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
}

const (
	FastHype     = "fast-hype"
	StoryBuilder = "story-builder"
	CalmCraft    = "calm-craft"
)

var formats = []FormatPreset{
	{
		ID:          FastHype,
		Label:       "45s Kinetic Launch",
		Description: "Explosive hook with staccato pacing. Perfect for creator drops.",
		BeatCount:   6,
		Tempo:       1.42,
	},
	{
		ID:          StoryBuilder,
		Label:       "60s Story Builder",
		Description: "Narrative arc that builds towards a cinematic payoff.",
		BeatCount:   5,
		Tempo:       1.12,
	},
	{
		ID:          CalmCraft,
		Label:       "30s Calm Craft",
		Description: "Slow burn craftsmanship with pronounced overlays.",
		BeatCount:   4,
		Tempo:       0.78,
	},
}

var backgrounds = []BackgroundLoop{
	{
		ID:       "neon-lab",
		Label:    "Neon Creator Lab",
		VideoURL: "https://samplelib.com/lib/preview/mp4/sample-10s.mp4",
		Accent:   "fuchsia/purple/sky",
		Mood:     "Futuristic, high-energy reels workspace",
	},
	{
		ID:       "city-glide",
		Label:    "City Glide B-Roll",
		VideoURL: "https://samplelib.com/lib/preview/mp4/sample-15s.mp4",
		Accent:   "emerald/teal/cyan",
		Mood:     "Lifestyle vignettes with smooth drone motion",
	},
	{
		ID:       "studio-soft",
		Label:    "Soft Studio Glow",
		VideoURL: "https://samplelib.com/lib/preview/mp4/sample-5s.mp4",
		Accent:   "orange/amber/pink",
		Mood:     "Warm, human-scale creator footage",
	},
}

var stages = []Stage{
	{ID: "script-intel", Label: "Script Intelligence", Description: "Hooks, pacing, and CTA auto-arranged for retention."},
	{ID: "beat-layout", Label: "Beat Layout", Description: "Beat matching, micro-timing, and motion directives."},
	{ID: "asset-sync", Label: "Asset Sync", Description: "B-roll pairings, overlay text, and motion cues."},
	{ID: "voice-fuse", Label: "Voice Fuse", Description: "Voiceover cadence lined up to beat map."},
	{ID: "publish", Label: "Publish Polish", Description: "Adaptive export for Reels, TikTok, YT Shorts."},
}

// Formats returns the format presets in display order.
func Formats() []FormatPreset {
	out := make([]FormatPreset, len(formats))
	copy(out, formats)
	return out
}

// Default returns the preset the studio opens with.
func Default() FormatPreset {
	return formats[0]
}

// Backgrounds returns the background loops in display order.
func Backgrounds() []BackgroundLoop {
	out := make([]BackgroundLoop, len(backgrounds))
	copy(out, backgrounds)
	return out
}

// DefaultBackground returns the first background loop.
func DefaultBackground() BackgroundLoop {
	return backgrounds[0]
}

// Stages returns the pipeline stages in order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// FormatByID looks up a format preset. An empty id selects the default.
func FormatByID(id string) (FormatPreset, error) {
	if id == "" {
		return Default(), nil
	}
	for _, f := range formats {
		if f.ID == id {
			return f, nil
		}
	}
	return FormatPreset{}, fmt.Errorf("format %q: %w", id, ErrUnknownPreset)
}

// BackgroundByID looks up a background loop. An empty id selects the default.
func BackgroundByID(id string) (BackgroundLoop, error) {
	if id == "" {
		return DefaultBackground(), nil
	}
	for _, b := range backgrounds {
		if b.ID == id {
			return b, nil
		}
	}
	return BackgroundLoop{}, fmt.Errorf("background %q: %w", id, ErrUnknownPreset)
}

// NextFormat returns the preset after id, wrapping around.
func NextFormat(id string) FormatPreset {
	for i, f := range formats {
		if f.ID == id {
			return formats[(i+1)%len(formats)]
		}
	}
	return Default()
}

// NextBackground returns the loop after id, wrapping around.
func NextBackground(id string) BackgroundLoop {
	for i, b := range backgrounds {
		if b.ID == id {
			return backgrounds[(i+1)%len(backgrounds)]
		}
	}
	return DefaultBackground()
}
