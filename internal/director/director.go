package director

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ivlev/reelstudio/internal/effects"
	"github.com/ivlev/reelstudio/internal/preset"
)

// DefaultIdea replaces an empty idea prompt.
const DefaultIdea = "Turn daily coffee rituals into cinematic reels that feel handcrafted and real-time."

// Scene duration bounds in seconds
const (
	MinSceneDuration = 2.2
	MaxSceneDuration = 6.4
)

const (
	hookSuffix = ". You are inside the workflow as it happens."

	lineSetup   = "Scene 2: Fast cuts show the raw capture, time-stamped overlays validate it's real-time."
	lineProof   = "Scene 3: Highlight the transformation with close-up texture shots and a voiceover spike."
	lineProcess = "Scene 4: Split-screen reveals automation beats: script intelligence, beat layout, asset sync."

	lineCalmMacro   = "Scene 2: Macro shots linger while captions type out the micro-steps."
	lineCalmOverlay = "Scene 3: Overlay the before/after with a gentle camera drift."

	lineStoryOutline = "Scene 2: Outline the problem with quick on-screen text and a subtle zoom."
)

var hookPrefix = regexp.MustCompile(`(?i)^Hook:\s*`)

// GenerateScript expands an idea into a newline separated script using the
// template layout of the given format.
func GenerateScript(idea string, format preset.FormatPreset) string {
	cleaned := strings.TrimSpace(idea)
	if cleaned == "" {
		cleaned = DefaultIdea
	}

	hookBody := hookPrefix.ReplaceAllString(cleaned, "")
	hookBody = strings.TrimSuffix(hookBody, ".")
	hook := "Hook: " + hookBody + hookSuffix

	cta := "CTA: " + effects.Pick(effects.CTAPhrases, float64(utf8.RuneCountInString(cleaned)))

	var lines []string
	switch format.ID {
	case preset.CalmCraft:
		lines = []string{
			strings.Replace(hook, "Fast cuts", "Soft gradients", 1),
			lineCalmMacro,
			lineCalmOverlay,
			cta,
		}
	case preset.StoryBuilder:
		lines = []string{hook, lineStoryOutline, lineProof, lineProcess, cta}
	default:
		lines = []string{hook, lineSetup, lineProof, lineProcess, cta}
	}

	return strings.Join(lines, "\n")
}

// DefaultScript is the script of DefaultIdea in the default format.
func DefaultScript() string {
	return GenerateScript(DefaultIdea, preset.Default())
}

// ParseLines turns every non-blank line of script into a Scene.
// The boolean is false when the script has no usable lines.
func ParseLines(script string) ([]Scene, bool) {
	var lines []string
	for _, raw := range strings.Split(script, "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, false
	}

	scenes := make([]Scene, 0, len(lines))
	for i, line := range lines {
		scenes = append(scenes, parseLine(i, line))
	}
	return scenes, true
}

// DeriveScenes parses script and falls back to the default script when it
// holds no usable lines. The result is never empty.
func DeriveScenes(script string) []Scene {
	if scenes, ok := ParseLines(script); ok {
		return scenes
	}
	scenes, ok := ParseLines(DefaultScript())
	if !ok {
		panic("director: default script produced no scenes")
	}
	return scenes
}

func parseLine(index int, line string) Scene {
	tag, rest, found := strings.Cut(line, ":")

	copyText := strings.TrimSpace(rest)
	if copyText == "" {
		copyText = line
	}

	tag = strings.TrimSpace(tag)
	if !found || tag == "" {
		tag = fmt.Sprintf("Scene %d", index+1)
	}

	cue := effects.CueFor(index, line, copyText)

	return Scene{
		ID:       fmt.Sprintf("scene-%d-%d", index, utf8.RuneCountInString(line)),
		Tag:      tag,
		Copy:     copyText,
		Duration: SceneDuration(copyText),
		Motion:   cue.Motion,
		Overlay:  cue.Overlay,
		Beat:     cue.Beat,
	}
}

// SceneDuration scales with the length of the copy, clamped to the scene bounds.
// Length is the rune count: an emoji counts once.
func SceneDuration(copyText string) float64 {
	d := 2.6 + float64(utf8.RuneCountInString(copyText))/32
	return clamp(d, MinSceneDuration, MaxSceneDuration)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
