package effects

import (
	"math"
	"unicode/utf8"
)

// Cue bundles the display-only directives attached to a scene.
type Cue struct {
	Motion  string
	Overlay string
	Beat    string
}

var MotionVerbs = []string{
	"slow push-in",
	"snap zoom",
	"whip-pan",
	"handheld drift",
	"aerial glide",
	"macro focus pull",
}

var OverlayFragments = []string{
	"Tap to steal this workflow",
	"Watch the glow up",
	"Blueprint inside",
	"Creator mode activated",
	"Realtime capture",
	"Slide to remix",
}

var BeatDynamics = []string{
	"Beat drop",
	"Secondary hook",
	"Moment of proof",
	"Texture switch",
	"Voiceover spike",
	"CTA lift",
}

var CTAPhrases = []string{
	"Save this so you can build yours tonight.",
	"Drop a 🔥 if you want the template pack.",
	"Send this to your future self.",
	"Comment “REEL” and I’ll DM the automation stack.",
	"Follow for the full systems breakdown.",
}

// Pick returns list[|round(seed)| mod len(list)].
// list must not be empty.
func Pick[T any](list []T, seed float64) T {
	if len(list) == 0 {
		panic("effects: Pick from empty list")
	}
	idx := int(math.Abs(math.Round(seed))) % len(list)
	return list[idx]
}

// CueFor derives the motion, overlay and beat of the scene at index.
// line is the raw trimmed script line, copyText is the parsed display text.
// Lengths used as seeds are counted in runes, not UTF-16 units, so a line
// with emoji seeds differently than a browser string length would.
func CueFor(index int, line, copyText string) Cue {
	lineLen := utf8.RuneCountInString(line)
	copyLen := utf8.RuneCountInString(copyText)

	return Cue{
		Motion:  Pick(MotionVerbs, float64(index+copyLen)),
		Overlay: Pick(OverlayFragments, float64(lineLen+index*7)),
		Beat:    Pick(BeatDynamics, float64(index*11+copyLen)),
	}
}
