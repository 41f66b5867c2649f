package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/reelstudio/internal/director"
	"github.com/ivlev/reelstudio/internal/system"
)

var (
	cardBackground = color.RGBA{R: 0x0f, G: 0x0b, B: 0x1e, A: 0xff}
	cardAccent     = color.RGBA{R: 0xd9, G: 0x46, B: 0xef, A: 0xff}
	cardText       = color.RGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	cardMuted      = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// Glyph metrics of basicfont.Face7x13
const (
	glyphW = 7
	glyphH = 13
)

// RenderCard draws a storyboard still for scene number index of total.
// The image comes from the shared pool; return it with system.PutImage once
// it has been encoded.
func RenderCard(scene director.Scene, index, total, w, h int) *image.RGBA {
	img := system.GetImage(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	// Progress band across the top: how far into the reel this scene sits.
	band := h / 64
	if band < 4 {
		band = 4
	}
	if total > 0 {
		bw := w * (index + 1) / total
		draw.Draw(img, image.Rect(0, 0, bw, band), image.NewUniform(cardAccent), image.Point{}, draw.Src)
	}

	// Text is drawn at 1x onto a small canvas and scaled up, basicfont is tiny on a 720p frame.
	scale := w / 240
	if scale < 1 {
		scale = 1
	}
	margin := 2 * glyphW
	cols := (w/scale - 2*margin) / glyphW
	if cols < 8 {
		cols = 8
	}

	var lines []textLine
	lines = append(lines,
		textLine{fmt.Sprintf("%02d/%02d  %.1fs", index+1, total, scene.Duration), cardMuted},
		textLine{strings.ToUpper(scene.Tag), cardAccent},
		textLine{"", cardText},
	)
	for _, l := range wrapText(scene.Copy, cols) {
		lines = append(lines, textLine{l, cardText})
	}
	lines = append(lines, textLine{"", cardText})
	for _, cue := range []struct{ label, value string }{
		{"motion", scene.Motion},
		{"overlay", scene.Overlay},
		{"beat", scene.Beat},
	} {
		if cue.value == "" {
			continue
		}
		for _, l := range wrapText(cue.label+": "+cue.value, cols) {
			lines = append(lines, textLine{l, cardMuted})
		}
	}

	small := image.NewRGBA(image.Rect(0, 0, w/scale, (h-band)/scale))
	draw.Draw(small, small.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)
	y := 3 * glyphH
	for _, l := range lines {
		if y > small.Bounds().Dy() {
			break
		}
		drawString(small, margin, y, l.text, l.col)
		y += glyphH + 4
	}

	dst := image.Rect(0, band, small.Bounds().Dx()*scale, band+small.Bounds().Dy()*scale)
	xdraw.NearestNeighbor.Scale(img, dst, small, small.Bounds(), draw.Over, nil)

	return img
}

type textLine struct {
	text string
	col  color.Color
}

func drawString(dst draw.Image, x, y int, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// wrapText breaks s on whitespace into lines of at most cols runes.
// Words longer than cols are cut.
func wrapText(s string, cols int) []string {
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		wr := []rune(word)
		for len(wr) > cols {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(wr[:cols]))
			wr = wr[cols:]
		}
		switch {
		case len(cur) == 0:
			cur = wr
		case len(cur)+1+len(wr) <= cols:
			cur = append(append(cur, ' '), wr...)
		default:
			lines = append(lines, string(cur))
			cur = wr
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
