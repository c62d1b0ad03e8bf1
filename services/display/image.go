package display

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"

	"habittracker/services/streak"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Frame size of the 2.7" e-paper panel rotated 90 degrees.
const (
	FrameWidth  = 264
	FrameHeight = 176
)

const textMargin = 10

// palette index 0 is the background.
var palette = color.Palette{color.White, color.Black}

// RenderFrame draws the streak screen into a 1-bit frame.
func RenderFrame(loc *time.Location, current, previous *streak.Streak) *image.Paletted {
	img := blankFrame()
	drawText(img, CurrentText(loc, current), textMargin, FrameHeight/4, 2)
	drawText(img, PreviousText(loc, previous), textMargin, FrameHeight*3/4-basicfont.Face7x13.Height, 1)
	if ended := PreviousEndedText(loc, previous); ended != "" {
		drawText(img, ended, textMargin, FrameHeight-22, 1)
	}
	return img
}

func blankFrame() *image.Paletted {
	return image.NewPaletted(image.Rect(0, 0, FrameWidth, FrameHeight), palette)
}

// drawText draws text with its top-left corner at (x, y), scaled up by an
// integer factor for larger type.
func drawText(dst *image.Paletted, text string, x, y, scale int) {
	face := basicfont.Face7x13
	if scale <= 1 {
		d := font.Drawer{Dst: dst, Src: image.Black, Face: face, Dot: fixed.P(x, y+face.Ascent)}
		d.DrawString(text)
		return
	}

	width := font.MeasureString(face, text).Ceil()
	if width == 0 {
		return
	}
	glyphs := image.NewPaletted(image.Rect(0, 0, width, face.Height), palette)
	d := font.Drawer{Dst: glyphs, Src: image.Black, Face: face, Dot: fixed.P(0, face.Ascent)}
	d.DrawString(text)

	target := image.Rect(x, y, x+width*scale, y+face.Height*scale)
	xdraw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), xdraw.Src, nil)
}

// ImageDisplay keeps the last rendered frame in memory so it can be served
// over HTTP.
type ImageDisplay struct {
	mu    sync.RWMutex
	frame *image.Paletted
}

func NewImageDisplay() *ImageDisplay {
	return &ImageDisplay{frame: blankFrame()}
}

func (d *ImageDisplay) DisplayStreak(loc *time.Location, current, previous *streak.Streak) error {
	frame := RenderFrame(loc, current, previous)
	d.mu.Lock()
	d.frame = frame
	d.mu.Unlock()
	return nil
}

func (d *ImageDisplay) ClearAndShutdown() error {
	d.mu.Lock()
	d.frame = blankFrame()
	d.mu.Unlock()
	return nil
}

// Frame returns a copy of the last drawn frame.
func (d *ImageDisplay) Frame() *image.Paletted {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := blankFrame()
	copy(out.Pix, d.frame.Pix)
	return out
}

// EncodePNG encodes a frame as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
