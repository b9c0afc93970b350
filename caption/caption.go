// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package caption overlays a line of text on a frame, for example a status
// or frame counter on top of the camera image.
package caption

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Padding between the frame edge and the text.
const (
	PaddingX = 1
	PaddingY = 3
)

// Opts holds the rendering options.
type Opts struct {
	// Face defaults to basicfont.Face7x13.
	Face font.Face
	// Color defaults to white.
	Color color.Color
	// Background is painted behind the text when not nil.
	Background color.Color
	// Scale enlarges the rendered text by an integer factor. 0 and 1 leave
	// it unscaled.
	Scale int
}

// DefaultOpts is white 7x13 text without background.
var DefaultOpts = Opts{
	Face:  basicfont.Face7x13,
	Color: color.White,
}

// LoadFace parses a TrueType font for use in Opts.Face.
func LoadFace(ttf []byte, points float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}

// Draw renders text in the top left corner of dst and returns the area it
// covered.
func Draw(dst draw.Image, text string, opts *Opts) (image.Rectangle, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if text == "" {
		return image.Rectangle{}, nil
	}
	face := opts.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	fg := opts.Color
	if fg == nil {
		fg = color.White
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}

	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	tw, th := dc.MeasureString(text)
	m := face.Metrics()
	ascent := float64(m.Ascent.Ceil())
	descent := float64(m.Descent.Ceil())
	if th < ascent+descent {
		th = ascent + descent
	}
	w, h := int(math.Ceil(tw)), int(math.Ceil(th))
	if w == 0 || h == 0 {
		return image.Rectangle{}, errors.New("caption: text has no extent")
	}

	dc = gg.NewContext(w, h)
	dc.SetFontFace(face)
	if opts.Background != nil {
		dc.SetColor(opts.Background)
		dc.Clear()
	}
	dc.SetColor(fg)
	dc.DrawString(text, 0, ascent)

	b := dst.Bounds()
	at := image.Pt(b.Min.X+PaddingX, b.Min.Y+PaddingY)
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(w*scale, h*scale))}.Intersect(b)
	if r.Empty() {
		return r, nil
	}
	if scale == 1 {
		draw.Draw(dst, r, dc.Image(), image.Point{}, draw.Over)
	} else {
		full := image.Rectangle{Min: at, Max: at.Add(image.Pt(w*scale, h*scale))}
		draw.NearestNeighbor.Scale(dst, full, dc.Image(), dc.Image().Bounds(), draw.Over, nil)
	}
	return r, nil
}
