// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/GermanBionicSystems/camtft/caption"
	"github.com/GermanBionicSystems/camtft/internal/config"
	"github.com/GermanBionicSystems/camtft/st7735s"
)

// bars are the 75% color bars, RGB565.
var bars = [...]st7735s.RGB565{
	0xBDF7, 0xBDE0, 0x05F7, 0x05E0, 0xB817, 0xB800, 0x0017, 0x0000,
}

func captionOpts(c *config.CaptionConfig) (*caption.Opts, error) {
	opts := caption.DefaultOpts
	opts.Scale = c.Scale
	if c.Font != "" {
		ttf, err := os.ReadFile(c.Font)
		if err != nil {
			return nil, err
		}
		if opts.Face, err = caption.LoadFace(ttf, c.Size); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Font, err)
		}
	}
	return &opts, nil
}

// render draws frame n of the test pattern: color bars scrolling one row
// per frame with the caption and frame number on top.
func render(f *st7735s.Frame, n int, text string, opts *caption.Opts) error {
	w := st7735s.Width / len(bars)
	for y := 0; y < st7735s.Height; y++ {
		row := (y + n) % st7735s.Height
		for x := 0; x < st7735s.Width; x++ {
			c := bars[x/w]
			if row < st7735s.Height/8 {
				c = bars[len(bars)-1-x/w]
			}
			f.SetRGB565(x, y, c)
		}
	}
	if text == "" {
		return nil
	}
	_, err := caption.Draw(f, fmt.Sprintf("%s #%d", text, n), opts)
	return err
}
