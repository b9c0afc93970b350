// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/GermanBionicSystems/camtft/caption"
	"github.com/GermanBionicSystems/camtft/internal/config"
	"github.com/GermanBionicSystems/camtft/st7735s"
)

func TestRender(t *testing.T) {
	var f st7735s.Frame
	if err := render(&f, 0, "", nil); err != nil {
		t.Fatal(err)
	}
	if c := f.RGB565At(0, 0); c != bars[len(bars)-1] {
		t.Errorf("top left %#04x", c)
	}
	if c := f.RGB565At(0, st7735s.Height-1); c != bars[0] {
		t.Errorf("bottom left %#04x", c)
	}
	if c := f.RGB565At(st7735s.Width-1, st7735s.Height-1); c != bars[len(bars)-1] {
		t.Errorf("bottom right %#04x", c)
	}

	// The inverted band scrolls up one row per frame.
	if err := render(&f, 1, "", nil); err != nil {
		t.Fatal(err)
	}
	if c := f.RGB565At(0, st7735s.Height-1); c != bars[len(bars)-1] {
		t.Errorf("bottom left after scroll %#04x", c)
	}
}

func TestRender_Caption(t *testing.T) {
	var plain, captioned st7735s.Frame
	if err := render(&plain, 3, "", nil); err != nil {
		t.Fatal(err)
	}
	opts, err := captionOpts(&config.CaptionConfig{Size: 12})
	if err != nil {
		t.Fatal(err)
	}
	if err := render(&captioned, 3, "cam", opts); err != nil {
		t.Fatal(err)
	}
	if plain == captioned {
		t.Fatal("caption not drawn")
	}
	if plain.RGB565At(0, 0) != captioned.RGB565At(0, 0) {
		t.Error("caption drawn over the padding")
	}
	for y := caption.PaddingY + 20; y < st7735s.Height; y++ {
		for x := 0; x < st7735s.Width; x++ {
			if plain.RGB565At(x, y) != captioned.RGB565At(x, y) {
				t.Fatalf("pixel (%d,%d) changed below the caption", x, y)
			}
		}
	}
	if _, err := captionOpts(&config.CaptionConfig{Font: "/nonexistent.ttf"}); err == nil {
		t.Error("expected error")
	}
}
