// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestDraw(t *testing.T) {
	var buf bytes.Buffer
	d := NewWriter(&buf, &Opts{W: 4, H: 4, Step: 2})
	if d.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("Bounds() = %s", d.Bounds())
	}
	red := color.NRGBA{R: 0xFF, A: 0xFF}
	if err := d.Draw(d.Bounds(), &image.Uniform{C: red}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	block := ansi256.Default.Block(red)
	want := "\033[H\033[0m" + strings.Repeat(strings.Repeat(block, 2)+"\033[0m\n", 2)
	if got := buf.String(); got != want {
		t.Fatalf("Draw() wrote %q, want %q", got, want)
	}
	buf.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\033[0m\n" {
		t.Errorf("Halt() wrote %q", buf.String())
	}
	if s := d.String(); s != "Preview{(4,4)}" {
		t.Errorf("String() = %q", s)
	}
}
