// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/iotest"
)

func TestStream(t *testing.T) {
	s := NewStream(32, 16, 90)
	if s.String() != "Stream{(32,16)}" {
		t.Errorf("String() = %q", s.String())
	}
	srv := httptest.NewServer(s)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	mt, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatal(err)
	}
	if mt != "multipart/x-mixed-replace" {
		t.Fatalf("content type %q", mt)
	}
	mr := multipart.NewReader(resp.Body, params["boundary"])

	next := func() image.Image {
		p, err := mr.NextPart()
		if err != nil {
			t.Fatal(err)
		}
		if ct := p.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Fatalf("part type %q", ct)
		}
		img, err := jpeg.Decode(p)
		if err != nil {
			t.Fatal(err)
		}
		return img
	}

	img := next()
	if img.Bounds() != image.Rect(0, 0, 32, 16) {
		t.Fatalf("bounds %s", img.Bounds())
	}
	if r, _, _, _ := img.At(4, 4).RGBA(); r > 0x1000 {
		t.Errorf("initial image not black: %v", img.At(4, 4))
	}

	white := &image.Uniform{C: color.White}
	if err := s.Draw(s.Bounds(), white, image.Point{}); err != nil {
		t.Fatal(err)
	}
	img = next()
	if r, _, _, _ := img.At(4, 4).RGBA(); r < 0xF000 {
		t.Errorf("update not white: %v", img.At(4, 4))
	}

	if err := s.Halt(); err != nil {
		t.Fatal(err)
	}
	if err := s.Halt(); err != nil {
		t.Fatal(err)
	}
	if _, err := mr.NextPart(); err == nil {
		t.Error("stream not terminated")
	}
}

func TestStream_Method(t *testing.T) {
	s := NewStream(8, 8, 0)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status %d", w.Code)
	}
}

func TestStream_NoEntropy(t *testing.T) {
	defer func(r io.Reader) { randReader = r }(randReader)
	randReader = iotest.ErrReader(errors.New("no entropy"))

	s := NewStream(8, 8, 0)
	srv := httptest.NewServer(s)
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatal(err)
	}
	if b := params["boundary"]; b != fixedBoundary {
		t.Fatalf("boundary %q", b)
	}
	p, err := multipart.NewReader(resp.Body, fixedBoundary).NextPart()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jpeg.Decode(p); err != nil {
		t.Fatal(err)
	}
	if err := s.Halt(); err != nil {
		t.Fatal(err)
	}
}
