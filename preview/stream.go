// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"net/http"
	"sync"

	"periph.io/x/conn/v3/display"
)

// Stream is a display.Drawer serving its content as Motion JPEG, the
// multipart/x-mixed-replace stream IP cameras use. Every Draw sends a new
// JPEG to all connected clients.
type Stream struct {
	quality int

	mu      sync.Mutex
	img     *image.RGBA
	enc     []byte
	clients map[chan struct{}]struct{}
	done    chan struct{}
	halted  bool
}

// NewStream returns a black w by h stream. quality is the JPEG quality,
// 0 selects jpeg.DefaultQuality.
func NewStream(w, h, quality int) *Stream {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.Black, image.Point{}, draw.Src)
	return &Stream{
		quality: quality,
		img:     img,
		clients: map[chan struct{}]struct{}{},
		done:    make(chan struct{}),
	}
}

func (s *Stream) String() string {
	return fmt.Sprintf("Stream{%s}", s.img.Rect.Max)
}

// Halt implements conn.Resource. It ends every client stream.
func (s *Stream) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.halted {
		s.halted = true
		close(s.done)
	}
	return nil
}

// ColorModel implements display.Drawer.
func (s *Stream) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (s *Stream) Bounds() image.Rectangle {
	return s.img.Rect
}

// Draw implements display.Drawer.
func (s *Stream) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.img, r, src, sp, draw.Src)
	s.enc = nil
	for c := range s.clients {
		select {
		case c <- struct{}{}:
		default:
		}
	}
	return nil
}

// ServeHTTP implements http.Handler. Only GET is accepted.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	refresh := make(chan struct{}, 1)
	s.mu.Lock()
	s.clients[refresh] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, refresh)
		s.mu.Unlock()
	}()

	boundary := newBoundary()
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	first := true
	for {
		b, err := s.snapshot()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := writePart(w, boundary, first, b); err != nil {
			return
		}
		first = false
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		select {
		case <-refresh:
		case <-s.done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// snapshot returns the JPEG encoding of the current image. It is cached
// until the next Draw.
func (s *Stream) snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enc == nil {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, s.img, &jpeg.Options{Quality: s.quality}); err != nil {
			return nil, err
		}
		s.enc = buf.Bytes()
	}
	return s.enc, nil
}

// writePart writes one part and its closing boundary, so the client renders
// the image without waiting for the next one. mime/multipart only emits a
// boundary when the next part starts.
func writePart(w io.Writer, boundary string, first bool, body []byte) error {
	var buf bytes.Buffer
	if first {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
	}
	fmt.Fprintf(&buf, "Content-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(body))
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", boundary)
	_, err := buf.WriteTo(w)
	return err
}

// fixedBoundary is used when no random boundary can be drawn. JPEG parts
// are sized by Content-Length so a predictable boundary still delimits them.
const fixedBoundary = "camtft-preview-frame"

var randReader io.Reader = rand.Reader

// newBoundary returns a random RFC 2046 boundary.
func newBoundary() string {
	var b [24]byte
	if _, err := io.ReadFull(randReader, b[:]); err != nil {
		return fixedBoundary
	}
	return fmt.Sprintf("%x", b[:])
}

var _ display.Drawer = &Stream{}
var _ http.Handler = &Stream{}
