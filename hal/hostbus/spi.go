// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hostbus

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/camtft/hal"
	"github.com/GermanBionicSystems/camtft/status"
	"periph.io/x/conn/v3"
)

// SPI implements hal.SPI on top of a periph connection opened with 8 bit
// words.
//
// 16 bit words are emulated: every pair of bytes holds a little endian
// halfword and is sent most significant byte first, the way an MCU SPI
// shifts halfwords read from memory. TxDMA runs on a goroutine and splits
// the transfer according to conn.Limits.
type SPI struct {
	c conn.Conn

	mu      sync.Mutex
	timeout time.Duration
	enabled bool
	bits    int
	busy    bool
	dmaErr  error
	swapped []byte
}

// NewSPI returns an enabled controller with 8 bit words.
func NewSPI(c conn.Conn) *SPI {
	return &SPI{c: c, enabled: true, bits: 8}
}

func (s *SPI) String() string {
	return s.c.String()
}

// Duplex implements conn.Conn.
func (s *SPI) Duplex() conn.Duplex {
	return s.c.Duplex()
}

// MaxTxSize implements conn.Limits.
func (s *SPI) MaxTxSize() int {
	if l, ok := s.c.(conn.Limits); ok {
		return l.MaxTxSize()
	}
	return 0
}

// Tx implements conn.Conn. It is bounded by the timeout set with SetTimeout.
func (s *SPI) Tx(w, r []byte) error {
	s.mu.Lock()
	if err := s.ready(); err != nil {
		s.mu.Unlock()
		return err
	}
	timeout := s.timeout
	if s.bits == 16 {
		w = swap16(nil, w)
	}
	s.mu.Unlock()
	return withTimeout(timeout, func() error { return s.c.Tx(w, r) })
}

// SetTimeout implements hal.SPI.
func (s *SPI) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

// Enable implements hal.SPI.
func (s *SPI) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	return nil
}

// Disable implements hal.SPI.
func (s *SPI) Disable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return status.ErrBusy
	}
	s.enabled = false
	return nil
}

// Enabled implements hal.SPI.
func (s *SPI) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// DataSize implements hal.SPI.
func (s *SPI) DataSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bits
}

// SetDataSize implements hal.SPI. Only 8 and 16 bits are supported.
func (s *SPI) SetDataSize(bits int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return fmt.Errorf("hostbus: word width changed while enabled: %w", status.ErrBusy)
	}
	if bits != 8 && bits != 16 {
		return fmt.Errorf("hostbus: %d bit words are not supported", bits)
	}
	s.bits = bits
	return nil
}

// TxDMA implements hal.SPI.
func (s *SPI) TxDMA(w []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	if s.bits == 16 {
		s.swapped = swap16(s.swapped, w)
		w = s.swapped
	}
	s.busy = true
	s.dmaErr = nil
	go func() {
		err := s.txChunks(w)
		s.mu.Lock()
		s.busy = false
		s.dmaErr = err
		s.mu.Unlock()
	}()
	return nil
}

// Busy implements hal.SPI.
func (s *SPI) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Err returns the result of the last DMA transfer.
func (s *SPI) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dmaErr
}

func (s *SPI) ready() error {
	if !s.enabled {
		return fmt.Errorf("hostbus: transfer on disabled SPI: %w", status.ErrBus)
	}
	if s.busy {
		return status.ErrBusy
	}
	return nil
}

func (s *SPI) txChunks(w []byte) error {
	limit := s.MaxTxSize()
	if limit <= 0 {
		limit = len(w)
	}
	for len(w) != 0 {
		n := len(w)
		if n > limit {
			n = limit
		}
		if err := s.c.Tx(w[:n], nil); err != nil {
			return err
		}
		w = w[n:]
	}
	return nil
}

// swap16 returns src with the bytes of every halfword swapped, reusing dst
// when large enough.
func swap16(dst, src []byte) []byte {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	}
	dst = dst[:len(src)]
	for i := 0; i+1 < len(src); i += 2 {
		dst[i], dst[i+1] = src[i+1], src[i]
	}
	if len(src)%2 == 1 {
		dst[len(src)-1] = src[len(src)-1]
	}
	return dst
}

var _ hal.SPI = &SPI{}
var _ conn.Limits = &SPI{}
