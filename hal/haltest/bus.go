// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package haltest

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/camtft/hal"
	"github.com/GermanBionicSystems/camtft/status"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// I2C is a fake hal.I2C forwarding transfers to Bus.
//
// Bus is typically an *i2ctest.Playback or *i2ctest.Record.
type I2C struct {
	Bus i2c.Bus
	Log *Log

	Config *hal.I2CConfig
	// ProbeErrs is consumed one entry per Probe call; once empty, probes
	// succeed.
	ProbeErrs []error
	Probes    int
	// Txs counts synchronous and asynchronous transfers reaching Bus.
	Txs int

	mu      sync.Mutex
	pending *pendingTx
	// AsyncErr is the result of the last asynchronous transfer.
	AsyncErr error
}

type pendingTx struct {
	addr uint16
	w, r []byte
}

func (b *I2C) String() string {
	return "haltest.I2C"
}

// Tx implements i2c.Bus.
func (b *I2C) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != nil {
		return status.ErrBusy
	}
	b.Txs++
	b.Log.Add("i2c tx %#02x w=%x r=%d", addr, w, len(r))
	return b.Bus.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus.
func (b *I2C) SetSpeed(f physic.Frequency) error {
	return b.Bus.SetSpeed(f)
}

// Configure implements hal.I2C.
func (b *I2C) Configure(cfg *hal.I2CConfig) error {
	b.Log.Add("i2c configure timing=%#08x", cfg.Timing)
	c := *cfg
	b.Config = &c
	return nil
}

// Probe implements hal.I2C.
func (b *I2C) Probe(addr uint16, timeout time.Duration) error {
	if b.Busy() {
		return status.ErrBusy
	}
	b.Probes++
	b.Log.Add("i2c probe %#02x", addr)
	if len(b.ProbeErrs) == 0 {
		return nil
	}
	err := b.ProbeErrs[0]
	b.ProbeErrs = b.ProbeErrs[1:]
	return err
}

// TxAsync implements hal.I2C. The transfer reaches Bus on the next
// HandleEvent call.
func (b *I2C) TxAsync(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != nil {
		return status.ErrBusy
	}
	b.Log.Add("i2c async %#02x w=%x r=%d", addr, w, len(r))
	b.pending = &pendingTx{addr: addr, w: append([]byte(nil), w...), r: r}
	return nil
}

// Busy implements hal.I2C.
func (b *I2C) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending != nil
}

// HandleEvent implements hal.I2C by completing the pending transfer.
func (b *I2C) HandleEvent() {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.pending
	if p == nil {
		return
	}
	b.pending = nil
	b.Txs++
	b.AsyncErr = b.Bus.Tx(p.addr, p.w, p.r)
}

// HandleError implements hal.I2C by aborting the pending transfer.
func (b *I2C) HandleError() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != nil {
		b.pending = nil
		b.AsyncErr = status.ErrBus
	}
}

// SPI is a fake hal.SPI recording synchronous transfers in Record and DMA
// transfers in DMA.
type SPI struct {
	Record conntest.Record
	Log    *Log
	DMA    []conntest.IO
	// HoldDMA keeps DMA transfers busy until Complete is called.
	HoldDMA bool
	// TxErr is returned by every synchronous transfer when set.
	TxErr error

	mu      sync.Mutex
	enabled bool
	bits    int
	timeout time.Duration
	busy    bool
}

// NewSPI returns an enabled 8-bit SPI controller.
func NewSPI(l *Log) *SPI {
	return &SPI{Log: l, enabled: true, bits: 8}
}

func (s *SPI) String() string {
	return "haltest.SPI"
}

// Duplex implements conn.Conn.
func (s *SPI) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn.
func (s *SPI) Tx(w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return fmt.Errorf("haltest: transfer on disabled SPI: %w", status.ErrBus)
	}
	if s.TxErr != nil {
		return s.TxErr
	}
	s.Log.Add("spi tx %x", w)
	return s.Record.Tx(w, r)
}

// SetTimeout implements hal.SPI.
func (s *SPI) SetTimeout(d time.Duration) {
	s.timeout = d
}

// Timeout returns the value set with SetTimeout.
func (s *SPI) Timeout() time.Duration {
	return s.timeout
}

// Enable implements hal.SPI.
func (s *SPI) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.Add("spi enable")
	s.enabled = true
	return nil
}

// Disable implements hal.SPI.
func (s *SPI) Disable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Log.Add("spi disable")
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

// SetDataSize implements hal.SPI.
func (s *SPI) SetDataSize(bits int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return fmt.Errorf("haltest: data size changed on enabled SPI: %w", status.ErrBusy)
	}
	s.Log.Add("spi size %d", bits)
	s.bits = bits
	return nil
}

// TxDMA implements hal.SPI.
func (s *SPI) TxDMA(w []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return fmt.Errorf("haltest: DMA on disabled SPI: %w", status.ErrBus)
	}
	if s.busy {
		return status.ErrBusy
	}
	s.Log.Add("spi dma %d", len(w))
	s.DMA = append(s.DMA, conntest.IO{W: append([]byte(nil), w...)})
	s.busy = s.HoldDMA
	return nil
}

// Busy implements hal.SPI.
func (s *SPI) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Complete ends a held DMA transfer.
func (s *SPI) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

var _ hal.I2C = &I2C{}
var _ hal.SPI = &SPI{}
