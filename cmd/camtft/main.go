// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// camtft brings up the OV7670 sensor and the ST7735S panel from a host and
// streams frames to the panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/camtft/hal"
	"github.com/GermanBionicSystems/camtft/hal/hostbus"
	"github.com/GermanBionicSystems/camtft/internal/config"
	"github.com/GermanBionicSystems/camtft/internal/log"
	"github.com/GermanBionicSystems/camtft/ov7670"
	"github.com/GermanBionicSystems/camtft/preview"
	"github.com/GermanBionicSystems/camtft/st7735s"
	"github.com/GermanBionicSystems/camtft/status"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

type flagConfig struct {
	configPath string
	frames     int
	interval   time.Duration
	mirror     bool
	flip       bool
}

func parseFlags() flagConfig {
	var f flagConfig
	flag.StringVar(&f.configPath, "config", "/etc/camtft/config.yaml", "path to config file")
	flag.IntVar(&f.frames, "frames", 0, "number of frames to push, 0 to run until interrupted")
	flag.DurationVar(&f.interval, "interval", 100*time.Millisecond, "delay between frames")
	flag.BoolVar(&f.mirror, "mirror", false, "mirror the sensor image")
	flag.BoolVar(&f.flip, "flip", false, "flip the sensor image")
	flag.Parse()
	return f
}

func main() {
	if err := mainImpl(parseFlags()); err != nil {
		log.Error("camtft failed", err)
		os.Exit(1)
	}
}

func mainImpl(f flagConfig) error {
	conf, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	lvl, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.Info("starting", "config", f.configPath, "strict", conf.Strict, "frames", f.frames)

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	diag, err := openDiag(&conf.Diag)
	if err != nil {
		return err
	}
	defer diag.Close()
	rep := status.Reporter{Channel: diag, Enabled: true}

	pins, err := hostPins(conf)
	if err != nil {
		return err
	}
	mcu := hostbus.NewMCU(pins)
	mcu.OnHalt = func(err error) {
		log.Error("halted", err)
		os.Exit(1)
	}

	cam, err := openSensor(conf, mcu, diag)
	if cam != nil {
		defer func() {
			if err := cam.Halt(); err != nil {
				log.Error("sensor halt", err)
			}
		}()
	}
	if err != nil {
		rep.Report(err)
		return err
	}
	if err := setupSensor(cam, &f); err != nil {
		setupReporter(diag, conf.Strict).Report(err)
		return err
	}

	lcd, closeSPI, err := openDisplay(conf, mcu)
	if err != nil {
		rep.Report(err)
		mcu.Halt(err)
		return err
	}
	defer closeSPI()
	defer func() {
		if err := lcd.Halt(); err != nil {
			log.Error("display halt", err)
		}
	}()

	copts, err := captionOpts(&conf.Caption)
	if err != nil {
		return err
	}
	var mirrors []display.Drawer
	if conf.Preview.Enabled {
		pv := preview.New(&preview.Opts{W: st7735s.Width, H: st7735s.Height, Step: conf.Preview.Step})
		defer pv.Halt()
		mirrors = append(mirrors, pv)
	}
	if conf.Preview.Listen != "" {
		st := preview.NewStream(st7735s.Width, st7735s.Height, conf.Preview.Quality)
		srv := &http.Server{Addr: conf.Preview.Listen, Handler: st}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("stream server", err, "listen", conf.Preview.Listen)
			}
		}()
		defer srv.Close()
		defer st.Halt()
		log.Info("streaming", "listen", conf.Preview.Listen)
		mirrors = append(mirrors, st)
	}

	t := time.NewTicker(f.interval)
	defer t.Stop()
	for n := 0; f.frames == 0 || n < f.frames; n++ {
		if err := render(lcd.Frame(), n, conf.Caption.Text, copts); err != nil {
			return err
		}
		if err := lcd.PushFrame(); err != nil {
			rep.Report(err)
			return err
		}
		for _, m := range mirrors {
			if err := m.Draw(m.Bounds(), lcd.Frame(), image.Point{}); err != nil {
				return err
			}
		}
		log.Debug("frame pushed", "n", n)
		select {
		case <-ctx.Done():
			log.Info("interrupted", "frames", n+1)
			return lcd.Wait()
		case <-t.C:
		}
	}
	if err := lcd.Wait(); err != nil {
		rep.Report(err)
		return err
	}
	rep.Report(nil)
	return nil
}

// diagUART is a hostbus.UART that may own a serial port.
type diagUART interface {
	hal.UART
	Close() error
}

func openDiag(c *config.DiagConfig) (diagUART, error) {
	if c.Serial == "" {
		return hostbus.NewUART(os.Stdout), nil
	}
	return hostbus.OpenSerial(c.Serial, c.Baud)
}

// hostPins resolves the MCU pin to host gpio mapping.
func hostPins(conf *config.Config) (map[hal.Pin]gpio.PinIO, error) {
	pins := map[hal.Pin]gpio.PinIO{}
	for k, name := range conf.GPIO {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("gpio %s not found", name)
		}
		pins[conf.Pin(k)] = p
	}
	for _, s := range []string{conf.Display.DC, conf.Display.RST} {
		if _, ok := conf.GPIO[s]; s != "" && !ok {
			log.Warn("pin not mapped to a host gpio", "pin", s)
		}
	}
	return pins, nil
}

func openSensor(conf *config.Config, mcu hal.MCU, diag hal.UART) (*ov7670.Dev, error) {
	inst, err := conf.Instance()
	if err != nil {
		return nil, err
	}
	b, err := i2creg.Open(conf.Sensor.Bus)
	if err != nil {
		return nil, err
	}
	opts := ov7670.Opts{
		Instance:    inst,
		Strict:      conf.Strict,
		IRQPriority: conf.Sensor.IRQPriority,
		Diag:        diag,
	}
	pins := ov7670.Pins{
		SCL:       conf.Pin(conf.Sensor.SCL),
		SDA:       conf.Pin(conf.Sensor.SDA),
		PowerDown: conf.Pin(conf.Sensor.PowerDown),
	}
	d, err := ov7670.New(mcu, hostbus.NewI2C(b), &pins, &opts)
	if err != nil {
		return d, err
	}
	log.Info("sensor ready", "dev", d)
	return d, nil
}

// setupReporter reports sensor setup failures. A strict sensor has already
// reported its register failures before halting.
func setupReporter(diag hal.UART, strict bool) *status.Reporter {
	return &status.Reporter{Channel: diag, Enabled: !strict}
}

func setupSensor(d *ov7670.Dev, f *flagConfig) error {
	pid, err := d.ReadRegister(ov7670.RegPID)
	if err != nil {
		return err
	}
	ver, err := d.ReadRegister(ov7670.RegVER)
	if err != nil {
		return err
	}
	log.Info("sensor id", "pid", fmt.Sprintf("%#02x", pid), "ver", fmt.Sprintf("%#02x", ver))
	if err := d.SetMirror(f.mirror); err != nil {
		return err
	}
	return d.SetFlip(f.flip)
}

func openDisplay(conf *config.Config, mcu *hostbus.MCU) (*st7735s.Dev, func(), error) {
	p, err := spireg.Open(conf.Display.Port)
	if err != nil {
		return nil, nil, err
	}
	c, err := p.Connect(physic.Frequency(conf.Display.SpeedHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	opts := st7735s.DefaultOpts
	if conf.Display.BGR {
		opts.MemoryAccess |= st7735s.BGR
	}
	dc := mcu.PinOut(conf.Pin(conf.Display.DC))
	rst := mcu.PinOut(conf.Pin(conf.Display.RST))
	d, err := st7735s.New(hostbus.NewSPI(c), dc, rst, &opts)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	log.Info("display ready", "dev", d)
	return d, func() { p.Close() }, nil
}
