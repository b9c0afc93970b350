// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7735s_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/camtft/caption"
	"github.com/GermanBionicSystems/camtft/hal"
	"github.com/GermanBionicSystems/camtft/hal/hostbus"
	"github.com/GermanBionicSystems/camtft/st7735s"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()
	c, err := p.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		log.Fatal(err)
	}

	// Route the panel's DC and RST lines to host GPIOs.
	dcPin := hal.Pin{Port: hal.PortA, Num: 6}
	rstPin := hal.Pin{Port: hal.PortA, Num: 7}
	mcu := hostbus.NewMCU(map[hal.Pin]gpio.PinIO{
		dcPin:  gpioreg.ByName("GPIO24"),
		rstPin: gpioreg.ByName("GPIO25"),
	})
	dev, err := st7735s.New(hostbus.NewSPI(c), mcu.PinOut(dcPin), mcu.PinOut(rstPin), nil)
	if err != nil {
		log.Fatalf("failed to initialize display: %v", err)
	}
	defer dev.Halt()
	fmt.Printf("device=%s\n", dev)

	dev.Frame().Fill(0x001F)
	if _, err := caption.Draw(dev.Frame(), "Hello from periph!", nil); err != nil {
		log.Fatal(err)
	}
	if err := dev.PushFrame(); err != nil {
		log.Fatal(err)
	}
	if err := dev.Wait(); err != nil {
		log.Fatal(err)
	}
}
