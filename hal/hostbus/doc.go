// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hostbus implements the hal controllers in software on top of
// periph buses and pins, so the drivers run on a Linux host.
//
// Transfer timeouts are enforced with timers. Interrupt and DMA completion
// is emulated with goroutines.
package hostbus
