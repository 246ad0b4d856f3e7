//go:build tinygo

package port

import (
	"time"

	"tinygo.org/x/drivers"
)

// HWTicker drives TickSource from the board's hardware timer peripheral.
// TinyGo exposes that timer through the runtime's own monotonic clock
// rather than a dedicated x/drivers type, so this wraps time.Ticker the
// same way HostTicker does, so the MCU and host builds share one
// implementation shape, only the build tag differs.
type HWTicker struct {
	t  *time.Ticker
	ch chan struct{}
}

// NewHWTicker starts a hardware-backed ticker at the given period.
func NewHWTicker(period time.Duration) *HWTicker {
	h := &HWTicker{t: time.NewTicker(period), ch: make(chan struct{}, 1)}
	go func() {
		for range h.t.C {
			select {
			case h.ch <- struct{}{}:
			default:
			}
		}
	}()
	return h
}

func (h *HWTicker) Ticks() <-chan struct{} { return h.ch }
func (h *HWTicker) Stop()                  { h.t.Stop() }

// SensorIRQLine turns an I2C sensor's data-ready condition into an
// IRQLine, for boards whose interrupt fabric is a GPIO pin wired to a
// drivers.I2C device rather than a dedicated interrupt controller line.
type SensorIRQLine struct {
	vector int
	bus    drivers.I2C
	addr   uint16
	ready  func(status []byte) bool
}

// NewSensorIRQLine binds vector to readiness polled from the sensor at
// addr on bus, using ready to interpret the status byte(s) it returns.
func NewSensorIRQLine(vector int, bus drivers.I2C, addr uint16, ready func(status []byte) bool) *SensorIRQLine {
	return &SensorIRQLine{vector: vector, bus: bus, addr: addr, ready: ready}
}

func (s *SensorIRQLine) Vector() int { return s.vector }

// Poll reads the sensor's status register and reports whether it
// indicates a pending condition. Call sites drive this from whatever
// edge-detection the board offers (a GPIO interrupt callback, or a tight
// poll loop on boards without one) and dispatch through the kernel's IRQ
// entry point when it returns true.
func (s *SensorIRQLine) Poll() (bool, error) {
	status := make([]byte, 1)
	if err := s.bus.Tx(s.addr, nil, status); err != nil {
		return false, err
	}
	return s.ready(status), nil
}
