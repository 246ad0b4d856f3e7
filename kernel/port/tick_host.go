//go:build !tinygo

package port

import "time"

// HostTicker drives TickSource from a time.Ticker, the host-simulated
// stand-in for a real hardware timer peripheral.
type HostTicker struct {
	t  *time.Ticker
	ch chan struct{}
	done chan struct{}
}

// NewHostTickerHz starts a ticker firing at the rate a Config.TickHz of
// hz implies. hz==0 is coerced to 1 to avoid division by zero.
func NewHostTickerHz(hz uint32) *HostTicker {
	if hz == 0 {
		hz = 1
	}
	periodNs := uint64(1_000_000_000) / uint64(hz)
	return NewHostTicker(time.Duration(periodNs))
}

// NewHostTicker starts a ticker firing at the given period.
func NewHostTicker(period time.Duration) *HostTicker {
	h := &HostTicker{
		t:    time.NewTicker(period),
		ch:   make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go h.pump()
	return h
}

func (h *HostTicker) pump() {
	for {
		select {
		case <-h.t.C:
			select {
			case h.ch <- struct{}{}:
			default:
			}
		case <-h.done:
			return
		}
	}
}

func (h *HostTicker) Ticks() <-chan struct{} { return h.ch }

func (h *HostTicker) Stop() {
	h.t.Stop()
	close(h.done)
}

// ManualTicker is a TickSource driven explicitly by calling Tick, for a
// harness that wants ticks without wall-clock timing. (The kernel's own
// tests call Kernel.Tick directly instead.)
type ManualTicker struct {
	ch chan struct{}
}

// NewManualTicker returns a TickSource with no automatic driver.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan struct{}, 1)}
}

func (m *ManualTicker) Ticks() <-chan struct{} { return m.ch }

func (m *ManualTicker) Stop() {}

// Tick delivers one tick. Non-blocking: a tick arriving while the
// previous one is still unconsumed is coalesced into it, mirroring real
// hardware where a missed tick interrupt cannot be un-missed. The
// coalesced tick is lost: Kernel.Tick advances the counter by exactly one
// per tick consumed.
func (m *ManualTicker) Tick() {
	select {
	case m.ch <- struct{}{}:
	default:
	}
}
