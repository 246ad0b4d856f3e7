package kernel

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	n := c.normalize()
	if n != c {
		t.Fatalf("DefaultConfig() should already be normalized, got %+v normalized to %+v", c, n)
	}
}

func TestNormalizeFillsZeroFields(t *testing.T) {
	var c Config
	n := c.normalize()
	d := DefaultConfig()
	if n.PrioLevels != d.PrioLevels {
		t.Errorf("PrioLevels = %d, want default %d", n.PrioLevels, d.PrioLevels)
	}
	if n.MaxThreads != d.MaxThreads {
		t.Errorf("MaxThreads = %d, want default %d", n.MaxThreads, d.MaxThreads)
	}
	if n.TickHz != d.TickHz {
		t.Errorf("TickHz = %d, want default %d", n.TickHz, d.TickHz)
	}
	if n.IdleStackSize != d.IdleStackSize {
		t.Errorf("IdleStackSize = %d, want default %d", n.IdleStackSize, d.IdleStackSize)
	}
}

func TestNormalizeClampsOutOfRange(t *testing.T) {
	c := Config{PrioLevels: 1000, MaxThreads: 1000, TickHz: 1, IdleStackSize: 8}
	n := c.normalize()
	if n.PrioLevels != 64 {
		t.Errorf("PrioLevels = %d, want clamped to 64", n.PrioLevels)
	}
	if n.MaxThreads != 128 {
		t.Errorf("MaxThreads = %d, want clamped to 128", n.MaxThreads)
	}
	if n.PrioLevels < 2 {
		t.Errorf("PrioLevels = %d, want >= 2", n.PrioLevels)
	}
}

func TestIdlePriorityIsLastLevel(t *testing.T) {
	c := DefaultConfig()
	if got, want := c.idlePriority(), c.PrioLevels-1; got != want {
		t.Errorf("idlePriority() = %d, want %d", got, want)
	}
}
