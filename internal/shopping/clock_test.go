package shopping

import (
	"testing"
	"time"
)

func tickFor(c *Clock) TickMsg {
	return TickMsg{ID: c.id, gen: c.gen}
}

func TestClockStartResetsElapsed(t *testing.T) {
	c := NewClock()
	c.StartAt(42)
	c.Start()

	if got := c.String(); got != "00:00" {
		t.Errorf("after Start, String() = %q, want 00:00", got)
	}
	if !c.Running() {
		t.Error("clock should be running after Start")
	}
	if c.Tick() == nil {
		t.Error("running clock should schedule a tick")
	}
}

func TestClockUpdateAddsOneSecondPerTick(t *testing.T) {
	c := NewClock()
	c.Start()

	for i := 0; i < 75; i++ {
		if cmd := c.Update(tickFor(c)); cmd == nil {
			t.Fatalf("tick %d: expected next tick command", i)
		}
	}
	if c.Elapsed() != 75*time.Second {
		t.Errorf("Elapsed() = %v, want 75s", c.Elapsed())
	}
	if got := c.String(); got != "01:15" {
		t.Errorf("String() = %q, want 01:15", got)
	}
}

func TestClockIgnoresForeignAndStaleTicks(t *testing.T) {
	a := NewClock()
	b := NewClock()
	a.Start()
	b.Start()

	if cmd := a.Update(tickFor(b)); cmd != nil {
		t.Error("clock accepted another clock's tick")
	}

	stale := tickFor(a)
	a.Stop()
	a.Start()
	if cmd := a.Update(stale); cmd != nil {
		t.Error("clock accepted a tick from before the restart")
	}
	if a.Elapsed() != 0 {
		t.Errorf("Elapsed() = %v, want 0", a.Elapsed())
	}
	if cmd := a.Update("not a tick"); cmd != nil {
		t.Error("clock reacted to an unrelated message")
	}
}

func TestClockStopIsIdempotent(t *testing.T) {
	c := NewClock()
	c.Stop()
	if c.Running() {
		t.Fatal("new clock should not be running")
	}

	c.Start()
	c.Update(tickFor(c))
	pending := tickFor(c)
	c.Stop()
	c.Stop()

	if c.Running() {
		t.Error("clock still running after Stop")
	}
	if c.Tick() != nil {
		t.Error("stopped clock should not schedule ticks")
	}
	if cmd := c.Update(pending); cmd != nil {
		t.Error("stopped clock accepted a pending tick")
	}
	if c.Elapsed() != time.Second {
		t.Errorf("Elapsed() = %v, want 1s", c.Elapsed())
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{9 * time.Second, "00:09"},
		{59 * time.Second, "00:59"},
		{60 * time.Second, "01:00"},
		{61*time.Minute + 5*time.Second, "61:05"},
		{125 * time.Minute, "125:00"},
		{-time.Second, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatElapsed(tt.in); got != tt.want {
				t.Errorf("FormatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
