package shopping

import (
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/basket/internal/constants"
)

var lastClockID int64

// TickMsg is delivered once per interval to a running Clock. Messages from a
// stopped or restarted clock are ignored by Update.
type TickMsg struct {
	ID   int
	Time time.Time

	gen int
}

// Clock counts elapsed seconds for an active session. It never reads the
// wall clock: each accepted tick adds exactly one second, and ticks are
// scheduled through the bubbletea runtime rather than a goroutine of its own.
type Clock struct {
	id       int
	gen      int
	running  bool
	elapsed  int
	interval time.Duration
}

func NewClock() *Clock {
	return &Clock{
		id:       int(atomic.AddInt64(&lastClockID, 1)),
		interval: constants.ClockInterval,
	}
}

// ID identifies this clock's tick messages.
func (c *Clock) ID() int {
	return c.id
}

// Start resets elapsed time to zero and marks the clock running. Call Tick to
// schedule the first tick.
func (c *Clock) Start() {
	c.StartAt(0)
}

// StartAt is Start with elapsed seeded to the given whole seconds.
func (c *Clock) StartAt(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.gen++
	c.elapsed = seconds
	c.running = true
}

// Stop cancels pending ticks. Stopping a stopped clock does nothing.
func (c *Clock) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.gen++
}

func (c *Clock) Running() bool {
	return c.running
}

// Tick schedules the next tick, or returns nil when the clock is stopped.
func (c *Clock) Tick() tea.Cmd {
	if !c.running {
		return nil
	}
	id, gen := c.id, c.gen
	return tea.Tick(c.interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t, gen: gen}
	})
}

// Update advances the clock by one second for each of its own ticks and
// returns the command for the following tick.
func (c *Clock) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != c.id || tick.gen != c.gen || !c.running {
		return nil
	}
	c.elapsed++
	return c.Tick()
}

// Elapsed is the accumulated tick count as a duration.
func (c *Clock) Elapsed() time.Duration {
	return time.Duration(c.elapsed) * time.Second
}

// String renders elapsed time as mm:ss. Minutes are not capped at 59.
func (c *Clock) String() string {
	return FormatElapsed(c.Elapsed())
}

// FormatElapsed renders d as zero-padded minutes and seconds.
func FormatElapsed(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
