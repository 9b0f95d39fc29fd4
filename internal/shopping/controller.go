package shopping

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/basket/internal/models"
)

// State is a Controller's position in the session lifecycle.
type State int

const (
	NotStarted State = iota
	Active
	Ended
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Active:
		return "active"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Controller runs one shopping session against one list. It owns the session
// clock and the picker; it is not safe for concurrent use.
type Controller struct {
	state   State
	list    *models.ShoppingList
	session *models.ShoppingSession
	clock   *Clock
	picker  Picker

	now   func() time.Time
	newID func() string
}

type Option func(*Controller)

// WithNow replaces the time source used for start and end timestamps.
func WithNow(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator replaces the session ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) { c.newID = gen }
}

func NewController(opts ...Option) *Controller {
	c := &Controller{
		clock: NewClock(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.picker.Reset()
	return c
}

// Start opens a new session on list and starts the clock at 00:00.
func (c *Controller) Start(list *models.ShoppingList) error {
	if c.state != NotStarted {
		return ErrAlreadyStarted
	}
	if list.IsCompleted {
		return ErrListCompleted
	}

	c.list = list
	c.session = &models.ShoppingSession{
		ID:        c.newID(),
		ListID:    list.ID,
		StartTime: c.now(),
	}
	c.state = Active
	c.clock.Start()
	return nil
}

// Attach resumes a persisted session that has not ended. The clock is seeded
// with the whole seconds since the session started.
func (c *Controller) Attach(list *models.ShoppingList, session *models.ShoppingSession) error {
	if c.state != NotStarted {
		return ErrAlreadyStarted
	}
	if !session.IsActive() {
		return ErrSessionNotActive
	}
	if session.ListID != list.ID {
		return fmt.Errorf("session %s belongs to list %s, not %s", session.ID, session.ListID, list.ID)
	}

	c.list = list
	c.session = session
	c.state = Active
	c.clock.StartAt(int(session.Duration(c.now()) / time.Second))
	return nil
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) List() *models.ShoppingList {
	return c.list
}

// Session returns the controlled session, or nil before Start.
func (c *Controller) Session() *models.ShoppingSession {
	return c.session
}

func (c *Controller) Clock() *Clock {
	return c.clock
}

// Elapsed renders the clock as mm:ss.
func (c *Controller) Elapsed() string {
	return c.clock.String()
}

// Picker exposes the staged input for field edits between Select and Confirm.
func (c *Controller) Picker() *Picker {
	return &c.picker
}

// Select stages item for picking.
func (c *Controller) Select(item *models.GroceryItem) error {
	if c.state != Active {
		return ErrSessionNotActive
	}
	if item.ListID != "" && item.ListID != c.list.ID {
		return ErrItemNotInList
	}
	c.picker.Select(item)
	return nil
}

// Confirm commits the staged input into the session.
func (c *Controller) Confirm() (*models.GroceryItem, error) {
	if c.state != Active {
		return nil, ErrSessionNotActive
	}
	return c.picker.Confirm(c.session)
}

// RunningTotal is recomputed from the session's items on every call.
func (c *Controller) RunningTotal() float64 {
	if c.session == nil {
		return 0
	}
	return Total(c.session.Items)
}

// End stops the clock, stamps the end time and freezes the total. It does not
// complete the list; whoever observes the session ending does that.
func (c *Controller) End() error {
	ended, err := c.Ending()
	if err != nil {
		return err
	}
	return c.Finish(ended)
}

// Ending returns a copy of the session as End would leave it. The controller
// is not changed, so the copy can be saved before committing with Finish.
func (c *Controller) Ending() (*models.ShoppingSession, error) {
	if c.state != Active {
		return nil, ErrSessionNotActive
	}
	ended := *c.session
	end := c.now()
	ended.EndTime = &end
	ended.TotalCost = Total(c.session.Items)
	return &ended, nil
}

// Finish ends the session with the end time and total of a copy taken by
// Ending.
func (c *Controller) Finish(ended *models.ShoppingSession) error {
	if c.state != Active {
		return ErrSessionNotActive
	}
	if ended == nil || ended.ID != c.session.ID || ended.EndTime == nil {
		return fmt.Errorf("finish: snapshot does not belong to session %s", c.session.ID)
	}
	c.clock.Stop()
	end := *ended.EndTime
	c.session.EndTime = &end
	c.session.TotalCost = ended.TotalCost
	c.picker.Reset()
	c.state = Ended
	return nil
}

// Total sums actual price × quantity over bought items. A missing price
// counts as zero.
func Total(items []*models.GroceryItem) float64 {
	var sum float64
	for _, it := range items {
		if it.IsBought() {
			sum += it.LineTotal()
		}
	}
	return sum
}
