package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/logger"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/service"
	"github.com/julianstephens/basket/internal/shopping"
	"github.com/julianstephens/basket/internal/tui/components/itemlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.items.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case shopping.TickMsg:
		return m, m.ctrl.Clock().Update(msg)
	}

	switch m.state {
	case StatePicking:
		return m.updatePicking(msg)
	case StateConfirmEnd:
		return m.updateConfirmEnd(msg)
	case StateSummary:
		if msg, ok := msg.(tea.KeyMsg); ok && (key.Matches(msg, m.keys.Quit) || msg.Type == tea.KeyEnter) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	return m.updateShopping(msg)
}

func (m Model) updateShopping(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.items.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.End):
			m.err = ""
			m.state = StateConfirmEnd
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case itemlist.PickItemMsg:
		return m.startPicking(msg.Item)
	}

	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

// startPicking stages item on the controller and opens the form with the
// staged values.
func (m Model) startPicking(item *models.GroceryItem) (tea.Model, tea.Cmd) {
	if err := m.ctrl.Select(item); err != nil {
		m.err = err.Error()
		return m, nil
	}
	p := m.ctrl.Picker()
	m.picking = item
	m.pickForm = &PickFormModel{
		Price:    p.PriceText,
		Quantity: strconv.Itoa(p.Quantity),
		Promo:    p.Promo,
	}
	m.form = newPickForm(item, m.pickForm)
	m.err = ""
	m.state = StatePicking
	return m, m.form.Init()
}

func newPickForm(item *models.GroceryItem, fm *PickFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Price").
				Description(fmt.Sprintf("Unit price for %s (use , or .)", item.Name)).
				Value(&fm.Price).
				Validate(func(s string) error {
					_, err := shopping.ParsePrice(s)
					return err
				}),
			huh.NewInput().
				Title(fmt.Sprintf("Quantity (%d-%d)", constants.MinQuantity, constants.MaxQuantity)).
				Value(&fm.Quantity).
				Validate(func(s string) error {
					_, err := parseQuantity(s)
					return err
				}),
			huh.NewConfirm().
				Title("Promo?").
				Value(&fm.Promo),
		),
	).WithShowHelp(true)
}

func parseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &shopping.ValidationError{Field: "quantity", Value: s, Err: shopping.ErrInvalidQuantity}
	}
	return q, shopping.ValidateQuantity(q)
}

func (m Model) updatePicking(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.cancelPicking()
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		var next tea.Cmd
		m, next = m.finishPicking()
		cmds = append(cmds, next)
	case huh.StateAborted:
		m.cancelPicking()
	}
	return m, tea.Batch(cmds...)
}

// finishPicking submits a completed form. On failure a fresh form is opened
// with the values as typed, since a completed huh form cannot be reused.
func (m Model) finishPicking() (Model, tea.Cmd) {
	if err := m.submitPick(); err != nil {
		m.err = err.Error()
		m.form = newPickForm(m.picking, m.pickForm)
		return m, m.form.Init()
	}
	m.state = StateShopping
	return m, nil
}

// submitPick commits the form through the service, which persists the item.
func (m *Model) submitPick() error {
	qty, err := parseQuantity(m.pickForm.Quantity)
	if err != nil {
		return err
	}
	_, err = m.svc.Pick(m.ctrl, m.picking.ID, service.PickInput{
		PriceText: m.pickForm.Price,
		Quantity:  qty,
		Promo:     m.pickForm.Promo,
	})
	if err != nil {
		return err
	}
	m.picking = nil
	m.pickForm = nil
	m.err = ""
	m.refreshItems()
	return nil
}

func (m *Model) cancelPicking() {
	m.ctrl.Picker().Reset()
	m.picking = nil
	m.pickForm = nil
	m.state = StateShopping
}

func (m Model) updateConfirmEnd(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.endSession(); err != nil {
			m.err = err.Error()
			m.state = StateShopping
		}
	case key.Matches(keyMsg, m.keys.Cancel):
		m.state = StateShopping
	}
	return m, nil
}

func (m *Model) endSession() error {
	session, err := m.svc.EndSession(m.ctrl)
	if err != nil {
		return err
	}
	summary, err := m.svc.SessionSummary(session.ID)
	if err != nil {
		logger.Warn("Failed to load session summary", "session", session.ID, "error", err)
		summary = &service.Summary{
			Session:  session,
			List:     m.ctrl.List(),
			Items:    session.Items,
			Total:    session.TotalCost,
			Duration: m.ctrl.Clock().Elapsed(),
		}
	}
	m.summary = summary
	m.state = StateSummary
	return nil
}
