// Package tui is the interactive shopping screen: the item list with a live
// clock and running total, the picking form, and the end-of-trip summary.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/service"
	"github.com/julianstephens/basket/internal/shopping"
	"github.com/julianstephens/basket/internal/tui/components/itemlist"
)

type ScreenState int

const (
	StateShopping ScreenState = iota
	StatePicking
	StateConfirmEnd
	StateSummary
)

// PickFormModel holds the picking form's field values as typed.
type PickFormModel struct {
	Price    string
	Quantity string
	Promo    bool
}

type Model struct {
	svc    *service.Service
	ctrl   *shopping.Controller
	symbol string

	state    ScreenState
	keys     KeyMap
	help     help.Model
	items    itemlist.Model
	form     *huh.Form
	pickForm *PickFormModel
	picking  *models.GroceryItem
	summary  *service.Summary

	// err is the last failure shown in the status line.
	err      string
	quitting bool
	width    int
	height   int
}

// NewModel builds the shopping screen for a controller with an active
// session.
func NewModel(svc *service.Service, ctrl *shopping.Controller, settings models.Settings) Model {
	m := Model{
		svc:    svc,
		ctrl:   ctrl,
		symbol: settings.CurrencySymbol,
		state:  StateShopping,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		items:  itemlist.New(nil, settings.CurrencySymbol, 0, 0),
	}
	m.refreshItems()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.ctrl.Clock().Tick()
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateConfirmEnd:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case StateSummary:
		return []key.Binding{m.keys.Quit}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// Summary is set once the session has been ended from this screen.
func (m Model) Summary() *service.Summary {
	return m.summary
}

func (m *Model) refreshItems() {
	items, err := m.svc.ListItems(m.ctrl.List().ID)
	if err != nil {
		m.err = err.Error()
		return
	}
	m.items.SetItems(items)
}
