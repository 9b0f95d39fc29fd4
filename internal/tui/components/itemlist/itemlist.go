package itemlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/basket/internal/format"
	"github.com/julianstephens/basket/internal/models"
)

// PickItemMsg asks the parent to open the picking form for an item.
type PickItemMsg struct {
	Item *models.GroceryItem
}

type Item struct {
	Item   *models.GroceryItem
	Symbol string
}

func (i Item) Title() string {
	if i.Item.IsBought() {
		return "✓ " + i.Item.Name
	}
	return i.Item.Name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%dx | %s | %s", i.Item.Quantity, i.Item.Category.Label(), i.Item.AuthorName)
	switch {
	case i.Item.IsBought():
		desc += " | " + format.Currency(i.Symbol, i.Item.LineTotal())
		if i.Item.IsPromo {
			desc += " (promo)"
		}
	case i.Item.EstimatedPrice != nil:
		desc += " | ~" + format.Currency(i.Symbol, *i.Item.EstimatedPrice)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Item.Name }

type KeyMap struct {
	Pick key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Pick: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "pick"),
		),
	}
}

type Model struct {
	list   list.Model
	keys   KeyMap
	symbol string
}

func New(items []*models.GroceryItem, symbol string, width, height int) Model {
	l := list.New(toListItems(items, symbol), list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Pick}
	}
	return Model{list: l, keys: keys, symbol: symbol}
}

// toListItems puts items still to buy first, keeping their relative order.
func toListItems(items []*models.GroceryItem, symbol string) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		if !it.IsBought() {
			out = append(out, Item{Item: it, Symbol: symbol})
		}
	}
	for _, it := range items {
		if it.IsBought() {
			out = append(out, Item{Item: it, Symbol: symbol})
		}
	}
	return out
}

func (m *Model) SetItems(items []*models.GroceryItem) {
	m.list.SetItems(toListItems(items, m.symbol))
}

// Selected returns the highlighted item, or nil.
func (m Model) Selected() *models.GroceryItem {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Item
	}
	return nil
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		if key.Matches(msg, m.keys.Pick) {
			if it := m.Selected(); it != nil {
				return m, func() tea.Msg { return PickItemMsg{Item: it} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  This list is empty.\n  Add items with 'basket item add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
