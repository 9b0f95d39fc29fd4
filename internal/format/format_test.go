package format

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/basket/internal/models"
)

func fptr(f float64) *float64 { return &f }

func TestCurrency(t *testing.T) {
	tests := []struct {
		symbol string
		amount float64
		want   string
	}{
		{"R$", 6, "R$ 6.00"},
		{"R$", 12.5, "R$ 12.50"},
		{"€", 0.126, "€ 0.13"},
		{"", 3, "3.00"},
	}
	for _, tt := range tests {
		if got := Currency(tt.symbol, tt.amount); got != tt.want {
			t.Errorf("Currency(%q, %v) = %q, want %q", tt.symbol, tt.amount, got, tt.want)
		}
	}
}

func TestMinutes(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 min"},
		{59 * time.Second, "0 min"},
		{12*time.Minute + 30*time.Second, "12 min"},
		{2 * time.Hour, "120 min"},
		{-time.Minute, "0 min"},
	}
	for _, tt := range tests {
		if got := Minutes(tt.in); got != tt.want {
			t.Errorf("Minutes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMonthName(t *testing.T) {
	tests := []struct {
		locale string
		month  time.Month
		want   string
	}{
		{"pt-BR", time.October, "Outubro 2026"},
		{"pt", time.March, "Março 2026"},
		{"es-AR", time.January, "Enero 2026"},
		{"en-US", time.October, "October 2026"},
		{"de", time.May, "May 2026"},
		{"not a locale", time.July, "July 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := MonthName(2026, tt.month, tt.locale); got != tt.want {
				t.Errorf("MonthName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAgo(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	if got := Ago(now.Add(-3*time.Hour), now); got != "3 hours ago" {
		t.Errorf("Ago = %q", got)
	}
}

func TestExportText(t *testing.T) {
	list := &models.ShoppingList{Name: "Semana", CreatedAt: time.Date(2026, 10, 1, 9, 0, 0, 0, time.Local)}
	items := []*models.GroceryItem{
		{Name: "Pão", Quantity: 2, ActualPrice: fptr(3), AuthorName: "Ana", Status: models.StatusBought},
		{Name: "Leite", Quantity: 1, AuthorName: "Rui", Status: models.StatusPending},
	}

	got := ExportText(list, items, "R$")
	for _, want := range []string{
		"🛒 Lista: Semana\n",
		"📅 Data: 2026-10-01 09:00\n",
		"Pão | 2 | R$ 3.00 | R$ 6.00 | Ana\n",
		"Leite | 1 | R$ 0.00 | R$ 0.00 | Rui\n",
		"TOTAL GERAL: R$ 6.00\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("export text missing %q:\n%s", want, got)
		}
	}
}

func TestShareText(t *testing.T) {
	list := &models.ShoppingList{Name: "Feira"}

	if got := ShareText(list, nil); !strings.HasSuffix(got, "(Lista vazia)") {
		t.Errorf("empty share text = %q", got)
	}

	items := []*models.GroceryItem{
		{Name: "Banana", Quantity: 6, Status: models.StatusPending},
		{Name: "Café", Quantity: 1, Status: models.StatusInCart},
		{Name: "Arroz", Quantity: 1, Status: models.StatusBought},
	}
	got := ShareText(list, items)
	want := "🛒 Lista: Feira\n\n📝 A Comprar:\n- Banana (6x)\n\n✅ Comprados:\n- Café\n- Arroz\n"
	if got != want {
		t.Errorf("ShareText =\n%q\nwant\n%q", got, want)
	}
}
