// Package format renders amounts, durations, months and list texts for
// display. Nothing here feeds back into calculations.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/models"
)

// Currency renders amount with two decimals after symbol, e.g. "R$ 6.00".
func Currency(symbol string, amount float64) string {
	if symbol == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", symbol, amount)
}

// Minutes renders whole minutes, e.g. "12 min".
func Minutes(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%d min", int(d/time.Minute))
}

// Ago renders t relative to now, e.g. "3 hours ago".
func Ago(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

var monthNames = map[language.Base][12]string{
	mustBase("pt"): {"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	mustBase("es"): {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
}

func mustBase(s string) language.Base {
	b, err := language.ParseBase(s)
	if err != nil {
		panic(err)
	}
	return b
}

// MonthName renders "Outubro 2026" for locale "pt-BR". Unknown or
// unsupported locales fall back to English.
func MonthName(year int, month time.Month, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	base, _ := tag.Base()

	name := month.String()
	if names, ok := monthNames[base]; ok && month >= time.January && month <= time.December {
		name = names[month-1]
	} else {
		tag = language.English
	}
	return cases.Title(tag).String(fmt.Sprintf("%s %d", name, year))
}

const rule = "--------------------------------------------------\n"

// ExportText renders a list as a table of lines with unit price, line total
// and author, followed by the grand total. Unpriced items count as zero.
func ExportText(list *models.ShoppingList, items []*models.GroceryItem, symbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 Lista: %s\n", list.Name)
	fmt.Fprintf(&b, "📅 Data: %s\n", list.CreatedAt.Local().Format(constants.DateTimeFormat))
	b.WriteString(rule)
	b.WriteString("Item | Qtd | Preço Unit. | Total | Quem pediu\n")
	b.WriteString(rule)

	var grand float64
	for _, it := range items {
		var price float64
		if it.ActualPrice != nil {
			price = *it.ActualPrice
		}
		line := it.LineTotal()
		grand += line
		fmt.Fprintf(&b, "%s | %d | %s | %s | %s\n", it.Name, it.Quantity, Currency(symbol, price), Currency(symbol, line), it.AuthorName)
	}

	b.WriteString(rule)
	fmt.Fprintf(&b, "TOTAL GERAL: %s\n", Currency(symbol, grand))
	return b.String()
}

// ShareText renders a list split into what is still to buy and what is
// already in the cart or bought.
func ShareText(list *models.ShoppingList, items []*models.GroceryItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 Lista: %s\n\n", list.Name)
	if len(items) == 0 {
		b.WriteString("(Lista vazia)")
		return b.String()
	}

	var pending, done []*models.GroceryItem
	for _, it := range items {
		if it.Status == models.StatusPending {
			pending = append(pending, it)
		} else {
			done = append(done, it)
		}
	}

	if len(pending) > 0 {
		b.WriteString("📝 A Comprar:\n")
		for _, it := range pending {
			fmt.Fprintf(&b, "- %s (%dx)\n", it.Name, it.Quantity)
		}
		b.WriteString("\n")
	}
	if len(done) > 0 {
		b.WriteString("✅ Comprados:\n")
		for _, it := range done {
			fmt.Fprintf(&b, "- %s\n", it.Name)
		}
	}
	return b.String()
}
