package lists

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/format"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/service"
)

type ListCreateCmd struct {
	Name  string `arg:"" help:"List name."`
	Color string `help:"Color tag (default from settings)."`
}

func (c *ListCreateCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	l, err := ctx.Service.CreateList(id, c.Name, c.Color)
	if err != nil {
		return err
	}
	fmt.Printf("Created list: %s [%s] (ID: %s)\n", l.Name, l.ColorName, l.ID)
	return nil
}

type ListListCmd struct {
	ShowIDs bool `help:"Show list IDs." name:"show-ids"`
	Open    bool `help:"Show only lists that are not completed."`
}

func (c *ListListCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	lists, err := ctx.Service.Lists(id)
	if err != nil {
		return fmt.Errorf("failed to get lists: %w", err)
	}
	if len(lists) == 0 {
		fmt.Println("No lists found. Create one with 'basket list create <name>'.")
		return nil
	}

	now := time.Now()
	fmt.Printf("%-24s %-14s %-6s %-10s %s\n", "Name", "Color", "Items", "Status", "Created")
	fmt.Println(strings.Repeat("-", 72))
	for _, l := range lists {
		if c.Open && l.IsCompleted {
			continue
		}
		items, err := ctx.Service.ListItems(l.ID)
		if err != nil {
			return fmt.Errorf("failed to get items for %s: %w", l.Name, err)
		}
		status := "open"
		if l.IsCompleted {
			status = "completed"
		}
		name := l.Name
		if len(name) > 22 {
			name = name[:19] + "..."
		}
		fmt.Printf("%-24s %-14s %-6d %-10s %s\n", name, l.ColorName, len(items), status, format.Ago(l.CreatedAt, now))
		if c.ShowIDs {
			fmt.Printf("  ID: %s\n", l.ID)
		}
	}
	return nil
}

type ListShowCmd struct {
	List    string `arg:"" optional:"" help:"List name or ID (default: newest list)."`
	ShowIDs bool   `help:"Show item IDs." name:"show-ids"`
}

func (c *ListShowCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	l, err := ctx.Service.FindList(id, c.List)
	if err != nil {
		return err
	}
	items, err := ctx.Service.ListItems(l.ID)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}

	status := ""
	if l.IsCompleted {
		status = " (completed)"
	}
	fmt.Printf("%s [%s]%s\n", l.Name, l.ColorName, status)
	if len(items) == 0 {
		fmt.Println("  (empty)")
		return nil
	}

	for _, cat := range models.Categories {
		var group []*models.GroceryItem
		for _, it := range items {
			if it.Category == cat {
				group = append(group, it)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Printf("\n%s\n", cat.Label())
		for _, it := range group {
			fmt.Printf("  %s\n", c.itemLine(ctx, it))
		}
	}
	return nil
}

func (c *ListShowCmd) itemLine(ctx *cli.Context, it *models.GroceryItem) string {
	mark := map[models.ItemStatus]string{
		models.StatusPending: "[ ]",
		models.StatusInCart:  "[~]",
		models.StatusBought:  "[x]",
	}[it.Status]

	line := fmt.Sprintf("%s %dx %s - %s", mark, it.Quantity, it.Name, it.AuthorName)
	switch {
	case it.IsBought():
		line += " " + ctx.Money(it.LineTotal())
		if it.IsPromo {
			line += " (promo)"
		}
	case it.EstimatedPrice != nil:
		line += " ~" + ctx.Money(*it.EstimatedPrice)
	}
	if c.ShowIDs {
		line += fmt.Sprintf(" (ID: %s)", it.ID)
	}
	return line
}

type ListDeleteCmd struct {
	List string `arg:"" help:"List name or ID."`
	Yes  bool   `short:"y" help:"Skip confirmation."`
}

func (c *ListDeleteCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	l, err := ctx.Service.FindList(id, c.List)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete list %q with its items and shopping history?", l.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.Service.DeleteList(l.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted list: %s\n", l.Name)
	return nil
}

type ListExportCmd struct {
	List   string `arg:"" optional:"" help:"List name or ID (default: newest list)."`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ListExportCmd) Run(ctx *cli.Context) error {
	l, items, err := loadList(ctx, c.List)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	return write(c.Output, format.ExportText(l, items, settings.CurrencySymbol))
}

type ListShareCmd struct {
	List   string `arg:"" optional:"" help:"List name or ID (default: newest list)."`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ListShareCmd) Run(ctx *cli.Context) error {
	l, items, err := loadList(ctx, c.List)
	if err != nil {
		return err
	}
	return write(c.Output, format.ShareText(l, items))
}

func loadList(ctx *cli.Context, ref string) (*models.ShoppingList, []*models.GroceryItem, error) {
	_, l, err := resolveList(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	return ctx.Service.ListWithItems(l.ID)
}

func write(path, text string) error {
	if path == "" {
		fmt.Print(text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Println()
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// resolveList is shared by the item commands.
func resolveList(ctx *cli.Context, ref string) (*service.Identity, *models.ShoppingList, error) {
	id, err := ctx.Household()
	if err != nil {
		return nil, nil, err
	}
	l, err := ctx.Service.FindList(id, ref)
	if err != nil {
		return nil, nil, err
	}
	return id, l, nil
}
