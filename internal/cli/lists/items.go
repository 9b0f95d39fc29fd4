package lists

import (
	"fmt"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/service"
	"github.com/julianstephens/basket/internal/shopping"
)

type ItemAddCmd struct {
	Name     string   `arg:"" help:"Item name."`
	List     string   `short:"l" help:"List name or ID (default: newest list)."`
	Quantity int      `short:"q" help:"Quantity (1-100)." default:"1"`
	Category string   `short:"c" help:"Category key or label (bakery, produce, meat, dairy, pantry, cleaning, drinks, other)." default:"other"`
	Author   string   `help:"Who asked for the item (default: active user)."`
	Estimate *float64 `help:"Estimated unit price."`
}

func (c *ItemAddCmd) Validate() error {
	if err := shopping.ValidateQuantity(c.Quantity); err != nil {
		return err
	}
	_, err := models.ParseCategory(c.Category)
	return err
}

func (c *ItemAddCmd) Run(ctx *cli.Context) error {
	id, l, err := resolveList(ctx, c.List)
	if err != nil {
		return err
	}
	cat, err := models.ParseCategory(c.Category)
	if err != nil {
		return err
	}
	it, err := ctx.Service.AddItem(id, l.ID, service.ItemInput{
		Name:           c.Name,
		Quantity:       c.Quantity,
		Category:       cat,
		Author:         c.Author,
		EstimatedPrice: c.Estimate,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added %dx %s to %s (%s)\n", it.Quantity, it.Name, l.Name, it.Category.Label())
	return nil
}

type ItemRemoveCmd struct {
	Item string `arg:"" help:"Item name or ID."`
	List string `short:"l" help:"List name or ID (default: newest list)."`
}

func (c *ItemRemoveCmd) Run(ctx *cli.Context) error {
	_, l, err := resolveList(ctx, c.List)
	if err != nil {
		return err
	}
	it, err := ctx.Service.FindItem(l.ID, c.Item)
	if err != nil {
		return err
	}
	if err := ctx.Service.DeleteItem(it.ID); err != nil {
		return err
	}
	fmt.Printf("Removed %s from %s\n", it.Name, l.Name)
	return nil
}

type ItemToggleCmd struct {
	Item string `arg:"" help:"Item name or ID."`
	List string `short:"l" help:"List name or ID (default: newest list)."`
}

func (c *ItemToggleCmd) Run(ctx *cli.Context) error {
	_, l, err := resolveList(ctx, c.List)
	if err != nil {
		return err
	}
	it, err := ctx.Service.FindItem(l.ID, c.Item)
	if err != nil {
		return err
	}
	it, err = ctx.Service.ToggleItem(it.ID)
	if err != nil {
		return err
	}
	if it.IsBought() {
		fmt.Printf("%s was already bought; nothing changed\n", it.Name)
		return nil
	}
	fmt.Printf("%s is now %s\n", it.Name, it.Status)
	return nil
}
