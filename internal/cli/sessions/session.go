package sessions

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/format"
	"github.com/julianstephens/basket/internal/service"
)

type SessionStartCmd struct {
	List string `arg:"" optional:"" help:"List name or ID (default: newest list)."`
}

func (c *SessionStartCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	l, err := ctx.Service.FindList(id, c.List)
	if err != nil {
		return err
	}
	ctrl, err := ctx.Service.StartSession(l.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Started shopping on %s (session %s)\n", l.Name, ctrl.Session().ID)
	return nil
}

type SessionPickCmd struct {
	Item     string `arg:"" help:"Item name or ID."`
	Price    string `arg:"" help:"Unit price paid (',' or '.' as decimal separator)."`
	List     string `short:"l" help:"List name or ID (default: newest list)."`
	Quantity int    `short:"q" help:"Quantity bought (default: quantity requested)."`
	Promo    bool   `help:"Item was on promotion."`
}

func (c *SessionPickCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	l, err := ctx.Service.FindList(id, c.List)
	if err != nil {
		return err
	}
	it, err := ctx.Service.FindItem(l.ID, c.Item)
	if err != nil {
		return err
	}
	ctrl, err := ctx.Service.ResumeSession(l.ID)
	if errors.Is(err, service.ErrNoActiveSession) {
		return fmt.Errorf("%w; start one with 'basket session start %s'", err, l.Name)
	}
	if err != nil {
		return err
	}

	qty := c.Quantity
	if qty == 0 {
		qty = it.Quantity
	}
	picked, err := ctx.Service.Pick(ctrl, it.ID, service.PickInput{
		PriceText: c.Price,
		Quantity:  qty,
		Promo:     c.Promo,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Picked %dx %s at %s = %s\n",
		picked.Quantity, picked.Name, ctx.Money(*picked.ActualPrice), ctx.Money(picked.LineTotal()))
	fmt.Printf("Running total: %s\n", ctx.Money(ctrl.RunningTotal()))
	return nil
}

type SessionEndCmd struct {
	List string `arg:"" optional:"" help:"List name or ID (default: newest list)."`
}

func (c *SessionEndCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	l, err := ctx.Service.FindList(id, c.List)
	if err != nil {
		return err
	}
	ctrl, err := ctx.Service.ResumeSession(l.ID)
	if err != nil {
		return err
	}
	session, err := ctx.Service.EndSession(ctrl)
	if err != nil {
		return err
	}
	sum, err := ctx.Service.SessionSummary(session.ID)
	if err != nil {
		return err
	}
	printSummary(ctx, sum)
	return nil
}

type SessionListCmd struct {
	List    string `arg:"" optional:"" help:"Only sessions of this list."`
	ShowIDs bool   `help:"Show session IDs." name:"show-ids"`
}

func (c *SessionListCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	listID := ""
	if c.List != "" {
		l, err := ctx.Service.FindList(id, c.List)
		if err != nil {
			return err
		}
		listID = l.ID
	}

	entries, err := ctx.Service.History(id)
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}

	now := time.Now()
	shown := 0
	for _, e := range entries {
		if listID != "" && e.Session.ListID != listID {
			continue
		}
		if shown == 0 {
			fmt.Printf("%-17s %-20s %-8s %-12s %s\n", "Started", "List", "Length", "Total", "Status")
			fmt.Println(strings.Repeat("-", 70))
		}
		shown++

		status := "ended"
		total := e.Session.TotalCost
		if e.Session.IsActive() {
			status = "in progress"
			sum, err := ctx.Service.SessionSummary(e.Session.ID)
			if err != nil {
				return err
			}
			total = sum.Total
		}
		fmt.Printf("%-17s %-20s %-8s %-12s %s\n",
			e.Session.StartTime.Local().Format(constants.DateTimeFormat),
			truncate(e.ListName, 20),
			format.Minutes(e.Session.Duration(now)),
			ctx.Money(total),
			status)
		if c.ShowIDs {
			fmt.Printf("  ID: %s\n", e.Session.ID)
		}
	}
	if shown == 0 {
		fmt.Println("No shopping sessions yet.")
	}
	return nil
}

type SessionShowCmd struct {
	Session string `arg:"" help:"Session ID."`
}

func (c *SessionShowCmd) Run(ctx *cli.Context) error {
	sum, err := loadSummary(ctx, c.Session)
	if err != nil {
		return err
	}
	printSummary(ctx, sum)
	return nil
}

type SessionDeleteCmd struct {
	Session string `arg:"" help:"Session ID."`
	Yes     bool   `short:"y" help:"Skip confirmation."`
}

func (c *SessionDeleteCmd) Run(ctx *cli.Context) error {
	sum, err := loadSummary(ctx, c.Session)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete the session of %s (%s)? Its items stay on the list.",
			sum.Session.StartTime.Local().Format(constants.DateTimeFormat), ctx.Money(sum.Total)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}
	if err := ctx.Service.DeleteSession(sum.Session.ID); err != nil {
		return err
	}
	fmt.Println("Session deleted.")
	return nil
}

// loadSummary loads a session of the active household.
func loadSummary(ctx *cli.Context, sessionID string) (*service.Summary, error) {
	id, err := ctx.Household()
	if err != nil {
		return nil, err
	}
	sum, err := ctx.Service.SessionSummary(sessionID)
	if err != nil {
		return nil, err
	}
	if sum.List == nil || sum.List.HouseholdID != id.Household.ID {
		return nil, service.ErrSessionNotFound
	}
	return sum, nil
}

func printSummary(ctx *cli.Context, sum *service.Summary) {
	listName := "(deleted list)"
	if sum.List != nil {
		listName = sum.List.Name
	}
	status := "ended"
	if sum.Session.IsActive() {
		status = "in progress"
	}

	fmt.Printf("Shopping on %s (%s)\n", listName, status)
	fmt.Printf("  Started:  %s\n", sum.Session.StartTime.Local().Format(constants.DateTimeFormat))
	fmt.Printf("  Duration: %s\n", format.Minutes(sum.Duration))
	fmt.Printf("  Items:    %d\n", len(sum.Items))
	for _, it := range sum.Items {
		promo := ""
		if it.IsPromo {
			promo = " (promo)"
		}
		fmt.Printf("    %dx %-20s %s%s\n", it.Quantity, truncate(it.Name, 20), ctx.Money(it.LineTotal()), promo)
	}
	fmt.Printf("  Total:    %s\n", ctx.Money(sum.Total))
	if len(sum.Split) > 0 {
		fmt.Println("  By who asked:")
		for _, share := range sum.Split {
			fmt.Printf("    %-16s %s (%d items)\n", share.Author, ctx.Money(share.Total), share.Items)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
