package sessions

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/format"
)

type StatsCmd struct {
	JSON bool `help:"Print the aggregates as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	st, err := ctx.Service.Stats(id)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	if c.JSON {
		out, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	now := time.Now()

	fmt.Printf("Stats for %s\n\n", id.Household.Name)
	fmt.Printf("  This month (%s): %s\n",
		format.MonthName(now.Year(), now.Month(), settings.MonthLocale), ctx.Money(st.CurrentMonthSpend))

	if it := st.MostExpensiveItem; it != nil {
		price := 0.0
		if it.ActualPrice != nil {
			price = *it.ActualPrice
		}
		fmt.Printf("  Most expensive item: %s at %s\n", it.Name, ctx.Money(price))
	} else {
		fmt.Println("  Most expensive item: -")
	}

	if s := st.LongestSession; s != nil {
		fmt.Printf("  Longest trip: %s on %s\n", format.Minutes(s.Duration(now)), s.StartTime.Local().Format(constants.DateFormat))
	} else {
		fmt.Println("  Longest trip: -")
	}

	if len(st.MonthlyHistory) == 0 {
		fmt.Println("\nNo finished trips yet.")
		return nil
	}
	fmt.Println("\nMonthly spending:")
	for _, m := range st.MonthlyHistory {
		fmt.Printf("  %-20s %s\n", format.MonthName(m.Year, m.Month, settings.MonthLocale), ctx.Money(m.Total))
	}
	return nil
}

// HistoryCmd lists finished trips grouped by month, newest first.
type HistoryCmd struct {
	Limit int `short:"n" help:"Show at most this many trips (0 for all)." default:"0"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	entries, err := ctx.Service.History(id)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	loc, err := settings.Location()
	if err != nil {
		return err
	}

	now := time.Now()
	shown := 0
	header := ""
	for _, e := range entries {
		if e.Session.IsActive() {
			continue
		}
		if c.Limit > 0 && shown == c.Limit {
			break
		}
		start := e.Session.StartTime.In(loc)
		if h := format.MonthName(start.Year(), start.Month(), settings.MonthLocale); h != header {
			header = h
			fmt.Printf("\n%s\n", header)
		}
		fmt.Printf("  %s  %-20s %-8s %s  (%s)\n",
			start.Format("02"),
			truncate(e.ListName, 20),
			format.Minutes(e.Session.Duration(now)),
			ctx.Money(e.Session.TotalCost),
			format.Ago(e.Session.StartTime, now))
		shown++
	}
	if shown == 0 {
		fmt.Println("No finished trips yet.")
	}
	return nil
}
