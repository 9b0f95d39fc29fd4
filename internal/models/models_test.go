package models

import (
	"testing"
	"time"

	"github.com/julianstephens/basket/internal/constants"
)

func ptr(f float64) *float64 { return &f }

func TestGroceryItem_LineTotal(t *testing.T) {
	tests := []struct {
		name string
		item GroceryItem
		want float64
	}{
		{
			name: "priced item",
			item: GroceryItem{Quantity: 2, ActualPrice: ptr(3.0)},
			want: 6.0,
		},
		{
			name: "missing price counts as zero",
			item: GroceryItem{Quantity: 4},
			want: 0,
		},
		{
			name: "fractional price",
			item: GroceryItem{Quantity: 3, ActualPrice: ptr(1.25)},
			want: 3.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.LineTotal(); got != tt.want {
				t.Errorf("LineTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShoppingSession_Duration(t *testing.T) {
	start := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	now := start.Add(90 * time.Minute)

	active := ShoppingSession{StartTime: start}
	if got := active.Duration(now); got != 90*time.Minute {
		t.Errorf("active duration = %v, want 90m", got)
	}
	if !active.IsActive() {
		t.Error("session without end time should be active")
	}

	end := start.Add(25 * time.Minute)
	ended := ShoppingSession{StartTime: start, EndTime: &end}
	if got := ended.Duration(now); got != 25*time.Minute {
		t.Errorf("ended duration = %v, want 25m", got)
	}
	if ended.IsActive() {
		t.Error("session with end time should not be active")
	}
}

func TestShoppingSession_HasItem(t *testing.T) {
	s := ShoppingSession{Items: []*GroceryItem{{ID: "a"}, {ID: "b"}}}
	if !s.HasItem("b") {
		t.Error("expected item b to be linked")
	}
	if s.HasItem("c") {
		t.Error("item c should not be linked")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "dairy", want: CategoryDairy},
		{in: "Laticínios", want: CategoryDairy},
		{in: "", want: CategoryOther},
		{in: "toys", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryLabels(t *testing.T) {
	if len(Categories) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(Categories))
	}
	for _, c := range Categories {
		if c.Label() == string(c) {
			t.Errorf("category %q has no label", c)
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.ActiveUserID = "user-1"
	s.AutoBackup = false

	got, err := MapToSettings(SettingsToMap(s))
	if err != nil {
		t.Fatalf("MapToSettings: %v", err)
	}
	if got != s {
		t.Errorf("round trip = %+v, want %+v", got, s)
	}
}

func TestMapToSettingsRejectsBadBool(t *testing.T) {
	_, err := MapToSettings(map[string]string{constants.SettingAutoBackup: "maybe"})
	if err == nil {
		t.Error("expected error for invalid auto_backup value")
	}
}

func TestSettingsLocation(t *testing.T) {
	s := Settings{Timezone: "Local"}
	loc, err := s.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc != time.Local {
		t.Errorf("expected time.Local, got %v", loc)
	}

	s.Timezone = "America/Sao_Paulo"
	loc, err = s.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "America/Sao_Paulo" {
		t.Errorf("location = %s", loc)
	}

	s.Timezone = "Mars/Olympus"
	if _, err := s.Location(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	var s Settings
	ApplyDefaultSettings(&s)
	if s.CurrencySymbol != constants.DefaultCurrencySymbol {
		t.Errorf("currency = %q", s.CurrencySymbol)
	}
	if s.DefaultListColor != constants.DefaultListColor {
		t.Errorf("list color = %q", s.DefaultListColor)
	}
}
