package memstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
)

var baseTime = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

func fptr(f float64) *float64 { return &f }

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := setupTestStore(t)
	item := &models.GroceryItem{ID: "a", ListID: "l1", Name: "Pão", Quantity: 1, Status: models.StatusPending, EstimatedPrice: fptr(2), CreatedAt: baseTime}
	if err := s.AddItem(item); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	item.Name = "changed"
	*item.EstimatedPrice = 99

	got, err := s.GetItem("a")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Name != "Pão" || *got.EstimatedPrice != 2 {
		t.Errorf("store shares memory with caller: %+v", got)
	}

	got.Status = models.StatusBought
	again, _ := s.GetItem("a")
	if again.Status != models.StatusPending {
		t.Error("mutating a returned item changed the store")
	}
}

func TestNotFoundAndDuplicates(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.GetList("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetList error = %v, want ErrNotFound", err)
	}
	if err := s.UpdateSession(&models.ShoppingSession{ID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateSession error = %v, want ErrNotFound", err)
	}

	u := &models.User{ID: "u1", Name: "Ana"}
	if err := s.AddUser(u); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	if err := s.AddUser(u); err == nil {
		t.Error("adding the same user twice should fail")
	}

	if err := s.AddHousehold(&models.Household{ID: "h1", JoinCode: "abcdef"}); err != nil {
		t.Fatalf("AddHousehold failed: %v", err)
	}
	if err := s.AddHousehold(&models.Household{ID: "h2", JoinCode: "ABCDEF"}); err == nil {
		t.Error("duplicate join code should be rejected")
	}
	h, err := s.GetHouseholdByJoinCode(" abcdef ")
	if err != nil || h.ID != "h1" {
		t.Errorf("GetHouseholdByJoinCode = %v, %v", h, err)
	}
}

func TestCascades(t *testing.T) {
	s := setupTestStore(t)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.AddHousehold(&models.Household{ID: "h1", JoinCode: "AAAAAA"}))
	must(s.AddUser(&models.User{ID: "u1", Name: "Ana", HouseholdID: "h1"}))
	must(s.AddList(&models.ShoppingList{ID: "l1", HouseholdID: "h1", CreatedAt: baseTime}))
	must(s.AddList(&models.ShoppingList{ID: "l2", HouseholdID: "h1", CreatedAt: baseTime.Add(time.Hour)}))
	must(s.AddSession(&models.ShoppingSession{ID: "s1", ListID: "l1", StartTime: baseTime}))
	must(s.AddItem(&models.GroceryItem{ID: "a", ListID: "l1", SessionID: "s1", Status: models.StatusBought}))
	must(s.AddItem(&models.GroceryItem{ID: "b", ListID: "l2", Status: models.StatusPending}))

	must(s.DeleteSession("s1"))
	a, err := s.GetItem("a")
	if err != nil || a.SessionID != "" {
		t.Fatalf("item a after session delete = %+v, %v", a, err)
	}

	must(s.DeleteList("l1"))
	if _, err := s.GetItem("a"); !errors.Is(err, storage.ErrNotFound) {
		t.Error("list delete should remove its items")
	}

	must(s.DeleteHousehold("h1"))
	if _, err := s.GetList("l2"); !errors.Is(err, storage.ErrNotFound) {
		t.Error("household delete should remove its lists")
	}
	if _, err := s.GetItem("b"); !errors.Is(err, storage.ErrNotFound) {
		t.Error("household delete should remove list items")
	}
	u, err := s.GetUser("u1")
	if err != nil || u.HouseholdID != "" {
		t.Errorf("member after household delete = %+v, %v", u, err)
	}
}

func TestQueries(t *testing.T) {
	s := setupTestStore(t)
	end := baseTime.Add(time.Hour)
	_ = s.AddList(&models.ShoppingList{ID: "l1", HouseholdID: "h1"})
	_ = s.AddList(&models.ShoppingList{ID: "l2", HouseholdID: "h2"})
	_ = s.AddSession(&models.ShoppingSession{ID: "old", ListID: "l1", StartTime: baseTime, EndTime: &end})
	_ = s.AddSession(&models.ShoppingSession{ID: "new", ListID: "l1", StartTime: baseTime.Add(24 * time.Hour)})
	_ = s.AddSession(&models.ShoppingSession{ID: "other", ListID: "l2", StartTime: baseTime})
	_ = s.AddItem(&models.GroceryItem{ID: "b", ListID: "l1", CreatedAt: baseTime.Add(time.Minute), Status: models.StatusPending})
	_ = s.AddItem(&models.GroceryItem{ID: "a", ListID: "l1", CreatedAt: baseTime, Status: models.StatusBought})
	_ = s.AddItem(&models.GroceryItem{ID: "c", ListID: "l2", CreatedAt: baseTime, Status: models.StatusPending})

	sessions, _ := s.QuerySessions(storage.SessionQuery{HouseholdID: "h1"})
	if len(sessions) != 2 || sessions[0].ID != "new" {
		t.Errorf("household sessions = %v", sessions)
	}
	oldest, _ := s.QuerySessions(storage.SessionQuery{ListID: "l1", OldestFirst: true})
	if len(oldest) != 2 || oldest[0].ID != "old" {
		t.Errorf("oldest-first sessions = %v", oldest)
	}
	active, _ := s.QuerySessions(storage.SessionQuery{ActiveOnly: true, ListID: "l1"})
	if len(active) != 1 || active[0].ID != "new" {
		t.Errorf("active sessions = %v", active)
	}

	items, _ := s.QueryItems(storage.ItemQuery{HouseholdID: "h1"})
	if len(items) != 2 || items[0].ID != "a" || items[1].ID != "b" {
		t.Errorf("household items = %v", items)
	}
	pending, _ := s.QueryItems(storage.ItemQuery{Status: models.StatusPending})
	if len(pending) != 2 {
		t.Errorf("pending items = %v", pending)
	}
}

func TestWithTx(t *testing.T) {
	s := setupTestStore(t)
	_ = s.AddList(&models.ShoppingList{ID: "l1"})
	boom := errors.New("boom")

	err := s.WithTx(func(p storage.Provider) error {
		if err := p.UpdateList(&models.ShoppingList{ID: "l1", IsCompleted: true}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want boom", err)
	}
	l, _ := s.GetList("l1")
	if l.IsCompleted {
		t.Error("failed transaction leaked a write")
	}

	err = s.WithTx(func(p storage.Provider) error {
		if err := p.AddItem(&models.GroceryItem{ID: "x", ListID: "l1"}); err != nil {
			return err
		}
		return p.UpdateList(&models.ShoppingList{ID: "l1", IsCompleted: true})
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}
	l, _ = s.GetList("l1")
	if !l.IsCompleted {
		t.Error("committed write is missing")
	}
	if _, err := s.GetItem("x"); err != nil {
		t.Errorf("committed item missing: %v", err)
	}
}

func TestJSONPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basket.json")

	s := NewJSON(path)
	if err := s.Load(); err == nil {
		t.Fatal("Load before Init should fail")
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	settings, _ := s.GetSettings()
	settings.CurrencySymbol = "€"
	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	end := baseTime.Add(15 * time.Minute)
	if err := s.AddSession(&models.ShoppingSession{ID: "s1", StartTime: baseTime, EndTime: &end, TotalCost: 7.5}); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}

	reloaded := NewJSON(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := reloaded.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.TotalCost != 7.5 || got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Errorf("session after reload = %+v", got)
	}
	rs, _ := reloaded.GetSettings()
	if rs.CurrencySymbol != "€" {
		t.Errorf("settings after reload = %+v", rs)
	}
	if reloaded.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q", reloaded.GetConfigPath())
	}
}

func TestJSONFailedWriteKeepsMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basket.json")
	s := NewJSON(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := s.AddList(&models.ShoppingList{ID: "l1", Name: "Feira", CreatedAt: baseTime}); err != nil {
		t.Fatalf("AddList failed: %v", err)
	}

	// A directory in the temp file's place makes every flush fail.
	if err := os.Mkdir(path+".tmp", 0700); err != nil {
		t.Fatalf("failed to block temp file: %v", err)
	}

	if err := s.AddList(&models.ShoppingList{ID: "l2", Name: "Mercado", CreatedAt: baseTime}); err == nil {
		t.Fatal("AddList should fail when the file cannot be written")
	}
	if _, err := s.GetList("l2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetList(l2) error = %v, want ErrNotFound", err)
	}

	err := s.WithTx(func(tx storage.Provider) error {
		return tx.DeleteList("l1")
	})
	if err == nil {
		t.Fatal("WithTx should fail when the file cannot be written")
	}
	if _, err := s.GetList("l1"); err != nil {
		t.Errorf("failed transaction removed l1: %v", err)
	}

	if err := os.Remove(path + ".tmp"); err != nil {
		t.Fatalf("failed to unblock temp file: %v", err)
	}
	if err := s.AddList(&models.ShoppingList{ID: "l2", Name: "Mercado", CreatedAt: baseTime}); err != nil {
		t.Fatalf("AddList after unblocking failed: %v", err)
	}
}
