package lists

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/service"
	"github.com/julianstephens/basket/internal/shopping"
	"github.com/julianstephens/basket/internal/storage/memstore"
)

func setupTestContext(t *testing.T) (*cli.Context, *service.Identity, func()) {
	store := memstore.New()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	ctx := cli.NewContext(store)
	ctx.In = strings.NewReader("")

	if _, err := ctx.Service.CreateUser(service.UserInput{Name: "Ana"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	id, err := ctx.Service.ActivateUser("Ana")
	if err != nil {
		t.Fatalf("ActivateUser failed: %v", err)
	}
	if _, err := ctx.Service.CreateHousehold(id, "Casa"); err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}

	cleanup := func() {
		ctx.Service.Close()
		store.Close()
	}
	return ctx, id, cleanup
}

func TestListCreateAndShow(t *testing.T) {
	ctx, id, cleanup := setupTestContext(t)
	defer cleanup()

	tests := []struct {
		name    string
		cmd     ListCreateCmd
		wantErr bool
	}{
		{name: "default color", cmd: ListCreateCmd{Name: "Feira"}},
		{name: "explicit color", cmd: ListCreateCmd{Name: "Churrasco", Color: "pastelred"}},
		{name: "unknown color", cmd: ListCreateCmd{Name: "Festa", Color: "Neon"}, wantErr: true},
		{name: "blank name", cmd: ListCreateCmd{Name: "   "}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); (err != nil) != tt.wantErr {
				t.Errorf("ListCreateCmd.Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	lists, err := ctx.Service.Lists(id)
	if err != nil {
		t.Fatalf("Lists failed: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(lists))
	}
	l, err := ctx.Service.FindList(id, "churrasco")
	if err != nil {
		t.Fatalf("FindList failed: %v", err)
	}
	if l.ColorName != "PastelRed" {
		t.Errorf("color = %q, want PastelRed", l.ColorName)
	}

	if err := (&ListListCmd{ShowIDs: true}).Run(ctx); err != nil {
		t.Errorf("list ls failed: %v", err)
	}
	if err := (&ListShowCmd{List: "Feira", ShowIDs: true}).Run(ctx); err != nil {
		t.Errorf("list show failed: %v", err)
	}
	if err := (&ListShowCmd{List: "Nope"}).Run(ctx); !errors.Is(err, service.ErrListNotFound) {
		t.Errorf("show unknown list = %v, want ErrListNotFound", err)
	}
}

func TestItemCommands(t *testing.T) {
	ctx, id, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&ListCreateCmd{Name: "Feira"}).Run(ctx); err != nil {
		t.Fatalf("list create failed: %v", err)
	}

	add := &ItemAddCmd{Name: "Leite", List: "Feira", Quantity: 2, Category: "Laticínios"}
	if err := add.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("item add failed: %v", err)
	}
	if err := (&ItemAddCmd{Name: "Pão", Quantity: 1, Category: "bakery", Author: "Bia"}).Run(ctx); err != nil {
		t.Fatalf("item add to default list failed: %v", err)
	}

	l, items, err := loadList(ctx, "Feira")
	if err != nil {
		t.Fatalf("loadList failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items on %s, got %d", l.Name, len(items))
	}
	if items[0].Category != models.CategoryDairy || items[0].AuthorName != "Ana" {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].AuthorName != "Bia" {
		t.Errorf("author = %q, want Bia", items[1].AuthorName)
	}

	if err := (&ItemToggleCmd{Item: "leite", List: "Feira"}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	it, err := ctx.Service.FindItem(l.ID, "Leite")
	if err != nil {
		t.Fatalf("FindItem failed: %v", err)
	}
	if it.Status != models.StatusInCart {
		t.Errorf("status after toggle = %s, want inCart", it.Status)
	}

	if err := (&ItemRemoveCmd{Item: "Pão"}).Run(ctx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := (&ItemRemoveCmd{Item: "Pão"}).Run(ctx); !errors.Is(err, service.ErrItemNotFound) {
		t.Errorf("second remove = %v, want ErrItemNotFound", err)
	}
	if _, err := ctx.Service.Lists(id); err != nil {
		t.Fatalf("Lists failed: %v", err)
	}
}

func TestItemAddCmd_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     ItemAddCmd
		wantErr bool
	}{
		{name: "valid", cmd: ItemAddCmd{Quantity: 3, Category: "meat"}},
		{name: "zero quantity", cmd: ItemAddCmd{Quantity: 0, Category: "meat"}, wantErr: true},
		{name: "too many", cmd: ItemAddCmd{Quantity: 101, Category: "meat"}, wantErr: true},
		{name: "unknown category", cmd: ItemAddCmd{Quantity: 1, Category: "toys"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestItemAdd_CompletedList(t *testing.T) {
	ctx, _, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&ListCreateCmd{Name: "Feira"}).Run(ctx); err != nil {
		t.Fatalf("list create failed: %v", err)
	}
	_, l, err := resolveList(ctx, "Feira")
	if err != nil {
		t.Fatalf("resolveList failed: %v", err)
	}
	ctrl, err := ctx.Service.StartSession(l.ID)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if _, err := ctx.Service.EndSession(ctrl); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	err = (&ItemAddCmd{Name: "Café", List: "Feira", Quantity: 1, Category: "pantry"}).Run(ctx)
	if !errors.Is(err, shopping.ErrListCompleted) {
		t.Errorf("add to completed list = %v, want ErrListCompleted", err)
	}
}

func TestListExportAndShare(t *testing.T) {
	ctx, _, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&ListCreateCmd{Name: "Feira"}).Run(ctx); err != nil {
		t.Fatalf("list create failed: %v", err)
	}
	if err := (&ItemAddCmd{Name: "Leite", Quantity: 2, Category: "dairy"}).Run(ctx); err != nil {
		t.Fatalf("item add failed: %v", err)
	}

	dir := t.TempDir()
	exportPath := filepath.Join(dir, "export.txt")
	if err := (&ListExportCmd{Output: exportPath}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	raw, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	for _, want := range []string{"🛒 Lista: Feira", "Leite | 2 | R$ 0.00 | R$ 0.00 | Ana", "TOTAL GERAL: R$ 0.00"} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("export missing %q:\n%s", want, raw)
		}
	}

	sharePath := filepath.Join(dir, "share.txt")
	if err := (&ListShareCmd{List: "Feira", Output: sharePath}).Run(ctx); err != nil {
		t.Fatalf("share failed: %v", err)
	}
	raw, err = os.ReadFile(sharePath)
	if err != nil {
		t.Fatalf("failed to read share: %v", err)
	}
	if !strings.Contains(string(raw), "- Leite (2x)") {
		t.Errorf("share missing pending item:\n%s", raw)
	}
}

func TestListDeleteCmd(t *testing.T) {
	ctx, id, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&ListCreateCmd{Name: "Feira"}).Run(ctx); err != nil {
		t.Fatalf("list create failed: %v", err)
	}

	ctx.In = strings.NewReader("n\n")
	if err := (&ListDeleteCmd{List: "Feira"}).Run(ctx); err != nil {
		t.Fatalf("declined delete returned error: %v", err)
	}
	if lists, _ := ctx.Service.Lists(id); len(lists) != 1 {
		t.Fatalf("list deleted despite declining")
	}

	if err := (&ListDeleteCmd{List: "Feira", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if lists, _ := ctx.Service.Lists(id); len(lists) != 0 {
		t.Errorf("expected no lists after delete, got %d", len(lists))
	}
}
