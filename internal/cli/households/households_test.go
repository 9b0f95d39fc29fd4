package households

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/service"
	"github.com/julianstephens/basket/internal/storage/memstore"
)

func setupTestContext(t *testing.T) (*cli.Context, func()) {
	store := memstore.New()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	ctx := cli.NewContext(store)
	ctx.In = strings.NewReader("")

	cleanup := func() {
		ctx.Service.Close()
		store.Close()
	}
	return ctx, cleanup
}

func TestUserAddCmd(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&UserAddCmd{Name: "Ana", Use: true}).Run(ctx); err != nil {
		t.Fatalf("user add failed: %v", err)
	}
	id, err := ctx.Service.Identity()
	if err != nil {
		t.Fatalf("expected active user: %v", err)
	}
	if id.User.Name != "Ana" {
		t.Errorf("active user = %q, want Ana", id.User.Name)
	}

	if err := (&UserAddCmd{Name: "Ana"}).Run(ctx); !errors.Is(err, service.ErrUserExists) {
		t.Errorf("duplicate user error = %v, want ErrUserExists", err)
	}

	if err := (&UserAddCmd{Name: "Bia", Use: false}).Run(ctx); err != nil {
		t.Fatalf("second user add failed: %v", err)
	}
	id, _ = ctx.Service.Identity()
	if id.User.Name != "Ana" {
		t.Errorf("--no-use changed the active user to %q", id.User.Name)
	}
	if err := (&UserListCmd{ShowIDs: true}).Run(ctx); err != nil {
		t.Errorf("user list failed: %v", err)
	}
}

func TestUserUseAndSignOut(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	for _, name := range []string{"Ana", "Bia"} {
		if err := (&UserAddCmd{Name: name}).Run(ctx); err != nil {
			t.Fatalf("user add %s failed: %v", name, err)
		}
	}

	if err := (&UserUseCmd{User: "Ana"}).Run(ctx); err != nil {
		t.Fatalf("user use failed: %v", err)
	}
	if err := (&UserUseCmd{User: "Carla"}).Run(ctx); err == nil {
		t.Error("expected error for unknown user")
	}

	if err := (&UserSignOutCmd{}).Run(ctx); err != nil {
		t.Fatalf("signout failed: %v", err)
	}
	if err := (&WhoAmICmd{}).Run(ctx); !errors.Is(err, service.ErrNoActiveUser) {
		t.Errorf("whoami after signout = %v, want ErrNoActiveUser", err)
	}
}

func TestHouseholdCreateAndJoin(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&HouseholdShowCmd{}).Run(ctx); err == nil {
		t.Error("expected household show to fail without a user")
	}

	if err := (&UserAddCmd{Name: "Ana", Use: true}).Run(ctx); err != nil {
		t.Fatalf("user add failed: %v", err)
	}
	if err := (&HouseholdShowCmd{}).Run(ctx); !errors.Is(err, service.ErrNoHousehold) {
		t.Errorf("household show without household = %v, want ErrNoHousehold", err)
	}
	if err := (&HouseholdCreateCmd{Name: "Casa"}).Run(ctx); err != nil {
		t.Fatalf("household create failed: %v", err)
	}
	ana, err := ctx.Service.Identity()
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}
	code := ana.Household.JoinCode

	if err := (&UserAddCmd{Name: "Bia", Use: true}).Run(ctx); err != nil {
		t.Fatalf("user add failed: %v", err)
	}
	if err := (&HouseholdJoinCmd{Code: "ZZZZZZ"}).Run(ctx); !errors.Is(err, service.ErrInvalidJoinCode) {
		t.Errorf("join with wrong code = %v, want ErrInvalidJoinCode", err)
	}
	if err := (&HouseholdJoinCmd{Code: strings.ToLower(code)}).Run(ctx); err != nil {
		t.Fatalf("join with lower-case code failed: %v", err)
	}

	bia, err := ctx.Service.Identity()
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}
	if bia.Household == nil || bia.Household.ID != ana.Household.ID {
		t.Fatalf("Bia did not join Ana's household: %+v", bia.Household)
	}
	members, err := ctx.Service.Members(bia)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("expected 2 members, got %d", len(members))
	}
	if err := (&HouseholdShowCmd{}).Run(ctx); err != nil {
		t.Errorf("household show failed: %v", err)
	}
}

func TestHouseholdCreate_DeclineSwitch(t *testing.T) {
	ctx, cleanup := setupTestContext(t)
	defer cleanup()

	if err := (&UserAddCmd{Name: "Ana", Use: true}).Run(ctx); err != nil {
		t.Fatalf("user add failed: %v", err)
	}
	if err := (&HouseholdCreateCmd{Name: "Casa"}).Run(ctx); err != nil {
		t.Fatalf("household create failed: %v", err)
	}

	ctx.In = strings.NewReader("n\n")
	if err := (&HouseholdCreateCmd{Name: "Praia"}).Run(ctx); err != nil {
		t.Fatalf("declined create returned error: %v", err)
	}
	id, _ := ctx.Service.Identity()
	if id.Household.Name != "Casa" {
		t.Errorf("household = %q after declining, want Casa", id.Household.Name)
	}

	ctx.In = strings.NewReader("y\n")
	if err := (&HouseholdCreateCmd{Name: "Praia"}).Run(ctx); err != nil {
		t.Fatalf("confirmed create failed: %v", err)
	}
	id, _ = ctx.Service.Identity()
	if id.Household.Name != "Praia" {
		t.Errorf("household = %q after confirming, want Praia", id.Household.Name)
	}
}
