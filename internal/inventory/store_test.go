package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kjstillabower/deskmate/internal/validation"
)

// newTestStore opens a fresh SQLite database in a temp dir and migrates it
// to the latest schema.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(BackendSQLite, filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	from, to, err := store.Migrate(-1)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if from != 0 || to != 1 {
		t.Fatalf("Migrate() = (%d, %d), want (0, 1)", from, to)
	}
	return store
}

func mustBootstrap(t *testing.T, store *Store) User {
	t.Helper()
	admin, err := store.Bootstrap(context.Background(), "admin", "first-admin-pw")
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	return admin
}

// seedCatalog creates one category and one location for item tests.
func seedCatalog(t *testing.T, store *Store, admin User) (Category, Location) {
	t.Helper()
	ctx := context.Background()
	cat, err := store.CreateCategory(ctx, admin, Category{Name: "Electronics", Description: "computers and parts"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	loc, err := store.CreateLocation(ctx, admin, Location{Name: "Office", Address: "1 Main St"})
	if err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}
	return cat, loc
}

func TestStore_BootstrapAndAuthenticate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	admin, err := store.Bootstrap(ctx, "admin", "first-admin-pw")
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if admin.ID == 0 {
		t.Error("Bootstrap() returned zero ID")
	}
	if admin.Role != RoleAdmin {
		t.Errorf("Bootstrap() role = %s, want admin", admin.Role)
	}

	if _, err := store.Bootstrap(ctx, "second", "another-pw-123"); err == nil {
		t.Error("Bootstrap() on non-empty users table expected error, got nil")
	} else if !strings.Contains(err.Error(), "already has users") {
		t.Errorf("Bootstrap() error = %v, want already-has-users message", err)
	}

	got, err := store.Authenticate(ctx, "admin", "first-admin-pw")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != admin.ID || got.Role != RoleAdmin {
		t.Errorf("Authenticate() = %+v, want id %d role admin", got, admin.ID)
	}

	if _, err := store.Authenticate(ctx, "admin", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() with wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := store.Authenticate(ctx, "nobody", "first-admin-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() with unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestStore_BootstrapRejectsShortPassword(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Bootstrap(context.Background(), "admin", "short")
	if err == nil || !strings.Contains(err.Error(), "at least 8 characters") {
		t.Errorf("Bootstrap() error = %v, want password length message", err)
	}
}

func TestStore_UserManagement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := mustBootstrap(t, store)

	manager, err := store.CreateUser(ctx, admin, "mallory", "managers-pw-1", RoleManager)
	if err != nil {
		t.Fatalf("CreateUser(manager) error = %v", err)
	}
	viewer, err := store.CreateUser(ctx, admin, "violet", "viewers-pw-22", RoleViewer)
	if err != nil {
		t.Fatalf("CreateUser(viewer) error = %v", err)
	}

	if _, err := store.CreateUser(ctx, admin, "dupe", "whatever-pw", Role("root")); err == nil {
		t.Error("CreateUser() with unknown role expected error, got nil")
	}
	if _, err := store.CreateUser(ctx, admin, "mallory", "whatever-pw", RoleViewer); err == nil {
		t.Error("CreateUser() with duplicate username expected error, got nil")
	}
	if _, err := store.CreateUser(ctx, viewer, "eve", "whatever-pw", RoleViewer); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("CreateUser() by viewer error = %v, want ErrPermissionDenied", err)
	}
	if _, err := store.CreateUser(ctx, manager, "eve", "whatever-pw", RoleViewer); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("CreateUser() by manager error = %v, want ErrPermissionDenied", err)
	}

	users, err := store.ListUsers(ctx, admin)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("ListUsers() returned %d users, want 3", len(users))
	}
	for i, want := range []string{"admin", "mallory", "violet"} {
		if users[i].Username != want {
			t.Errorf("ListUsers()[%d] = %s, want %s (name order)", i, users[i].Username, want)
		}
	}
	if _, err := store.ListUsers(ctx, viewer); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("ListUsers() by viewer error = %v, want ErrPermissionDenied", err)
	}

	if err := store.SetUserRole(ctx, admin, "violet", RoleManager); err != nil {
		t.Fatalf("SetUserRole() error = %v", err)
	}
	got, err := store.GetUser(ctx, "violet")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Role != RoleManager {
		t.Errorf("role after SetUserRole = %s, want manager", got.Role)
	}
	if err := store.SetUserRole(ctx, admin, "ghost", RoleViewer); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetUserRole() for unknown user error = %v, want ErrNotFound", err)
	}

	if err := store.DeleteUser(ctx, admin, "violet"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := store.GetUser(ctx, "violet"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteUser(ctx, admin, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteUser() for unknown user error = %v, want ErrNotFound", err)
	}
}

// TestStore_LastAdminGuard verifies the one remaining admin can be neither
// demoted nor deleted.
func TestStore_LastAdminGuard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := mustBootstrap(t, store)

	if err := store.SetUserRole(ctx, admin, "admin", RoleViewer); err == nil {
		t.Error("SetUserRole() demoting last admin expected error, got nil")
	} else if !strings.Contains(err.Error(), "last admin") {
		t.Errorf("SetUserRole() error = %v, want last-admin message", err)
	}
	if err := store.DeleteUser(ctx, admin, "admin"); err == nil {
		t.Error("DeleteUser() removing last admin expected error, got nil")
	} else if !strings.Contains(err.Error(), "last admin") {
		t.Errorf("DeleteUser() error = %v, want last-admin message", err)
	}

	// With a second admin on file the original one may step down.
	if _, err := store.CreateUser(ctx, admin, "backup", "backup-admin-pw", RoleAdmin); err != nil {
		t.Fatalf("CreateUser(second admin) error = %v", err)
	}
	if err := store.SetUserRole(ctx, admin, "admin", RoleViewer); err != nil {
		t.Errorf("SetUserRole() with another admin present error = %v", err)
	}
}

// TestStore_DeleteUserKeepsAuditTrail verifies accounts with recorded
// transactions cannot be deleted.
func TestStore_DeleteUserKeepsAuditTrail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := mustBootstrap(t, store)
	cat, loc := seedCatalog(t, store, admin)

	manager, err := store.CreateUser(ctx, admin, "mallory", "managers-pw-1", RoleManager)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	item, err := store.CreateItem(ctx, admin, Item{
		Name: "Laptop", CategoryID: cat.ID, LocationID: loc.ID, Quantity: 10, MinQuantity: 2, Price: 1200,
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if _, err := store.RecordTransaction(ctx, manager, Transaction{
		ItemID: item.ID, Type: TxnCheckOut, Quantity: 1,
	}); err != nil {
		t.Fatalf("RecordTransaction() error = %v", err)
	}

	err = store.DeleteUser(ctx, admin, "mallory")
	if err == nil || !strings.Contains(err.Error(), "recorded transactions") {
		t.Errorf("DeleteUser() error = %v, want audit-trail message", err)
	}
}

func TestStore_Catalog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := mustBootstrap(t, store)

	cat, err := store.CreateCategory(ctx, admin, Category{Name: "  Electronics  ", Description: "gadgets"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if cat.ID == 0 || cat.Name != "Electronics" {
		t.Errorf("CreateCategory() = %+v, want trimmed name and nonzero ID", cat)
	}

	// Lookups ignore case.
	for _, name := range []string{"Electronics", "electronics", "ELECTRONICS"} {
		got, err := store.GetCategory(ctx, name)
		if err != nil {
			t.Fatalf("GetCategory(%q) error = %v", name, err)
		}
		if got.ID != cat.ID {
			t.Errorf("GetCategory(%q) id = %d, want %d", name, got.ID, cat.ID)
		}
	}
	if _, err := store.GetCategory(ctx, "Furniture"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCategory() for missing error = %v, want ErrNotFound", err)
	}

	if _, err := store.CreateCategory(ctx, admin, Category{Name: "   "}); err == nil {
		t.Error("CreateCategory() with blank name expected error, got nil")
	}
	if _, err := store.CreateCategory(ctx, admin, Category{Name: "Electronics"}); err == nil {
		t.Error("CreateCategory() with duplicate name expected error, got nil")
	}

	manager, err := store.CreateUser(ctx, admin, "mallory", "managers-pw-1", RoleManager)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := store.CreateCategory(ctx, manager, Category{Name: "Tools"}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("CreateCategory() by manager error = %v, want ErrPermissionDenied", err)
	}
	if _, err := store.CreateLocation(ctx, manager, Location{Name: "Shed"}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("CreateLocation() by manager error = %v, want ErrPermissionDenied", err)
	}

	if _, err := store.CreateCategory(ctx, admin, Category{Name: "Apparel"}); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Apparel" || categories[1].Name != "Electronics" {
		t.Errorf("ListCategories() = %+v, want Apparel then Electronics", categories)
	}

	loc, err := store.CreateLocation(ctx, admin, Location{Name: "Warehouse", Address: "2 Dock Rd"})
	if err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}
	got, err := store.GetLocation(ctx, "warehouse")
	if err != nil {
		t.Fatalf("GetLocation() error = %v", err)
	}
	if got.ID != loc.ID || got.Address != "2 Dock Rd" {
		t.Errorf("GetLocation() = %+v, want %+v", got, loc)
	}
	if _, err := store.GetLocation(ctx, "Attic"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLocation() for missing error = %v, want ErrNotFound", err)
	}
}

func TestStore_ItemCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := mustBootstrap(t, store)
	cat, loc := seedCatalog(t, store, admin)

	viewer, err := store.CreateUser(ctx, admin, "violet", "viewers-pw-22", RoleViewer)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := store.CreateItem(ctx, viewer, Item{Name: "Laptop", CategoryID: cat.ID, LocationID: loc.ID}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("CreateItem() by viewer error = %v, want ErrPermissionDenied", err)
	}

	item, err := store.CreateItem(ctx, admin, Item{
		Name:         "  Laptop  ",
		Description:  "14 inch",
		CategoryID:   cat.ID,
		LocationID:   loc.ID,
		Quantity:     4,
		MinQuantity:  2,
		Price:        1200.50,
		SerialNumber: "SN-100",
		PurchaseDate: "2026-01-15",
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if item.ID == 0 || item.Name != "Laptop" {
		t.Errorf("CreateItem() = %+v, want trimmed name and nonzero ID", item)
	}
	if item.CategoryName != "Electronics" || item.LocationName != "Office" {
		t.Errorf("CreateItem() joined names = %q/%q, want Electronics/Office", item.CategoryName, item.LocationName)
	}
	if item.CreatedAt.IsZero() {
		t.Error("CreateItem() CreatedAt is zero")
	}

	invalid := []struct {
		name string
		item Item
		want string
	}{
		{"blank name", Item{Name: " ", CategoryID: cat.ID, LocationID: loc.ID}, "name is required"},
		{"no category", Item{Name: "Desk", LocationID: loc.ID}, "needs a category"},
		{"no location", Item{Name: "Desk", CategoryID: cat.ID}, "needs a location"},
		{"negative quantity", Item{Name: "Desk", CategoryID: cat.ID, LocationID: loc.ID, Quantity: -1}, "quantity cannot be negative"},
		{"negative min quantity", Item{Name: "Desk", CategoryID: cat.ID, LocationID: loc.ID, MinQuantity: -1}, "minimum quantity cannot be negative"},
		{"negative price", Item{Name: "Desk", CategoryID: cat.ID, LocationID: loc.ID, Price: -2}, "price cannot be negative"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.CreateItem(ctx, admin, tc.item)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("CreateItem() error = %v, want %q", err, tc.want)
			}
		})
	}

	badDate := Item{Name: "Desk", CategoryID: cat.ID, LocationID: loc.ID, PurchaseDate: "2026-02-30"}
	if _, err := store.CreateItem(ctx, admin, badDate); !errors.Is(err, validation.ErrInvalidDate) {
		t.Errorf("CreateItem() with impossible date error = %v, want ErrInvalidDate", err)
	}

	if _, err := store.GetItem(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetItem() for missing error = %v, want ErrNotFound", err)
	}

	item.Quantity = 7
	item.Price = 999.99
	item.Description = "14 inch, refurbished"
	updated, err := store.UpdateItem(ctx, admin, item)
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
	if updated.Quantity != 7 || updated.Price != 999.99 || updated.Description != "14 inch, refurbished" {
		t.Errorf("UpdateItem() = %+v, want updated fields", updated)
	}

	missing := item
	missing.ID = 9999
	if _, err := store.UpdateItem(ctx, admin, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateItem() for missing error = %v, want ErrNotFound", err)
	}

	if err := store.DeleteItem(ctx, admin, item.ID); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if _, err := store.GetItem(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetItem() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteItem(ctx, admin, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteItem() repeated error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListItemsFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := mustBootstrap(t, store)

	electronics, err := store.CreateCategory(ctx, admin, Category{Name: "Electronics"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	furniture, err := store.CreateCategory(ctx, admin, Category{Name: "Furniture"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	office, err := store.CreateLocation(ctx, admin, Location{Name: "Office"})
	if err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}
	warehouse, err := store.CreateLocation(ctx, admin, Location{Name: "Warehouse"})
	if err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}

	seed := []Item{
		{Name: "Laptop", CategoryID: electronics.ID, LocationID: office.ID, Quantity: 4, MinQuantity: 2},
		{Name: "Desk", CategoryID: furniture.ID, LocationID: warehouse.ID, Quantity: 1, MinQuantity: 2},
		{Name: "Monitor cable", Description: "HDMI 2m", CategoryID: electronics.ID, LocationID: office.ID, Quantity: 10, MinQuantity: 5},
	}
	for _, item := range seed {
		if _, err := store.CreateItem(ctx, admin, item); err != nil {
			t.Fatalf("CreateItem(%s) error = %v", item.Name, err)
		}
	}

	tests := []struct {
		name   string
		filter ItemFilter
		want   []string
	}{
		{"no filter, name order", ItemFilter{}, []string{"Desk", "Laptop", "Monitor cable"}},
		{"search matches name ignoring case", ItemFilter{Search: "LAPTOP"}, []string{"Laptop"}},
		{"search matches description", ItemFilter{Search: "hdmi"}, []string{"Monitor cable"}},
		{"search with no match", ItemFilter{Search: "printer"}, nil},
		{"by category", ItemFilter{CategoryID: electronics.ID}, []string{"Laptop", "Monitor cable"}},
		{"by location", ItemFilter{LocationID: warehouse.ID}, []string{"Desk"}},
		{"low stock only", ItemFilter{LowStock: true}, []string{"Desk"}},
		{"category and search", ItemFilter{CategoryID: electronics.ID, Search: "cable"}, []string{"Monitor cable"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := store.ListItems(ctx, tc.filter)
			if err != nil {
				t.Fatalf("ListItems() error = %v", err)
			}
			var names []string
			for _, item := range items {
				names = append(names, item.Name)
			}
			if len(names) != len(tc.want) {
				t.Fatalf("ListItems() = %v, want %v", names, tc.want)
			}
			for i := range tc.want {
				if names[i] != tc.want[i] {
					t.Errorf("ListItems()[%d] = %s, want %s", i, names[i], tc.want[i])
				}
			}
		})
	}
}

func TestStore_RecordTransaction(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := mustBootstrap(t, store)
	cat, loc := seedCatalog(t, store, admin)

	manager, err := store.CreateUser(ctx, admin, "mallory", "managers-pw-1", RoleManager)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	viewer, err := store.CreateUser(ctx, admin, "violet", "viewers-pw-22", RoleViewer)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	item, err := store.CreateItem(ctx, admin, Item{
		Name: "Laptop", CategoryID: cat.ID, LocationID: loc.ID, Quantity: 10, MinQuantity: 2, Price: 1200,
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	quantityNow := func() int {
		t.Helper()
		got, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		return got.Quantity
	}

	txn, err := store.RecordTransaction(ctx, manager, Transaction{
		ItemID: item.ID, Type: TxnCheckOut, Quantity: 4, Notes: "loaner",
	})
	if err != nil {
		t.Fatalf("RecordTransaction(check-out) error = %v", err)
	}
	if txn.ID == 0 || txn.UserID != manager.ID || txn.CreatedAt.IsZero() {
		t.Errorf("RecordTransaction() = %+v, want filled ID, user, and time", txn)
	}
	if got := quantityNow(); got != 6 {
		t.Errorf("quantity after check-out = %d, want 6", got)
	}

	if _, err := store.RecordTransaction(ctx, manager, Transaction{ItemID: item.ID, Type: TxnReturn, Quantity: 2}); err != nil {
		t.Fatalf("RecordTransaction(return) error = %v", err)
	}
	if got := quantityNow(); got != 8 {
		t.Errorf("quantity after return = %d, want 8", got)
	}

	if _, err := store.RecordTransaction(ctx, manager, Transaction{ItemID: item.ID, Type: TxnAdjust, Quantity: 5}); err != nil {
		t.Fatalf("RecordTransaction(adjust) error = %v", err)
	}
	if got := quantityNow(); got != 13 {
		t.Errorf("quantity after adjust = %d, want 13", got)
	}

	before, err := store.ItemTransactions(ctx, item.ID)
	if err != nil {
		t.Fatalf("ItemTransactions() error = %v", err)
	}
	_, err = store.RecordTransaction(ctx, manager, Transaction{ItemID: item.ID, Type: TxnTransfer, Quantity: 20})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("RecordTransaction() overdraw error = %v, want ErrInsufficientStock", err)
	}
	if got := quantityNow(); got != 13 {
		t.Errorf("quantity after rejected overdraw = %d, want 13 unchanged", got)
	}
	after, err := store.ItemTransactions(ctx, item.ID)
	if err != nil {
		t.Fatalf("ItemTransactions() error = %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("rejected transaction was logged: %d entries, want %d", len(after), len(before))
	}

	if _, err := store.RecordTransaction(ctx, manager, Transaction{ItemID: item.ID, Type: TxnCheckOut, Quantity: 0}); err == nil {
		t.Error("RecordTransaction() with zero quantity expected error, got nil")
	}
	if _, err := store.RecordTransaction(ctx, manager, Transaction{ItemID: item.ID, Type: "steal", Quantity: 1}); err == nil {
		t.Error("RecordTransaction() with unknown type expected error, got nil")
	}
	if _, err := store.RecordTransaction(ctx, viewer, Transaction{ItemID: item.ID, Type: TxnCheckOut, Quantity: 1}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("RecordTransaction() by viewer error = %v, want ErrPermissionDenied", err)
	}
	if _, err := store.RecordTransaction(ctx, manager, Transaction{ItemID: 9999, Type: TxnCheckOut, Quantity: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("RecordTransaction() for missing item error = %v, want ErrNotFound", err)
	}
}

func TestStore_TransactionHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := mustBootstrap(t, store)
	cat, loc := seedCatalog(t, store, admin)

	item, err := store.CreateItem(ctx, admin, Item{
		Name: "Laptop", CategoryID: cat.ID, LocationID: loc.ID, Quantity: 10, MinQuantity: 2,
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	for _, typ := range []TransactionType{TxnCheckOut, TxnReturn, TxnAdjust} {
		if _, err := store.RecordTransaction(ctx, admin, Transaction{ItemID: item.ID, Type: typ, Quantity: 1}); err != nil {
			t.Fatalf("RecordTransaction(%s) error = %v", typ, err)
		}
	}

	txns, err := store.ItemTransactions(ctx, item.ID)
	if err != nil {
		t.Fatalf("ItemTransactions() error = %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("ItemTransactions() returned %d, want 3", len(txns))
	}
	// Newest first.
	for i, want := range []TransactionType{TxnAdjust, TxnReturn, TxnCheckOut} {
		if txns[i].Type != want {
			t.Errorf("ItemTransactions()[%d] type = %s, want %s", i, txns[i].Type, want)
		}
	}
	if txns[0].ItemName != "Laptop" || txns[0].Username != "admin" {
		t.Errorf("joined fields = %q/%q, want Laptop/admin", txns[0].ItemName, txns[0].Username)
	}

	recent, err := store.RecentTransactions(ctx, 2)
	if err != nil {
		t.Fatalf("RecentTransactions() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Type != TxnAdjust {
		t.Errorf("RecentTransactions(2) = %d entries starting %s, want 2 starting adjust", len(recent), recent[0].Type)
	}

	all, err := store.RecentTransactions(ctx, 0)
	if err != nil {
		t.Fatalf("RecentTransactions() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("RecentTransactions(0) = %d entries, want 3 (default limit 10)", len(all))
	}
}

func TestStore_Reports(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	admin := mustBootstrap(t, store)

	cat, err := store.CreateCategory(ctx, admin, Category{Name: "Electronics"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	office, err := store.CreateLocation(ctx, admin, Location{Name: "Office"})
	if err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}
	if _, err := store.CreateLocation(ctx, admin, Location{Name: "Shed"}); err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}

	seed := []Item{
		{Name: "Laptop", CategoryID: cat.ID, LocationID: office.ID, Quantity: 4, MinQuantity: 2, Price: 1200},
		{Name: "Mouse", CategoryID: cat.ID, LocationID: office.ID, Quantity: 1, MinQuantity: 3, Price: 25.5},
	}
	for _, item := range seed {
		if _, err := store.CreateItem(ctx, admin, item); err != nil {
			t.Fatalf("CreateItem(%s) error = %v", item.Name, err)
		}
	}

	low, err := store.LowStockItems(ctx)
	if err != nil {
		t.Fatalf("LowStockItems() error = %v", err)
	}
	if len(low) != 1 || low[0].Name != "Mouse" {
		t.Errorf("LowStockItems() = %+v, want just Mouse", low)
	}

	values, err := store.ValueByLocation(ctx)
	if err != nil {
		t.Fatalf("ValueByLocation() error = %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("ValueByLocation() returned %d locations, want 2", len(values))
	}
	if values[0].Location != "Office" || values[0].TotalItems != 5 || values[0].TotalValue != 4825.5 {
		t.Errorf("Office value = %+v, want 5 items worth 4825.50", values[0])
	}
	if values[1].Location != "Shed" || values[1].TotalItems != 0 || values[1].TotalValue != 0 {
		t.Errorf("empty location = %+v, want zeros", values[1])
	}

	counts, err := store.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll() error = %v", err)
	}
	want := Counts{Items: 2, Categories: 1, Locations: 2, Users: 1, Transactions: 0}
	if counts != want {
		t.Errorf("CountAll() = %+v, want %+v", counts, want)
	}
}

// TestStore_MigrateRoundTrip walks the schema up, down, and back up.
func TestStore_MigrateRoundTrip(t *testing.T) {
	store, err := Open(BackendSQLite, filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if from, to, err := store.Migrate(-1); err != nil || from != 0 || to != 1 {
		t.Fatalf("Migrate(-1) = (%d, %d, %v), want (0, 1, nil)", from, to, err)
	}
	if from, to, err := store.Migrate(-1); err != nil || from != 1 || to != 1 {
		t.Fatalf("repeated Migrate(-1) = (%d, %d, %v), want (1, 1, nil)", from, to, err)
	}
	if from, to, err := store.Migrate(0); err != nil || from != 1 || to != 0 {
		t.Fatalf("Migrate(0) = (%d, %d, %v), want (1, 0, nil)", from, to, err)
	}
	if from, to, err := store.Migrate(-1); err != nil || from != 0 || to != 1 {
		t.Fatalf("Migrate(-1) after rollback = (%d, %d, %v), want (0, 1, nil)", from, to, err)
	}
}

func TestOpen_SQLiteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "inventory.db")
	store, err := Open(BackendSQLite, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file missing after Open: %v", err)
	}
	if store.Backend() != BackendSQLite {
		t.Errorf("Backend() = %s, want sqlite", store.Backend())
	}
}

func TestOpen_BadInputs(t *testing.T) {
	if _, err := Open(Backend("oracle"), ""); err == nil {
		t.Error("Open() with unsupported backend expected error, got nil")
	}
	if _, err := Open(BackendPostgres, ""); err == nil || !strings.Contains(err.Error(), "connection string") {
		t.Errorf("Open(postgres, \"\") error = %v, want connection string message", err)
	}
	if _, err := Open(BackendMySQL, "not a dsn"); err == nil || !strings.Contains(err.Error(), "parse MySQL DSN") {
		t.Errorf("Open(mysql, bad dsn) error = %v, want DSN parse message", err)
	}
}
