// Package inventory implements stock tracking over a SQL database. It owns
// the schema, role-based authorization, and the transaction ledger. Three
// backends are supported: SQLite for single-user setups, MySQL and
// PostgreSQL for shared deployments.
package inventory

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for both unknown users and wrong
	// passwords, so callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrPermissionDenied is returned when the acting user's role does not
	// allow the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInsufficientStock is returned when a transaction would drive an
	// item's quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Role is a user's permission level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// Action is an operation gated by authorization.
type Action string

const (
	ActionView              Action = "view"
	ActionManageItems       Action = "manage_items"
	ActionRecordTransaction Action = "record_transaction"
	ActionManageCatalog     Action = "manage_catalog"
	ActionManageUsers       Action = "manage_users"
)

// rolePermissions is the complete authorization matrix. Anything not listed
// here is denied; new roles and actions start with no access.
var rolePermissions = map[Role]map[Action]bool{
	RoleViewer: {
		ActionView: true,
	},
	RoleManager: {
		ActionView:              true,
		ActionManageItems:       true,
		ActionRecordTransaction: true,
	},
	RoleAdmin: {
		ActionView:              true,
		ActionManageItems:       true,
		ActionRecordTransaction: true,
		ActionManageCatalog:     true,
		ActionManageUsers:       true,
	},
}

// Can reports whether the role allows the action. Unknown roles and unknown
// actions are denied.
func (r Role) Can(a Action) bool {
	return rolePermissions[r][a]
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleViewer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q (want admin, manager, or viewer)", s)
}

// TransactionType describes how a transaction moves stock.
type TransactionType string

const (
	TxnCheckOut TransactionType = "check-out"
	TxnReturn   TransactionType = "return"
	TxnTransfer TransactionType = "transfer"
	TxnAdjust   TransactionType = "adjust"
)

// ParseTransactionType validates a transaction type name.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TxnCheckOut, TxnReturn, TxnTransfer, TxnAdjust:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q (want check-out, return, transfer, or adjust)", s)
}

// StockDelta returns the signed change a transaction of this type applies to
// an item's quantity. Check-outs and transfers remove stock; returns and
// adjustments add it.
func (t TransactionType) StockDelta(quantity int) int {
	switch t {
	case TxnCheckOut, TxnTransfer:
		return -quantity
	default:
		return quantity
	}
}

// User is an account that can operate on the inventory.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Category groups items by kind.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Location is a physical place items are stored.
type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Item is one tracked inventory entry. CategoryName and LocationName are
// filled on reads by joining the catalog tables; writes use the IDs.
type Item struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CategoryID   int64     `json:"categoryId"`
	LocationID   int64     `json:"locationId"`
	Quantity     int       `json:"quantity"`
	MinQuantity  int       `json:"minQuantity"`
	Price        float64   `json:"price"`
	SerialNumber string    `json:"serialNumber,omitempty"`
	PurchaseDate string    `json:"purchaseDate,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`

	CategoryName string `json:"categoryName,omitempty"`
	LocationName string `json:"locationName,omitempty"`
}

// LowStock reports whether the item is at or below its minimum quantity.
func (i Item) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// Value is the item's stock valued at its unit price.
func (i Item) Value() float64 {
	return float64(i.Quantity) * i.Price
}

// Transaction is one stock movement. ItemName and Username are filled on
// reads by joining.
type Transaction struct {
	ID        int64           `json:"id"`
	ItemID    int64           `json:"itemId"`
	UserID    int64           `json:"userId"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`

	ItemName string `json:"itemName,omitempty"`
	Username string `json:"username,omitempty"`
}
