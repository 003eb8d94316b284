package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kjstillabower/deskmate/internal/validation"
)

// ItemFilter narrows ListItems. Zero values mean no constraint; Search
// matches name or description, ignoring case.
type ItemFilter struct {
	Search     string
	CategoryID int64
	LocationID int64
	LowStock   bool
}

const itemColumns = `i.id, i.name, COALESCE(i.description, ''), i.category_id, i.location_id,
	i.quantity, i.min_quantity, i.price, COALESCE(i.serial_number, ''),
	COALESCE(i.purchase_date, ''), i.created_at, c.name, l.name`

const itemFrom = ` FROM items i
	JOIN categories c ON c.id = i.category_id
	JOIN locations l ON l.id = i.location_id`

// CreateItem adds an item and returns it with its new id.
func (s *Store) CreateItem(ctx context.Context, actor User, item Item) (Item, error) {
	if !actor.Role.Can(ActionManageItems) {
		return Item{}, fmt.Errorf("create item: %w", ErrPermissionDenied)
	}
	if err := validateItem(&item); err != nil {
		return Item{}, err
	}

	item.CreatedAt = time.Now().UTC()
	id, err := s.insertID(ctx, s.rebind(
		`INSERT INTO items (name, description, category_id, location_id, quantity,
			min_quantity, price, serial_number, purchase_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		item.Name, nullIfEmpty(item.Description), item.CategoryID, item.LocationID,
		item.Quantity, item.MinQuantity, item.Price, nullIfEmpty(item.SerialNumber),
		nullIfEmpty(item.PurchaseDate), item.CreatedAt.Unix())
	if err != nil {
		return Item{}, fmt.Errorf("create item %s: %w", item.Name, err)
	}
	return s.GetItem(ctx, id)
}

// GetItem returns one item with its category and location names.
func (s *Store) GetItem(ctx context.Context, id int64) (Item, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT "+itemColumns+itemFrom+" WHERE i.id = ?"), id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Item{}, fmt.Errorf("look up item %d: %w", id, err)
	}
	return item, nil
}

// ListItems returns items matching the filter, ordered by name.
func (s *Store) ListItems(ctx context.Context, filter ItemFilter) ([]Item, error) {
	query := "SELECT " + itemColumns + itemFrom + " WHERE 1=1"
	var args []any

	if term := strings.TrimSpace(filter.Search); term != "" {
		query += " AND (LOWER(i.name) LIKE ? OR LOWER(COALESCE(i.description, '')) LIKE ?)"
		like := "%" + strings.ToLower(term) + "%"
		args = append(args, like, like)
	}
	if filter.CategoryID > 0 {
		query += " AND i.category_id = ?"
		args = append(args, filter.CategoryID)
	}
	if filter.LocationID > 0 {
		query += " AND i.location_id = ?"
		args = append(args, filter.LocationID)
	}
	if filter.LowStock {
		query += " AND i.quantity <= i.min_quantity"
	}
	query += " ORDER BY i.name"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem rewrites every editable field of the item.
func (s *Store) UpdateItem(ctx context.Context, actor User, item Item) (Item, error) {
	if !actor.Role.Can(ActionManageItems) {
		return Item{}, fmt.Errorf("update item: %w", ErrPermissionDenied)
	}
	if err := validateItem(&item); err != nil {
		return Item{}, err
	}

	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE items SET name = ?, description = ?, category_id = ?, location_id = ?,
			quantity = ?, min_quantity = ?, price = ?, serial_number = ?, purchase_date = ?
		WHERE id = ?`),
		item.Name, nullIfEmpty(item.Description), item.CategoryID, item.LocationID,
		item.Quantity, item.MinQuantity, item.Price, nullIfEmpty(item.SerialNumber),
		nullIfEmpty(item.PurchaseDate), item.ID)
	if err != nil {
		return Item{}, fmt.Errorf("update item %d: %w", item.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Item{}, fmt.Errorf("item %d: %w", item.ID, ErrNotFound)
	}
	return s.GetItem(ctx, item.ID)
}

// DeleteItem removes an item. Its transaction history goes with it.
func (s *Store) DeleteItem(ctx context.Context, actor User, id int64) error {
	if !actor.Role.Can(ActionManageItems) {
		return fmt.Errorf("delete item: %w", ErrPermissionDenied)
	}
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM items WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("item %d: %w", id, ErrNotFound)
	}
	return nil
}

func validateItem(item *Item) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if item.CategoryID <= 0 {
		return fmt.Errorf("item needs a category")
	}
	if item.LocationID <= 0 {
		return fmt.Errorf("item needs a location")
	}
	if item.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if item.MinQuantity < 0 {
		return fmt.Errorf("minimum quantity cannot be negative")
	}
	if item.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if item.PurchaseDate != "" {
		date, err := validation.ValidateDate(item.PurchaseDate)
		if err != nil {
			return fmt.Errorf("purchase date: %w", err)
		}
		item.PurchaseDate = date
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (Item, error) {
	var (
		item    Item
		created int64
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.CategoryID,
		&item.LocationID, &item.Quantity, &item.MinQuantity, &item.Price,
		&item.SerialNumber, &item.PurchaseDate, &created,
		&item.CategoryName, &item.LocationName)
	if err != nil {
		return Item{}, err
	}
	item.CreatedAt = time.Unix(created, 0).UTC()
	return item, nil
}
