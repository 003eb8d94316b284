package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateCategory adds a category. Catalog changes are admin-only.
func (s *Store) CreateCategory(ctx context.Context, actor User, c Category) (Category, error) {
	if !actor.Role.Can(ActionManageCatalog) {
		return Category{}, fmt.Errorf("create category: %w", ErrPermissionDenied)
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Category{}, fmt.Errorf("category name is required")
	}
	id, err := s.insertID(ctx, s.rebind(
		"INSERT INTO categories (name, description) VALUES (?, ?)"),
		c.Name, nullIfEmpty(c.Description))
	if err != nil {
		return Category{}, fmt.Errorf("create category %s: %w", c.Name, err)
	}
	c.ID = id
	return c, nil
}

// ListCategories returns every category in name order.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, COALESCE(description, '') FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory looks a category up by name, ignoring case.
func (s *Store) GetCategory(ctx context.Context, name string) (Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT id, name, COALESCE(description, '') FROM categories WHERE LOWER(name) = LOWER(?)"),
		strings.TrimSpace(name)).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, fmt.Errorf("category %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Category{}, fmt.Errorf("look up category: %w", err)
	}
	return c, nil
}

// CreateLocation adds a storage location. Catalog changes are admin-only.
func (s *Store) CreateLocation(ctx context.Context, actor User, l Location) (Location, error) {
	if !actor.Role.Can(ActionManageCatalog) {
		return Location{}, fmt.Errorf("create location: %w", ErrPermissionDenied)
	}
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return Location{}, fmt.Errorf("location name is required")
	}
	id, err := s.insertID(ctx, s.rebind(
		"INSERT INTO locations (name, address) VALUES (?, ?)"),
		l.Name, nullIfEmpty(l.Address))
	if err != nil {
		return Location{}, fmt.Errorf("create location %s: %w", l.Name, err)
	}
	l.ID = id
	return l, nil
}

// ListLocations returns every location in name order.
func (s *Store) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, COALESCE(address, '') FROM locations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// GetLocation looks a location up by name, ignoring case.
func (s *Store) GetLocation(ctx context.Context, name string) (Location, error) {
	var l Location
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT id, name, COALESCE(address, '') FROM locations WHERE LOWER(name) = LOWER(?)"),
		strings.TrimSpace(name)).Scan(&l.ID, &l.Name, &l.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return Location{}, fmt.Errorf("location %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Location{}, fmt.Errorf("look up location: %w", err)
	}
	return l, nil
}
