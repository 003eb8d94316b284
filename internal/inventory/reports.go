package inventory

import (
	"context"
	"fmt"
)

// LocationValue sums one location's stock and its value at unit prices.
type LocationValue struct {
	Location   string  `json:"location"`
	TotalItems int     `json:"totalItems"`
	TotalValue float64 `json:"totalValue"`
}

// Counts is the dashboard summary row.
type Counts struct {
	Items        int `json:"items"`
	Categories   int `json:"categories"`
	Locations    int `json:"locations"`
	Users        int `json:"users"`
	Transactions int `json:"transactions"`
}

// LowStockItems returns items at or below their minimum quantity.
func (s *Store) LowStockItems(ctx context.Context) ([]Item, error) {
	return s.ListItems(ctx, ItemFilter{LowStock: true})
}

// ValueByLocation totals stock per location. Locations with no items show
// up with zeros.
func (s *Store) ValueByLocation(ctx context.Context) ([]LocationValue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.name,
			COALESCE(SUM(i.quantity), 0),
			COALESCE(SUM(i.quantity * i.price), 0)
		FROM locations l
		LEFT JOIN items i ON i.location_id = l.id
		GROUP BY l.id, l.name
		ORDER BY l.name`)
	if err != nil {
		return nil, fmt.Errorf("value by location: %w", err)
	}
	defer rows.Close()

	var values []LocationValue
	for rows.Next() {
		var v LocationValue
		if err := rows.Scan(&v.Location, &v.TotalItems, &v.TotalValue); err != nil {
			return nil, fmt.Errorf("scan location value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// CountAll returns row counts for the dashboard.
func (s *Store) CountAll(ctx context.Context) (Counts, error) {
	var c Counts
	for _, q := range []struct {
		table string
		dest  *int
	}{
		{"items", &c.Items},
		{"categories", &c.Categories},
		{"locations", &c.Locations},
		{"users", &c.Users},
		{"transactions", &c.Transactions},
	} {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+q.table).Scan(q.dest); err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return c, nil
}
