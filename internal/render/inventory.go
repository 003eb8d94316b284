package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kjstillabower/deskmate/internal/inventory"
)

// WriteItems renders inventory items. Low-stock quantities come out red in
// table mode.
func WriteItems(w io.Writer, items []inventory.Item, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, items)
	case FormatCSV:
		return WriteCSV(w, []string{"ID", "Name", "Category", "Location", "Quantity", "MinQuantity", "Price", "SerialNumber"},
			func(cw *csv.Writer) error {
				for _, item := range items {
					if err := cw.Write([]string{
						strconv.FormatInt(item.ID, 10), item.Name,
						item.CategoryName, item.LocationName,
						strconv.Itoa(item.Quantity), strconv.Itoa(item.MinQuantity),
						formatAmount(item.Price), item.SerialNumber,
					}); err != nil {
						return err
					}
				}
				return nil
			})
	default:
		return writeItemsTable(w, items)
	}
}

func writeItemsTable(w io.Writer, items []inventory.Item) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return nil
	}
	table := NewTable(w, []string{"ID", "Name", "Category", "Location", "Qty", "Min", "Price"})
	var rows [][]string
	for _, item := range items {
		qty := strconv.Itoa(item.Quantity)
		if item.LowStock() {
			qty = Red(qty)
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.Name,
			item.CategoryName,
			item.LocationName,
			qty,
			strconv.Itoa(item.MinQuantity),
			fmt.Sprintf("$%.2f", item.Price),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// WriteItemDetail renders one item with its full fields.
func WriteItemDetail(w io.Writer, item inventory.Item, format Format) error {
	if format == FormatJSON {
		return WriteJSON(w, item)
	}
	table := NewTable(w, []string{"Field", "Value"})
	qty := strconv.Itoa(item.Quantity)
	if item.LowStock() {
		qty = Red(fmt.Sprintf("%d (low, min %d)", item.Quantity, item.MinQuantity))
	}
	rows := [][]string{
		{"ID", strconv.FormatInt(item.ID, 10)},
		{"Name", item.Name},
		{"Description", item.Description},
		{"Category", item.CategoryName},
		{"Location", item.LocationName},
		{"Quantity", qty},
		{"Min quantity", strconv.Itoa(item.MinQuantity)},
		{"Price", fmt.Sprintf("$%.2f", item.Price)},
		{"Stock value", fmt.Sprintf("$%.2f", item.Value())},
		{"Serial number", item.SerialNumber},
		{"Purchase date", item.PurchaseDate},
		{"Added", item.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// WriteTransactions renders stock movements, newest first.
func WriteTransactions(w io.Writer, txns []inventory.Transaction, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, txns)
	case FormatCSV:
		return WriteCSV(w, []string{"ID", "Item", "Type", "Quantity", "User", "Notes", "CreatedAt"},
			func(cw *csv.Writer) error {
				for _, t := range txns {
					if err := cw.Write([]string{
						strconv.FormatInt(t.ID, 10), t.ItemName, string(t.Type),
						strconv.Itoa(t.Quantity), t.Username, t.Notes,
						t.CreatedAt.Format("2006-01-02 15:04:05"),
					}); err != nil {
						return err
					}
				}
				return nil
			})
	default:
		if len(txns) == 0 {
			fmt.Fprintln(w, "No transactions recorded.")
			return nil
		}
		table := NewTable(w, []string{"When", "Item", "Type", "Qty", "User", "Notes"})
		notesWidth := freeTextWidth(60) // When, Item, Type, Qty, User plus borders
		var rows [][]string
		for _, t := range txns {
			typ := string(t.Type)
			switch t.Type {
			case inventory.TxnCheckOut, inventory.TxnTransfer:
				typ = Yellow(typ)
			case inventory.TxnReturn:
				typ = Green(typ)
			}
			rows = append(rows, []string{
				t.CreatedAt.Format("2006-01-02 15:04"),
				t.ItemName,
				typ,
				strconv.Itoa(t.Quantity),
				t.Username,
				truncate(t.Notes, notesWidth),
			})
		}
		if err := table.Bulk(rows); err != nil {
			return err
		}
		return table.Render()
	}
}

// WriteUsers renders the account list.
func WriteUsers(w io.Writer, users []inventory.User, format Format) error {
	if format == FormatJSON {
		return WriteJSON(w, users)
	}
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return nil
	}
	table := NewTable(w, []string{"Username", "Role", "Created"})
	var rows [][]string
	for _, u := range users {
		rows = append(rows, []string{u.Username, string(u.Role), u.CreatedAt.Format("2006-01-02")})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// WriteCategories renders the category catalog.
func WriteCategories(w io.Writer, categories []inventory.Category, format Format) error {
	if format == FormatJSON {
		return WriteJSON(w, categories)
	}
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories.")
		return nil
	}
	table := NewTable(w, []string{"ID", "Name", "Description"})
	var rows [][]string
	for _, c := range categories {
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name, c.Description})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// WriteLocations renders the location catalog.
func WriteLocations(w io.Writer, locations []inventory.Location, format Format) error {
	if format == FormatJSON {
		return WriteJSON(w, locations)
	}
	if len(locations) == 0 {
		fmt.Fprintln(w, "No locations.")
		return nil
	}
	table := NewTable(w, []string{"ID", "Name", "Address"})
	var rows [][]string
	for _, l := range locations {
		rows = append(rows, []string{strconv.FormatInt(l.ID, 10), l.Name, l.Address})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// WriteLocationValues renders the per-location stock value report.
func WriteLocationValues(w io.Writer, values []inventory.LocationValue, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, values)
	case FormatCSV:
		return WriteCSV(w, []string{"Location", "TotalItems", "TotalValue"},
			func(cw *csv.Writer) error {
				for _, v := range values {
					if err := cw.Write([]string{v.Location, strconv.Itoa(v.TotalItems), formatAmount(v.TotalValue)}); err != nil {
						return err
					}
				}
				return nil
			})
	default:
		table := NewTable(w, []string{"Location", "Items", "Value"})
		var rows [][]string
		var totalItems int
		var totalValue float64
		for _, v := range values {
			rows = append(rows, []string{v.Location, strconv.Itoa(v.TotalItems), fmt.Sprintf("$%.2f", v.TotalValue)})
			totalItems += v.TotalItems
			totalValue += v.TotalValue
		}
		if err := table.Bulk(rows); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Total: %d items worth %s\n", totalItems, Cyan(fmt.Sprintf("$%.2f", totalValue)))
		return nil
	}
}

// WriteCounts renders the dashboard summary.
func WriteCounts(w io.Writer, counts inventory.Counts, format Format) error {
	if format == FormatJSON {
		return WriteJSON(w, counts)
	}
	table := NewTable(w, []string{"Items", "Categories", "Locations", "Users", "Transactions"})
	row := []string{
		strconv.Itoa(counts.Items),
		strconv.Itoa(counts.Categories),
		strconv.Itoa(counts.Locations),
		strconv.Itoa(counts.Users),
		strconv.Itoa(counts.Transactions),
	}
	if err := table.Append(row); err != nil {
		return err
	}
	return table.Render()
}
