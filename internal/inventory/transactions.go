package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RecordTransaction applies a stock movement inside one database
// transaction: the item's quantity changes and the movement is logged
// atomically. A movement that would leave negative stock is rejected with
// ErrInsufficientStock and nothing is written.
func (s *Store) RecordTransaction(ctx context.Context, actor User, t Transaction) (Transaction, error) {
	if !actor.Role.Can(ActionRecordTransaction) {
		return Transaction{}, fmt.Errorf("record transaction: %w", ErrPermissionDenied)
	}
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return Transaction{}, err
	}
	if t.Quantity <= 0 {
		return Transaction{}, fmt.Errorf("transaction quantity must be positive, got %d", t.Quantity)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	err = tx.QueryRowContext(ctx, s.rebind(
		"SELECT quantity FROM items WHERE id = ?"+s.lockSuffix()), t.ItemID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, fmt.Errorf("item %d: %w", t.ItemID, ErrNotFound)
	}
	if err != nil {
		return Transaction{}, fmt.Errorf("look up item %d: %w", t.ItemID, err)
	}

	newQuantity := current + t.Type.StockDelta(t.Quantity)
	if newQuantity < 0 {
		return Transaction{}, fmt.Errorf("%s of %d from stock of %d: %w",
			t.Type, t.Quantity, current, ErrInsufficientStock)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(
		"UPDATE items SET quantity = ? WHERE id = ?"), newQuantity, t.ItemID); err != nil {
		return Transaction{}, fmt.Errorf("update stock for item %d: %w", t.ItemID, err)
	}

	t.UserID = actor.ID
	t.CreatedAt = time.Now().UTC()
	var id int64
	if s.backend == BackendPostgres {
		err = tx.QueryRowContext(ctx, s.rebind(
			`INSERT INTO transactions (item_id, user_id, transaction_type, quantity, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
			t.ItemID, t.UserID, string(t.Type), t.Quantity, nullIfEmpty(t.Notes), t.CreatedAt.Unix()).Scan(&id)
	} else {
		var res sql.Result
		res, err = tx.ExecContext(ctx, s.rebind(
			`INSERT INTO transactions (item_id, user_id, transaction_type, quantity, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`),
			t.ItemID, t.UserID, string(t.Type), t.Quantity, nullIfEmpty(t.Notes), t.CreatedAt.Unix())
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}
	t.ID = id
	return t, nil
}

const transactionColumns = `t.id, t.item_id, t.user_id, t.transaction_type,
	t.quantity, COALESCE(t.notes, ''), t.created_at, i.name, u.username`

const transactionFrom = ` FROM transactions t
	JOIN items i ON i.id = t.item_id
	JOIN users u ON u.id = t.user_id`

// ItemTransactions returns an item's movements, newest first.
func (s *Store) ItemTransactions(ctx context.Context, itemID int64) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+transactionColumns+transactionFrom+" WHERE t.item_id = ? ORDER BY t.created_at DESC, t.id DESC"),
		itemID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for item %d: %w", itemID, err)
	}
	return collectTransactions(rows)
}

// RecentTransactions returns the latest movements across all items.
func (s *Store) RecentTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+transactionColumns+transactionFrom+" ORDER BY t.created_at DESC, t.id DESC LIMIT ?"),
		limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]Transaction, error) {
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var (
			t       Transaction
			typ     string
			created int64
		)
		if err := rows.Scan(&t.ID, &t.ItemID, &t.UserID, &typ, &t.Quantity,
			&t.Notes, &created, &t.ItemName, &t.Username); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = TransactionType(typ)
		t.CreatedAt = time.Unix(created, 0).UTC()
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
