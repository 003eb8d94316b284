package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// Bootstrap creates the first admin account. It only works on an empty users
// table, so it cannot be used to sneak in extra admins later.
func (s *Store) Bootstrap(ctx context.Context, username, password string) (User, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return User{}, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return User{}, fmt.Errorf("inventory already has users; ask an admin to create your account")
	}
	return s.createUser(ctx, username, password, RoleAdmin)
}

// CreateUser adds an account. Only admins may manage users.
func (s *Store) CreateUser(ctx context.Context, actor User, username, password string, role Role) (User, error) {
	if !actor.Role.Can(ActionManageUsers) {
		return User{}, fmt.Errorf("create user: %w", ErrPermissionDenied)
	}
	return s.createUser(ctx, username, password, role)
}

func (s *Store) createUser(ctx context.Context, username, password string, role Role) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, fmt.Errorf("username is required")
	}
	if len(password) < minPasswordLen {
		return User{}, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	id, err := s.insertID(ctx, s.rebind(
		"INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)"),
		username, string(hash), string(role), now.Unix())
	if err != nil {
		return User{}, fmt.Errorf("create user %s: %w", username, err)
	}
	return User{ID: id, Username: username, Role: role, CreatedAt: now}, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords both come back as ErrInvalidCredentials; any storage error is
// returned as-is so a broken database never lets anyone in.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	var (
		u       User
		hash    string
		role    string
		created int64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?"),
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &hash, &role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		// Burn a comparison anyway so lookups take the same time for
		// unknown and known users.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$000000000000000000000uGyUasdfhLqTrzcUobkC6HJVr1hGy6xi"), []byte(password))
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	u.Role = Role(role)
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}

// GetUser looks an account up by username.
func (s *Store) GetUser(ctx context.Context, username string) (User, error) {
	var (
		u       User
		role    string
		created int64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT id, username, role, created_at FROM users WHERE username = ?"),
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("look up user: %w", err)
	}
	u.Role = Role(role)
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}

// ListUsers returns every account. Only admins may see the user list.
func (s *Store) ListUsers(ctx context.Context, actor User) ([]User, error) {
	if !actor.Role.Can(ActionManageUsers) {
		return nil, fmt.Errorf("list users: %w", ErrPermissionDenied)
	}
	rows, err := s.db.QueryContext(ctx, "SELECT id, username, role, created_at FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var (
			u       User
			role    string
			created int64
		)
		if err := rows.Scan(&u.ID, &u.Username, &role, &created); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = Role(role)
		u.CreatedAt = time.Unix(created, 0).UTC()
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetUserRole changes an account's role. The last admin cannot be demoted.
func (s *Store) SetUserRole(ctx context.Context, actor User, username string, role Role) error {
	if !actor.Role.Can(ActionManageUsers) {
		return fmt.Errorf("change role: %w", ErrPermissionDenied)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	target, err := s.GetUser(ctx, username)
	if err != nil {
		return err
	}
	if target.Role == RoleAdmin && role != RoleAdmin {
		if err := s.requireAnotherAdmin(ctx, target.ID); err != nil {
			return err
		}
	}
	_, err = s.db.ExecContext(ctx, s.rebind("UPDATE users SET role = ? WHERE id = ?"), string(role), target.ID)
	if err != nil {
		return fmt.Errorf("change role for %s: %w", username, err)
	}
	return nil
}

// DeleteUser removes an account. The last admin cannot be deleted, and
// accounts with transaction history are kept for the audit trail.
func (s *Store) DeleteUser(ctx context.Context, actor User, username string) error {
	if !actor.Role.Can(ActionManageUsers) {
		return fmt.Errorf("delete user: %w", ErrPermissionDenied)
	}
	target, err := s.GetUser(ctx, username)
	if err != nil {
		return err
	}
	if target.Role == RoleAdmin {
		if err := s.requireAnotherAdmin(ctx, target.ID); err != nil {
			return err
		}
	}
	var txns int
	if err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT COUNT(*) FROM transactions WHERE user_id = ?"), target.ID).Scan(&txns); err != nil {
		return fmt.Errorf("check transactions for %s: %w", username, err)
	}
	if txns > 0 {
		return fmt.Errorf("user %s has %d recorded transactions and cannot be deleted", username, txns)
	}
	_, err = s.db.ExecContext(ctx, s.rebind("DELETE FROM users WHERE id = ?"), target.ID)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", username, err)
	}
	return nil
}

// requireAnotherAdmin errors unless an admin other than excludeID exists.
func (s *Store) requireAnotherAdmin(ctx context.Context, excludeID int64) error {
	var others int
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT COUNT(*) FROM users WHERE role = ? AND id <> ?"), string(RoleAdmin), excludeID).Scan(&others)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if others == 0 {
		return fmt.Errorf("cannot remove the last admin")
	}
	return nil
}
