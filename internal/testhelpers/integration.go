//go:build integration
// +build integration

// Package testhelpers wires integration tests to real backing services.
// Tests that need a live memcached or SQL server call these and skip when
// the service is not configured, so `go test -tags integration` degrades
// gracefully on a laptop without the full stack.
package testhelpers

import (
	"os"
	"testing"
	"time"

	"github.com/kjstillabower/deskmate/internal/cache"
	"github.com/kjstillabower/deskmate/internal/inventory"
)

// MemcachedStore returns a cache store against a live memcached, skipping
// the test when MEMCACHED_ADDRS is unset or the server is unreachable.
func MemcachedStore(t *testing.T) *cache.MemcachedStore {
	t.Helper()
	addrs := os.Getenv("MEMCACHED_ADDRS")
	if addrs == "" {
		t.Skip("MEMCACHED_ADDRS not set, skipping memcached integration test")
	}
	store, err := cache.NewMemcachedStore(addrs, 500*time.Millisecond, 2, time.Hour)
	if err != nil {
		t.Fatalf("NewMemcachedStore(%q) error = %v", addrs, err)
	}
	if err := store.Ping(); err != nil {
		t.Skipf("memcached at %s not reachable: %v", addrs, err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// InventoryStore returns an inventory store against a live MySQL or
// PostgreSQL server, skipping when the matching DSN env var is unset.
// backend is "mysql" (INVENTORY_TEST_MYSQL_DSN) or "postgres"
// (INVENTORY_TEST_POSTGRES_DSN). The schema is migrated up before the test
// and torn down after, so point the DSN at a throwaway database.
func InventoryStore(t *testing.T, backend inventory.Backend) *inventory.Store {
	t.Helper()
	var dsn string
	switch backend {
	case inventory.BackendMySQL:
		dsn = os.Getenv("INVENTORY_TEST_MYSQL_DSN")
	case inventory.BackendPostgres:
		dsn = os.Getenv("INVENTORY_TEST_POSTGRES_DSN")
	default:
		t.Fatalf("InventoryStore: unsupported backend %s", backend)
	}
	if dsn == "" {
		t.Skipf("no test DSN configured for %s, skipping", backend)
	}

	store, err := inventory.Open(backend, dsn)
	if err != nil {
		t.Skipf("%s not reachable: %v", backend, err)
	}
	if _, _, err := store.Migrate(-1); err != nil {
		_ = store.Close()
		t.Fatalf("Migrate(-1) error = %v", err)
	}
	t.Cleanup(func() {
		_, _, _ = store.Migrate(0)
		_ = store.Close()
	})
	return store
}
