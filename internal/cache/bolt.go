package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var entriesBucket = []byte("entries")

// BoltStore implements Store on a bbolt file so one-shot command invocations
// share a cache across processes. Entries are JSON-encoded; bbolt serializes
// access internally.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the cache file at path. The parent
// directory is created if missing. The open times out after one second so a
// concurrent invocation holding the file lock fails fast instead of hanging.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache file %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Get implements Store.Get. Entries that fail to decode are treated as
// misses so a corrupted record cannot wedge a key forever.
func (s *BoltStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	if ctx.Err() != nil {
		return Entry{}, false, ctx.Err()
	}
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	if raw == nil {
		return Entry{}, false, nil
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Set implements Store.Set.
func (s *BoltStore) Set(ctx context.Context, key string, e Entry) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(entriesBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), raw)
	})
}

// Clear drops and recreates the entries bucket.
func (s *BoltStore) Clear(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(entriesBucket); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
}

// Status counts entries and reports the fetch-time bounds.
func (s *BoltStore) Status(ctx context.Context) (Status, error) {
	if ctx.Err() != nil {
		return Status{}, ctx.Err()
	}
	st := Status{Backend: "bolt", Connected: true}
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			st.Entries++
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return nil
			}
			if st.Oldest.IsZero() || e.FetchedAt.Before(st.Oldest) {
				st.Oldest = e.FetchedAt
			}
			if e.FetchedAt.After(st.Newest) {
				st.Newest = e.FetchedAt
			}
			return nil
		})
	})
	if err != nil {
		return Status{}, err
	}
	return st, nil
}

// Close releases the file lock. Call before the process exits.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
