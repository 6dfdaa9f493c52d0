// Package localstore persists small JSON documents on the gateway host.
// It stands in for the browser's local storage: identities, the guest
// cart and wishlist, and UI preferences survive restarts through it.
package localstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

// Bucket names. Each bucket holds one JSON document.
const (
	BucketShopperIdentity = "identity:shopper"
	BucketAdminIdentity   = "identity:admin"
	BucketGuestCart       = "guest:cart"
	BucketGuestWishlist   = "guest:wishlist"
	BucketTheme           = "theme"
)

// Store is the persistence surface the rest of the gateway depends on.
// Get returns (false, nil) when the bucket is absent and a ParseFailure
// error when the stored payload cannot be decoded.
type Store interface {
	Get(bucket string, v any) (bool, error)
	Put(bucket string, v any) error
	Delete(bucket string) error
	Close() error
}

// SQLite is a Store backed by a single-table SQLite database.
type SQLite struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS state (
	bucket TEXT PRIMARY KEY,
	payload BLOB NOT NULL
);`

// Open creates or opens the state database at path. Use ":memory:" for
// an ephemeral store.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// The gateway serializes writes itself; one connection avoids
	// SQLITE_BUSY on concurrent bucket updates.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(bucket string, v any) (bool, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM state WHERE bucket = ?`, bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read bucket %s: %w", bucket, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, model.NewParseError(fmt.Sprintf("bucket %s", bucket), err)
	}
	return true, nil
}

func (s *SQLite) Put(bucket string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode bucket %s: %w", bucket, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO state (bucket, payload) VALUES (?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		bucket, payload,
	)
	if err != nil {
		return fmt.Errorf("write bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *SQLite) Delete(bucket string) error {
	if _, err := s.db.Exec(`DELETE FROM state WHERE bucket = ?`, bucket); err != nil {
		return fmt.Errorf("delete bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
