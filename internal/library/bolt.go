// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	boltFile      = "library.bolt"
	slotsBktName  = "slots"
	boltOpenLimit = 5 * time.Second
)

// BoltSlot stores slots as keys of a single BoltDB bucket.
type BoltSlot struct {
	db *bolt.DB
}

// NewBoltSlot opens or creates dataDir/library.bolt.
func NewBoltSlot(dataDir string) (*BoltSlot, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dataDir, boltFile), 0o600, &bolt.Options{Timeout: boltOpenLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", dataDir, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(slotsBktName)); err != nil {
			return fmt.Errorf("create top-level bucket %s: %w", slotsBktName, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &BoltSlot{db: db}, nil
}

// Get returns the value stored under key.
func (b *BoltSlot) Get(_ context.Context, key string) (value []byte, ok bool, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(slotsBktName)).Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction.
		value = append([]byte(nil), v...)
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("view storage: %w", err)
	}
	return value, ok, nil
}

// Put replaces the value stored under key.
func (b *BoltSlot) Put(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(slotsBktName)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}
	return nil
}

// Close closes the storage.
func (b *BoltSlot) Close() error { return b.db.Close() }
