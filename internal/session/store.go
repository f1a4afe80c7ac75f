// Package session provides the durable backing store for visitor interest
// state: an embedded BadgerDB keyed by visitor id.
package session

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces visitor state within the database.
const keyPrefix = "interest:"

// Options configures the store. InMemory disables disk persistence and is
// meant for tests.
type Options struct {
	Path     string
	InMemory bool
}

// Store is a BadgerDB-backed interest.Store holding one entry per visitor.
type Store struct {
	db *badger.DB
}

func Open(opts Options) (*Store, error) {
	path := opts.Path
	if opts.InMemory {
		path = ""
	}
	bopts := badger.DefaultOptions(path).
		WithInMemory(opts.InMemory).
		WithLogger(nil)
	if !opts.InMemory {
		bopts = bopts.WithSyncWrites(true)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}

// Load returns the stored state for a visitor, or (nil, nil) when none exists.
func (s *Store) Load(id string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return out, nil
}

// Save writes a visitor's state, replacing any previous entry.
func (s *Store) Save(id string, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(id), data)
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}
