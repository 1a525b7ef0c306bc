package typecache

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	bolt "go.etcd.io/bbolt"
)

var bucketTypes = []byte("types")

// Store is a bbolt-backed cache of type Records, keyed by type name.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a typecache database under dataDir.
func Open(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "flowrt-typecache.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("typecache: open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTypes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("typecache: create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put upserts rec under rec.Name.
func (s *Store) Put(rec Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTypes)
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(rec.Name), data)
	})
}

// Get returns the record stored under name.
func (s *Store) Get(name string) (Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTypes)
		data := b.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("typecache: %q: %w", name, flowerrors.ErrNotFound)
		}
		return json.Unmarshal(data, &rec)
	})
	return rec, err
}

// List returns every stored record, in bbolt's key order (lexicographic
// by name).
func (s *Store) List() ([]Record, error) {
	var recs []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTypes)
		return b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			recs = append(recs, rec)
			return nil
		})
	})
	return recs, err
}

// Delete removes the record stored under name, if any.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTypes)
		return b.Delete([]byte(name))
	})
}
