package idempotency

import (
	"context"
	"encoding/json"
	"time"

	bolt "github.com/boltdb/bolt"
)

const boltBucket = "idempotency_keys"

// BoltStore keeps idempotency records in an embedded BoltDB file. It is used
// when no Redis address is configured. Expiry is checked on read.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltStore opens (or creates) the database at path and ensures the bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close releases the database file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BoltStore)(nil)

func (s *BoltStore) Reserve(_ context.Context, key string, fingerprint string, ttl time.Duration) (*Record, bool, error) {
	var existing *Record
	reserved := false
	now := s.now()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		if raw := b.Get([]byte(key)); raw != nil {
			var rec Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				return err
			}
			if now.Before(rec.ExpiresAt) {
				existing = &rec
				return nil
			}
		}

		data, err := json.Marshal(Record{State: StateInProgress, Fingerprint: fingerprint, CreatedAt: now, ExpiresAt: now.Add(ttl)})
		if err != nil {
			return err
		}
		reserved = true
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return nil, false, err
	}
	return existing, reserved, nil
}

func (s *BoltStore) Complete(_ context.Context, key string, rec Record, ttl time.Duration) error {
	rec.State = StateCompleted
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	rec.ExpiresAt = rec.CreatedAt.Add(ttl)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), data)
	})
}

// Release is a no-op when the key does not exist.
func (s *BoltStore) Release(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
}

// Purge removes expired records and returns how many were dropped.
func (s *BoltStore) Purge() (int, error) {
	now := s.now()
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil || !now.Before(rec.ExpiresAt) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	return removed, err
}
