package infra

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"planner-core/persistence/domain"

	"go.etcd.io/bbolt"
)

const syncBucket = "records"

// BoltStore é o tier síncrono em arquivo (BoltDB).
// Cada Put é uma transação própria: o valor inteiro substitui o anterior.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt abre (ou cria) o arquivo do tier síncrono.
func OpenBolt(path string) (*BoltStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sync tier path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open sync tier: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(syncBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sync bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BoltStore) Get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(syncBucket))
		if b == nil {
			return fmt.Errorf("sync bucket is missing")
		}
		v := b.Get([]byte(key))
		if v == nil {
			return domain.ErrNotFound
		}
		// o slice só vale dentro da transação
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (s *BoltStore) Put(key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(syncBucket))
		if b == nil {
			return fmt.Errorf("sync bucket is missing")
		}
		return b.Put([]byte(key), value)
	})
}

func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(syncBucket))
		if b == nil {
			return fmt.Errorf("sync bucket is missing")
		}
		return b.Delete([]byte(key))
	})
}
