// Package badgerstore implements the ProjectStore port on BadgerDB, giving the
// board a durable local store with synchronous writes. One database serves all
// projects; the project_<id>_<key> namespace keeps them apart.
package badgerstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"nexusboard/infrastructure/persistence/abstractions"
	pkgerrors "nexusboard/pkg/errors"
)

// Config holds BadgerDB settings.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory runs without disk persistence. Used by tests.
	InMemory bool

	// SyncWrites makes every write durable before returning. The board's
	// ordering guarantee (mutation → local write, never dropped) depends on
	// this staying on in production.
	SyncWrites bool
}

// DefaultConfig returns production settings for a database directory.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns settings for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store is the BadgerDB-backed ProjectStore.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

var _ abstractions.ProjectStore = (*Store)(nil)

// Open opens the database.
func Open(cfg Config, logger *zap.Logger) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, pkgerrors.NewValidationError("store path cannot be empty")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(badgerLogger{logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, pkgerrors.NewStorageError("open", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Set marshals value and writes it synchronously.
func (s *Store) Set(projectID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.NewStorageError("marshal", err)
	}
	storageKey := []byte(abstractions.StorageKey(projectID, key))

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storageKey, data)
	})
	if err != nil {
		return pkgerrors.NewStorageError("set", err)
	}
	return nil
}

// Get reads and unmarshals the stored value. A corrupt entry is deleted and
// reported as absent so the caller's default wins.
func (s *Store) Get(projectID, key string, out interface{}) (bool, error) {
	storageKey := []byte(abstractions.StorageKey(projectID, key))

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storageKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.NewStorageError("get", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("discarding corrupt store entry",
			zap.String("key", string(storageKey)),
			zap.Error(err),
		)
		_ = s.Delete(projectID, key)
		return false, nil
	}
	return true, nil
}

// Delete removes the key; absence is not an error.
func (s *Store) Delete(projectID, key string) error {
	storageKey := []byte(abstractions.StorageKey(projectID, key))

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(storageKey)
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return pkgerrors.NewStorageError("delete", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger routes BadgerDB's internal logging through zap.
type badgerLogger struct {
	logger *zap.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
