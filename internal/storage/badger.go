package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"
)

// Badger is a KV persisted with BadgerDB.
type Badger struct {
	db     *badger.DB
	prefix []byte
}

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Dir is the database directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps the database in RAM only.
	InMemory bool

	// Scope prefixes every key, so that several profiles can share a
	// database without clashing.
	Scope string
}

// OpenBadger opens (or creates) a Badger database.
func OpenBadger(opts BadgerOptions) (*Badger, error) {
	var bo badger.Options
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, errors.New("badger: directory is required")
		}
		if err := os.MkdirAll(opts.Dir, 0o700); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
		bo = badger.DefaultOptions(opts.Dir)
	}
	bo = bo.WithLogger(badgerLogger{log.Default().WithPrefix("badger")})

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	var prefix []byte
	if opts.Scope != "" {
		prefix = []byte(opts.Scope + "/")
	}
	return &Badger{db: db, prefix: prefix}, nil
}

// Get returns the value stored under key.
func (b *Badger) Get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return out, nil
}

// Set stores value under key.
func (b *Badger) Set(key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key(key), value)
	})
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func (b *Badger) key(k string) []byte {
	return append(append([]byte(nil), b.prefix...), k...)
}

// badgerLogger routes Badger's internal logging through charmbracelet/log.
// Badger is chatty at info level, so that is demoted to debug.
type badgerLogger struct {
	l *log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Errorf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warnf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debugf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debugf(format, args...)
}

var (
	_ KV = (*Badger)(nil)
	_ KV = (*Memory)(nil)
)
