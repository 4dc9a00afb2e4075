// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bufstore persists [dirtybuf.Buffer] contents in a badger
// key-value database, split into fixed-size pages so that a commit
// only rewrites the pages touched by the dirty range.
package bufstore

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"cogentcore.org/pipeline/base/errors"
	"cogentcore.org/pipeline/base/slicesx"
	"cogentcore.org/pipeline/dirtybuf"
	"github.com/dgraph-io/badger/v4"
)

// DefaultPageSize is the page size used when [Config.PageSize] is zero.
const DefaultPageSize = 4096

// Config configures a [Store].
type Config struct {
	// Dir is the database directory; it is required unless InMemory is set.
	Dir string

	// InMemory keeps the database in memory only.
	InMemory bool

	// PageSize is the size of the stored pages in bytes.
	PageSize int

	// Logger receives badger's internal log messages; nil disables them.
	Logger *slog.Logger
}

// Store is a badger database of named buffers.
type Store struct {
	db       *badger.DB
	pageSize int
}

// Open opens the database described by cfg.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, errors.New("bufstore.Open: Dir is required for a persistent store")
		}
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("bufstore.Open: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("bufstore.Open: %w", err)
	}
	ps := cfg.PageSize
	if ps <= 0 {
		ps = DefaultPageSize
	}
	return &Store{db: db, pageSize: ps}, nil
}

// Close closes the database.
func (st *Store) Close() error {
	return st.db.Close()
}

// PageSize returns the size of the stored pages in bytes.
func (st *Store) PageSize() int { return st.pageSize }

func sizeKey(name string) []byte {
	return []byte(name + "/size")
}

func pageKey(name string, page int) []byte {
	k := []byte(name + "/page/")
	return binary.BigEndian.AppendUint64(k, uint64(page))
}

// pages returns the number of pages needed for size bytes.
func (st *Store) pages(size int) int {
	return (size + st.pageSize - 1) / st.pageSize
}

// Buffer returns the backing for the buffer with the given name.
// Its contents are loaded from the database on first use.
func (st *Store) Buffer(name string) *Backing {
	return &Backing{store: st, name: name}
}

// Backing is a [dirtybuf.Provider] holding one named buffer of a [Store].
type Backing struct {
	store  *Store
	name   string
	data   []byte
	loaded bool

	// stored is the size last written to the database.
	stored int
}

// Name returns the name of the buffer in the store.
func (bk *Backing) Name() string { return bk.name }

// StoredSize returns the size last committed to the database.
func (bk *Backing) StoredSize() (int, error) {
	if err := bk.load(); err != nil {
		return 0, err
	}
	return bk.stored, nil
}

func (bk *Backing) load() error {
	if bk.loaded {
		return nil
	}
	st := bk.store
	err := st.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sizeKey(bk.name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		sz, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		size := int(binary.BigEndian.Uint64(sz))
		data := make([]byte, size)
		for p := range st.pages(size) {
			item, err := txn.Get(pageKey(bk.name, p))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(v []byte) error {
				copy(data[p*st.pageSize:], v)
				return nil
			})
			if err != nil {
				return err
			}
		}
		bk.data = data
		bk.stored = size
		return nil
	})
	if err != nil {
		return fmt.Errorf("bufstore.Backing %s load: %w", bk.name, err)
	}
	bk.loaded = true
	return nil
}

// ResizeBuffer resizes the in-memory copy, preserving its prefix.
func (bk *Backing) ResizeBuffer(size int) error {
	if err := bk.load(); err != nil {
		return err
	}
	bk.data = slicesx.SetLength(bk.data, size)
	return nil
}

// BufferBytes returns the in-memory copy.
func (bk *Backing) BufferBytes() ([]byte, error) {
	if err := bk.load(); err != nil {
		return nil, err
	}
	return bk.data, nil
}

// Commit writes the pages of b touched by its dirty range and the
// current size in one transaction, removes pages beyond the end of
// a shrunk buffer, and clears the dirty range. bk must be the
// provider of b. On failure the dirty range is kept.
func (bk *Backing) Commit(b *dirtybuf.Buffer) error {
	dr := b.Dirty()
	size := b.Size()
	if err := bk.load(); err != nil {
		return err
	}
	if dr.Empty() && size == bk.stored {
		return nil
	}
	data, err := b.ReadSlice(0, size)
	if err != nil {
		return err
	}
	st := bk.store
	ps := st.pageSize
	written := 0
	err = st.db.Update(func(txn *badger.Txn) error {
		sz := binary.BigEndian.AppendUint64(nil, uint64(size))
		if err := txn.Set(sizeKey(bk.name), sz); err != nil {
			return err
		}
		if !dr.Empty() {
			for p := dr.Lo / ps; p*ps < dr.Hi; p++ {
				page := append([]byte(nil), data[p*ps:min((p+1)*ps, size)]...)
				if err := txn.Set(pageKey(bk.name, p), page); err != nil {
					return err
				}
				written++
			}
		}
		for p := st.pages(size); p < st.pages(bk.stored); p++ {
			if err := txn.Delete(pageKey(bk.name, p)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: bufstore.Backing %s commit: %w", dirtybuf.ErrResourceUnavailable, bk.name, err)
	}
	slog.Debug("bufstore commit", "buffer", bk.name, "range", dr.String(), "pages", written)
	bk.stored = size
	b.ClearDirty()
	return nil
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
