package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/egsam98/encoders/internal/badgerx"
)

type BadgerConfig struct {
	// Path of the database directory. Empty path opens an in-memory database.
	Path   string `yaml:"path"`
	Prefix string `yaml:"prefix" validate:"default=documents"`
}

// Badger stores documents under `{prefix}/data/{seq}` keys ordered by arrival.
type Badger struct {
	db     *badger.DB
	seq    *badger.Sequence
	prefix string
}

func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithLogger(&badgerx.Logger{Log: log.Logger})
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open Badger %q", cfg.Path)
	}
	seq, err := db.GetSequence([]byte(cfg.Prefix+"/seq"), 100)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "Badger: get sequence")
	}
	return &Badger{db: db, seq: seq, prefix: cfg.Prefix}, nil
}

func (b *Badger) Write(_ context.Context, doc []byte) error {
	n, err := b.seq.Next()
	if err != nil {
		return errors.Wrap(err, "Badger: next sequence")
	}
	key := fmt.Appendf(nil, "%s/data/%020d", b.prefix, n)
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, bytes.Clone(doc))
	})
}

// Each calls fn for every stored document in write order.
func (b *Badger) Each(fn func(doc []byte) error) error {
	prefix := []byte(b.prefix + "/data/")
	return b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 100})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Badger) Close() error {
	if err := b.seq.Release(); err != nil {
		return errors.Wrap(err, "Badger: release sequence")
	}
	return b.db.Close()
}
