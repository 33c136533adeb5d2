package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity stores JSON documents of type T under a key prefix and maintains
// their secondary indexes inside the same transaction as the document.
type Entity[T any] struct {
	store   *Store
	prefix  string
	idOf    func(*T) string
	indexes []index[T]
	commit  func(context.Context, *T)
}

type index[T any] struct {
	name   string
	unique bool
	values func(*T) []string
}

// NewEntity creates an entity for documents of type T stored under prefix.
// idOf returns the document's primary id.
func NewEntity[T any](s *Store, prefix string, idOf func(*T) string) *Entity[T] {
	return &Entity[T]{store: s, prefix: prefix, idOf: idOf}
}

// WithUniqueIndex adds an index whose values may belong to at most one
// document. Writes that would reuse a value fail with ErrAlreadyExists.
func (e *Entity[T]) WithUniqueIndex(name string, values func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, index[T]{name: name, unique: true, values: values})
	return e
}

// WithLookupIndex adds a non-unique index used to find all documents sharing
// a value.
func (e *Entity[T]) WithLookupIndex(name string, values func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, index[T]{name: name, values: values})
	return e
}

// WithCommitHook registers fn to run after Create or Mutate commits. It runs
// while the document's write lock is held, so successive calls for one
// document arrive in commit order.
func (e *Entity[T]) WithCommitHook(fn func(context.Context, *T)) *Entity[T] {
	e.commit = fn
	return e
}

func (e *Entity[T]) indexKeys(idx index[T], doc *T) []string {
	vals := idx.values(doc)
	keys := make([]string, 0, len(vals))
	for _, v := range vals {
		if idx.unique {
			keys = append(keys, uniqueIndexKey(e.prefix, idx.name, v))
		} else {
			keys = append(keys, lookupIndexPrefix(e.prefix, idx.name, v)+e.idOf(doc))
		}
	}
	return keys
}

// Create inserts doc. It fails with ErrAlreadyExists when the id or a unique
// index value is already taken.
func (e *Entity[T]) Create(ctx context.Context, doc *T) error {
	unlock := e.store.lockDocument(e.prefix + e.idOf(doc))
	defer unlock()

	if err := e.store.update(ctx, func(txn *badger.Txn) error {
		return e.createTxn(txn, doc)
	}); err != nil {
		return err
	}
	e.committed(ctx, doc)
	return nil
}

// Get returns the document with id, or ErrNotFound.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	var doc *T
	err := e.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		doc, err = e.getTxn(txn, id)
		return err
	})
	return doc, err
}

// GetByUnique resolves a unique index value to its document.
func (e *Entity[T]) GetByUnique(ctx context.Context, indexName, value string) (*T, error) {
	var doc *T
	err := e.store.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(uniqueIndexKey(e.prefix, indexName, value)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		doc, err = e.getTxn(txn, string(id))
		return err
	})
	return doc, err
}

// GetMany returns the documents for ids in the same order, skipping ids that
// no longer exist.
func (e *Entity[T]) GetMany(ctx context.Context, ids []string) ([]*T, error) {
	docs := make([]*T, 0, len(ids))
	err := e.store.view(ctx, func(txn *badger.Txn) error {
		docs = docs[:0]
		for _, id := range ids {
			doc, err := e.getTxn(txn, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	})
	return docs, err
}

// ListBy returns every document carrying value in the named lookup index.
func (e *Entity[T]) ListBy(ctx context.Context, indexName, value string) ([]*T, error) {
	var docs []*T
	err := e.store.view(ctx, func(txn *badger.Txn) error {
		docs = nil
		for _, id := range e.lookupTxn(txn, indexName, value) {
			doc, err := e.getTxn(txn, id)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	})
	return docs, err
}

// Mutate loads the document, applies fn and writes the result back with its
// indexes in one transaction. Writers to the same document queue on its
// write lock instead of failing each other's commits.
func (e *Entity[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	unlock := e.store.lockDocument(e.prefix + id)
	defer unlock()

	var doc *T
	err := e.store.update(ctx, func(txn *badger.Txn) error {
		var err error
		doc, err = e.mutateTxn(txn, id, fn)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.committed(ctx, doc)
	return doc, nil
}

// Delete removes the document and its index keys. It reports ErrNotFound
// when nothing was stored under id.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	unlock := e.store.lockDocument(e.prefix + id)
	defer unlock()

	return e.store.update(ctx, func(txn *badger.Txn) error {
		return e.deleteTxn(txn, id)
	})
}

func (e *Entity[T]) committed(ctx context.Context, doc *T) {
	if e.commit != nil {
		e.commit(ctx, doc)
	}
}

// Count returns the number of stored documents.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	n := 0
	err := e.store.view(ctx, func(txn *badger.Txn) error {
		n = 0
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(e.prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if !e.isIndexKey(it.Item().Key()) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// List iterates over all documents in key order.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		err := e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Rewind(); it.Valid(); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}
				if e.isIndexKey(it.Item().Key()) {
					continue
				}

				var doc T
				if err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &doc)
				}); err != nil {
					return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
				}
				if !yield(&doc, nil) {
					return errStopIteration
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopIteration) {
			yield(nil, err)
		}
	}
}

var errStopIteration = errors.New("iteration stopped")

func (e *Entity[T]) isIndexKey(key []byte) bool {
	return strings.HasPrefix(string(key[len(e.prefix):]), indexSegment)
}

// Transaction-scoped helpers. Store methods compose these when one operation
// must touch several collections atomically.

func (e *Entity[T]) getTxn(txn *badger.Txn, id string) (*T, error) {
	key := buildKey(e.prefix, id)
	defer releaseKey(key)

	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s%s: %w", e.prefix, id, err)
	}

	var doc T
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	}); err != nil {
		return nil, fmt.Errorf("decode %s%s: %w", e.prefix, id, err)
	}
	return &doc, nil
}

func (e *Entity[T]) existsTxn(txn *badger.Txn, id string) (bool, error) {
	key := buildKey(e.prefix, id)
	defer releaseKey(key)

	_, err := txn.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (e *Entity[T]) createTxn(txn *badger.Txn, doc *T) error {
	id := e.idOf(doc)
	exists, err := e.existsTxn(txn, id)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}
	if err := e.checkUniqueTxn(txn, doc, nil); err != nil {
		return err
	}
	return e.putTxn(txn, doc)
}

func (e *Entity[T]) mutateTxn(txn *badger.Txn, id string, fn func(*T) error) (*T, error) {
	before, err := e.getTxn(txn, id)
	if err != nil {
		return nil, err
	}
	after, err := e.getTxn(txn, id)
	if err != nil {
		return nil, err
	}
	if err := fn(after); err != nil {
		return nil, err
	}
	if e.idOf(after) != id {
		return nil, fmt.Errorf("mutate %s%s: id must not change", e.prefix, id)
	}
	if err := e.checkUniqueTxn(txn, after, before); err != nil {
		return nil, err
	}
	if err := e.dropIndexesTxn(txn, before); err != nil {
		return nil, err
	}
	if err := e.putTxn(txn, after); err != nil {
		return nil, err
	}
	return after, nil
}

func (e *Entity[T]) deleteTxn(txn *badger.Txn, id string) error {
	doc, err := e.getTxn(txn, id)
	if err != nil {
		return err
	}
	if err := e.dropIndexesTxn(txn, doc); err != nil {
		return err
	}
	return txn.Delete([]byte(e.prefix + id))
}

// checkUniqueTxn fails if doc claims a unique value held by another document.
// Values already held by previous (the stored version of doc) are allowed.
func (e *Entity[T]) checkUniqueTxn(txn *badger.Txn, doc, previous *T) error {
	for _, idx := range e.indexes {
		if !idx.unique {
			continue
		}
		held := map[string]bool{}
		if previous != nil {
			for _, k := range e.indexKeys(idx, previous) {
				held[k] = true
			}
		}
		for _, k := range e.indexKeys(idx, doc) {
			if held[k] {
				continue
			}
			_, err := txn.Get([]byte(k))
			if err == nil {
				return fmt.Errorf("%s index %s: %w", e.prefix, idx.name, ErrAlreadyExists)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check index %s: %w", idx.name, err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) putTxn(txn *badger.Txn, doc *T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", e.prefix, err)
	}
	id := e.idOf(doc)
	if err := txn.Set([]byte(e.prefix+id), data); err != nil {
		return fmt.Errorf("set %s%s: %w", e.prefix, id, err)
	}
	for _, idx := range e.indexes {
		for _, k := range e.indexKeys(idx, doc) {
			if err := txn.Set([]byte(k), []byte(id)); err != nil {
				return fmt.Errorf("set index %s: %w", idx.name, err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) dropIndexesTxn(txn *badger.Txn, doc *T) error {
	for _, idx := range e.indexes {
		for _, k := range e.indexKeys(idx, doc) {
			if err := txn.Delete([]byte(k)); err != nil {
				return fmt.Errorf("delete index %s: %w", idx.name, err)
			}
		}
	}
	return nil
}

// lookupTxn returns the ids recorded under value in a lookup index.
func (e *Entity[T]) lookupTxn(txn *badger.Txn, indexName, value string) []string {
	prefix := []byte(lookupIndexPrefix(e.prefix, indexName, value))

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Rewind(); it.Valid(); it.Next() {
		ids = append(ids, string(it.Item().Key()[len(prefix):]))
	}
	return ids
}
