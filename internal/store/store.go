// Package store persists users, lessons, reports, favorites and payments as
// JSON documents in Badger.
package store

import (
	"context"
	"errors"
	"fmt"
	"hash/maphash"
	"io"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/lessons-server/internal/domain"
)

// maxTxnAttempts bounds how often a transaction is re-run after Badger
// reports a write conflict with a concurrent transaction.
const maxTxnAttempts = 10

// docLockStripes is the number of mutexes document writes are spread over.
const docLockStripes = 256

// LessonIndexer keeps the lesson query index in step with stored lessons.
// It is called after the owning transaction commits.
type LessonIndexer interface {
	IndexLesson(ctx context.Context, lesson *domain.Lesson) error
	DeleteLesson(ctx context.Context, lessonID string) error
}

// NoopLessonIndexer discards index updates.
type NoopLessonIndexer struct{}

func (NoopLessonIndexer) IndexLesson(context.Context, *domain.Lesson) error { return nil }
func (NoopLessonIndexer) DeleteLesson(context.Context, string) error        { return nil }

// Store wraps a Badger database.
type Store struct {
	db      *badger.DB
	logger  *slog.Logger
	indexer LessonIndexer

	// Writes to one document take its stripe, so they commit one at a time
	// and commit hooks see them in commit order.
	docLocks [docLockStripes]sync.Mutex
	lockSeed maphash.Seed

	Users     *Entity[domain.User]
	Lessons   *Entity[domain.Lesson]
	Reports   *Entity[domain.Report]
	Favorites *Entity[domain.Favorite]
	Payments  *Entity[domain.Payment]
}

// New opens (or creates) the database at path. A nil logger discards logs.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := &Store{
		db:      db,
		logger:  logger,
		indexer:  NoopLessonIndexer{},
		lockSeed: maphash.MakeSeed(),
	}
	s.initEntities()

	logger.Info("Badger database opened", "path", path)
	return s, nil
}

func (s *Store) initEntities() {
	s.Users = NewEntity(s, "user:", func(u *domain.User) string { return u.ID }).
		WithUniqueIndex("email", func(u *domain.User) []string {
			return []string{domain.NormalizeEmail(u.Email)}
		})

	s.Lessons = NewEntity(s, "lesson:", func(l *domain.Lesson) string { return l.ID }).
		WithLookupIndex("author", func(l *domain.Lesson) []string {
			return []string{domain.NormalizeEmail(l.AuthorEmail)}
		}).
		WithCommitHook(s.indexLesson)

	s.Reports = NewEntity(s, "report:", func(r *domain.Report) string { return r.ID }).
		WithLookupIndex("lesson", func(r *domain.Report) []string {
			return []string{r.LessonID}
		})

	s.Favorites = NewEntity(s, "favorite:", func(f *domain.Favorite) string { return f.ID }).
		WithUniqueIndex("pair", func(f *domain.Favorite) []string {
			return []string{domain.FavoriteKey(f.LessonID, f.UserEmail)}
		}).
		WithLookupIndex("user", func(f *domain.Favorite) []string {
			return []string{domain.NormalizeEmail(f.UserEmail)}
		}).
		WithLookupIndex("lesson", func(f *domain.Favorite) []string {
			return []string{f.LessonID}
		})

	s.Payments = NewEntity(s, "payment:", func(p *domain.Payment) string { return p.ID }).
		WithUniqueIndex("txn", func(p *domain.Payment) []string {
			return []string{p.TransactionID}
		}).
		WithLookupIndex("email", func(p *domain.Payment) []string {
			return []string{domain.NormalizeEmail(p.Email)}
		})
}

// SetLessonIndexer wires the query index. It is set after construction
// because the index is built from the store on startup.
func (s *Store) SetLessonIndexer(indexer LessonIndexer) {
	if indexer == nil {
		indexer = NoopLessonIndexer{}
	}
	s.indexer = indexer
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	s.logger.Info("Closing database")
	return s.db.Close()
}

// Ping performs a trivial read to check the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.view(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("health:ping"))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// lockDocument takes the write lock for key and returns its release.
func (s *Store) lockDocument(key string) func() {
	mu := &s.docLocks[maphash.String(s.lockSeed, key)%docLockStripes]
	mu.Lock()
	return mu.Unlock
}

// update runs fn in a read-write transaction. fn may run more than once
// when the commit conflicts with a concurrent transaction, so it must
// reset any state it captures.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 1; attempt <= maxTxnAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.logger.Debug("transaction conflict, retrying", "attempt", attempt)
	}
	return err
}

func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}
