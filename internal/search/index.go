package search

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/lessons-server/internal/domain"
)

// mappingVersion changes whenever buildIndexMapping does. A stored index
// with another version is discarded and rebuilt.
const mappingVersion = "1"

const rebuildBatchSize = 500

// LessonIndex is the Bleve index of lessons. It is safe for concurrent use;
// the mutex only excludes Rebuild from everything else.
type LessonIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	logger *slog.Logger
}

// Options configures the index.
type Options struct {
	// DataPath is the directory holding the index. Empty keeps the index in
	// memory.
	DataPath string
	Logger   *slog.Logger
}

// NewLessonIndex opens the index under opts.DataPath, creating it when
// missing and recreating it when unreadable or built with another mapping.
func NewLessonIndex(opts Options) (*LessonIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.DataPath == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &LessonIndex{index: idx, logger: logger}, nil
	}

	indexPath := filepath.Join(opts.DataPath, "lessons.bleve")
	versionPath := filepath.Join(opts.DataPath, "lessons.bleve.version")

	var idx bleve.Index
	if _, err := os.Stat(indexPath); err == nil {
		stored, _ := os.ReadFile(versionPath) //#nosec G304 -- path derived from configured data dir
		if string(stored) == mappingVersion {
			idx, err = bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open lesson index, recreating", "path", indexPath, "error", err)
			}
		} else {
			logger.Info("lesson index mapping changed, recreating",
				"old_version", string(stored), "new_version", mappingVersion)
		}
		if idx == nil {
			if err := os.RemoveAll(indexPath); err != nil {
				return nil, fmt.Errorf("remove stale index: %w", err)
			}
		}
	}

	if idx == nil {
		var err error
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o600); err != nil {
			logger.Warn("failed to write index version file", "error", err)
		}
		logger.Info("created lesson index", "path", indexPath)
	} else {
		logger.Info("opened lesson index", "path", indexPath)
	}

	return &LessonIndex{index: idx, path: indexPath, logger: logger}, nil
}

// Close releases the index.
func (x *LessonIndex) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.index.Close()
}

// IndexLesson adds or replaces the lesson's document.
func (x *LessonIndex) IndexLesson(_ context.Context, l *domain.Lesson) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.Index(l.ID, newLessonDocument(l).toMap())
}

// DeleteLesson removes the lesson's document. Unknown ids are ignored.
func (x *LessonIndex) DeleteLesson(_ context.Context, id string) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.Delete(id)
}

// DocumentCount returns the number of indexed lessons.
func (x *LessonIndex) DocumentCount() (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.index.DocCount()
}

// Rebuild replaces the index content with lessons. Queries wait until it
// finishes.
func (x *LessonIndex) Rebuild(ctx context.Context, lessons iter.Seq2[*domain.Lesson, error]) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	fresh, err := x.emptyIndex()
	if err != nil {
		return 0, err
	}
	x.index = fresh

	n := 0
	batch := x.index.NewBatch()
	for l, err := range lessons {
		if err != nil {
			return n, fmt.Errorf("read lessons: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := batch.Index(l.ID, newLessonDocument(l).toMap()); err != nil {
			return n, fmt.Errorf("batch lesson %s: %w", l.ID, err)
		}
		n++
		if batch.Size() >= rebuildBatchSize {
			if err := x.index.Batch(batch); err != nil {
				return n, fmt.Errorf("commit batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := x.index.Batch(batch); err != nil {
			return n, fmt.Errorf("commit batch: %w", err)
		}
	}

	x.logger.Info("rebuilt lesson index", "lessons", n)
	return n, nil
}

// emptyIndex closes the current index and returns a new empty one at the
// same location. Callers hold the write lock.
func (x *LessonIndex) emptyIndex() (bleve.Index, error) {
	if err := x.index.Close(); err != nil {
		return nil, fmt.Errorf("close index: %w", err)
	}
	if x.path == "" {
		return bleve.NewMemOnly(buildIndexMapping())
	}
	if err := os.RemoveAll(x.path); err != nil {
		return nil, fmt.Errorf("remove index: %w", err)
	}
	return bleve.New(x.path, buildIndexMapping())
}
