package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/listenupapp/lessons-server/internal/config"
	"github.com/listenupapp/lessons-server/internal/logger"
	"github.com/listenupapp/lessons-server/internal/search"
)

// SearchIndexHandle wraps the lesson index with shutdown capability.
type SearchIndexHandle struct {
	*search.LessonIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve lesson index and wires it into the
// store so committed lesson writes reach it.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewLessonIndex(search.Options{
		DataPath: filepath.Join(cfg.Storage.DataPath, "search"),
		Logger:   log.ForComponent("search"),
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetLessonIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Lesson index initialized", "documents", docCount)

	return &SearchIndexHandle{LessonIndex: index}, nil
}
