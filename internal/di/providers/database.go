package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/listenupapp/lessons-server/internal/config"
	"github.com/listenupapp/lessons-server/internal/logger"
	"github.com/listenupapp/lessons-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the Badger document store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Storage.DataPath, "db")
	db, err := store.New(dbPath, log.ForComponent("store"))
	if err != nil {
		return nil, err
	}

	return &StoreHandle{Store: db}, nil
}
