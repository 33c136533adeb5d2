package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/listenupapp/lessons-server/internal/config"
	"github.com/listenupapp/lessons-server/internal/service"
)

// SyncLessonIndex rebuilds the lesson index if it drifted from the store.
func SyncLessonIndex(ctx context.Context, i do.Injector) error {
	lessons := do.MustInvoke[*service.LessonService](i)
	if err := lessons.SyncIndex(ctx); err != nil {
		return fmt.Errorf("sync lesson index: %w", err)
	}
	return nil
}

// EnsureBootstrapAdmin promotes the configured ADMIN_EMAIL account.
func EnsureBootstrapAdmin(ctx context.Context, i do.Injector) error {
	cfg := do.MustInvoke[*config.Config](i)
	admin := do.MustInvoke[*service.AdminService](i)
	if err := admin.EnsureAdmin(ctx, cfg.App.AdminEmail); err != nil {
		return fmt.Errorf("ensure bootstrap admin: %w", err)
	}
	return nil
}
