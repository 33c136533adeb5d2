// Package di wires the lessons server together with samber/do.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/lessons-server/internal/auth"
	"github.com/listenupapp/lessons-server/internal/config"
	"github.com/listenupapp/lessons-server/internal/di/providers"
	"github.com/listenupapp/lessons-server/internal/logger"
	"github.com/listenupapp/lessons-server/internal/payments"
	"github.com/listenupapp/lessons-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// External providers
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePaymentProcessor)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideLessonService)
	do.Provide(injector, providers.ProvideFavoriteService)
	do.Provide(injector, providers.ProvideReportService)
	do.Provide(injector, providers.ProvidePaymentService)
	do.Provide(injector, providers.ProvideAdminService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap resolves every provider, brings the index in line with the
// store and starts the HTTP server.
func Bootstrap(ctx context.Context, injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[payments.IntentCreator](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.LessonService](injector)
	_ = do.MustInvoke[*service.FavoriteService](injector)
	_ = do.MustInvoke[*service.ReportService](injector)
	_ = do.MustInvoke[*service.PaymentService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)

	if err := providers.SyncLessonIndex(ctx, injector); err != nil {
		return err
	}
	if err := providers.EnsureBootstrapAdmin(ctx, injector); err != nil {
		return err
	}

	// Serve last so requests never see a stale index.
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
