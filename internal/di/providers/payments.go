package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/lessons-server/internal/config"
	"github.com/listenupapp/lessons-server/internal/logger"
	"github.com/listenupapp/lessons-server/internal/payments"
)

// ProvidePaymentProcessor provides the Stripe client, or a processor that
// refuses every intent when no secret key is configured.
func ProvidePaymentProcessor(i do.Injector) (payments.IntentCreator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Payment.StripeSecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, payment intents are disabled")
		return payments.Unconfigured{}, nil
	}

	processor, err := payments.NewStripeProcessor(cfg.Payment.StripeSecretKey)
	if err != nil {
		return nil, err
	}
	log.Info("Payment processor ready", "provider", "stripe", "currency", cfg.Payment.Currency)
	return processor, nil
}
