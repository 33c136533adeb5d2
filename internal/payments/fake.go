package payments

import (
	"context"
	"fmt"
	"sync"
)

// FakeProcessor is an in-memory IntentCreator for tests and local runs.
type FakeProcessor struct {
	mu      sync.Mutex
	Err     error
	Created []Intent
}

func (f *FakeProcessor) CreateIntent(_ context.Context, amount int64, currency string) (*Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	n := len(f.Created) + 1
	intent := Intent{
		ID:           fmt.Sprintf("pi_fake_%d", n),
		ClientSecret: fmt.Sprintf("pi_fake_%d_secret", n),
		Amount:       amount,
		Currency:     currency,
	}
	f.Created = append(f.Created, intent)
	return &intent, nil
}
