package health

import (
	"context"
	"time"

	"github.com/noah-isme/storefront/internal/store"
)

// StoreChecker probes the durable key-value store with a read.
type StoreChecker struct {
	KV store.KV
}

// PingStore issues a read against a probe key within the timeout.
func (c StoreChecker) PingStore(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, _, err := c.KV.Get(ctx, "healthcheck")
	return err
}
