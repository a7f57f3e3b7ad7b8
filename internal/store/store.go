// Package store provides the opaque string key-value store the storefront
// persists its durable state in: the cart snapshot and the session flags.
package store

import "context"

// KV is a string-keyed store. Get reports whether the key existed so callers
// can distinguish "absent" from "empty value".
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
