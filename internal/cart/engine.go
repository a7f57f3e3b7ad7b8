package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/store"
)

// ErrNotHydrated is returned when a mutation runs before Hydrate. Callers are
// expected to hydrate exactly once at startup.
var ErrNotHydrated = errors.New("cart: engine not hydrated")

// ErrInvalidVariant is returned for an out-of-range variant index.
var ErrInvalidVariant = errors.New("cart: invalid variant index")

// ErrOutOfStock is returned for zero-stock adds when zero-quantity lines are
// disabled via configuration.
var ErrOutOfStock = errors.New("cart: size out of stock")

// Engine is the single source of truth for cart contents. All mutations go
// through it; the in-memory state is updated synchronously while the durable
// snapshot is written behind by a background worker.
type Engine struct {
	log               zerolog.Logger
	allowZeroQtyLines bool

	mu       sync.Mutex
	items    []LineItem
	hydrated bool

	persist *persister
}

// EngineConfig groups Engine dependencies. A nil Store disables persistence;
// the engine then lives purely in memory.
type EngineConfig struct {
	Store             store.KV
	StoreKey          string
	Logger            zerolog.Logger
	AllowZeroQtyLines bool
	QueueSize         int
}

// NewEngine constructs the engine and starts its write-behind worker.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		log:               cfg.Logger,
		allowZeroQtyLines: cfg.AllowZeroQtyLines,
	}
	if cfg.Store != nil {
		key := cfg.StoreKey
		if key == "" {
			key = "cart"
		}
		e.persist = newPersister(cfg.Store, key, cfg.Logger, cfg.QueueSize)
	}
	return e
}

// Hydrate restores state from the durable store. Absent or malformed data
// leaves the cart empty; store failures are logged, never surfaced. After
// Hydrate returns, mutations are accepted.
func (e *Engine) Hydrate(ctx context.Context) {
	var restored []LineItem
	if e.persist != nil {
		raw, ok, err := e.persist.kv.Get(ctx, e.persist.key)
		switch {
		case err != nil:
			e.log.Error().Err(err).Str("key", e.persist.key).Msg("hydrate cart snapshot")
		case ok:
			if err := json.Unmarshal([]byte(raw), &restored); err != nil {
				e.log.Warn().Err(err).Str("key", e.persist.key).Msg("discard malformed cart snapshot")
				restored = nil
			}
		}
	}
	e.mu.Lock()
	e.items = restored
	e.hydrated = true
	e.mu.Unlock()
}

// Hydrated reports whether Hydrate has completed.
func (e *Engine) Hydrated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hydrated
}

// Items returns a copy of the current cart lines in insertion order.
func (e *Engine) Items() []LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LineItem, len(e.items))
	copy(out, e.items)
	return out
}

// Find returns the line matching the triple key, if present.
func (e *Engine) Find(productID string, size string, variantIndex int) (LineItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := LineKey{ProductID: productID, VariantIndex: variantIndex, Size: size}
	for _, li := range e.items {
		if li.Key() == key {
			return li, true
		}
	}
	return LineItem{}, false
}

// Add inserts a new line or merges into the existing line with the same
// (product, variant, size) triple, clamping the summed quantity against the
// line's stock snapshot. It returns the resulting line.
func (e *Engine) Add(product catalog.Product, quantity int, size string, variantIndex int) (LineItem, error) {
	if variantIndex < 0 || variantIndex >= len(product.Variants) {
		return LineItem{}, ErrInvalidVariant
	}
	variant := product.Variants[variantIndex]
	if !e.allowZeroQtyLines && size != "" && variant.StockBySize[size] <= 0 {
		return LineItem{}, ErrOutOfStock
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hydrated {
		return LineItem{}, ErrNotHydrated
	}

	key := LineKey{ProductID: product.ID, VariantIndex: variantIndex, Size: size}
	for i, li := range e.items {
		if li.Key() != key {
			continue
		}
		li.Quantity = Clamp(li.StockBySize, size, li.Quantity+quantity)
		e.items[i] = li
		e.persistLocked()
		return li, nil
	}

	line := LineItem{
		ProductID:    product.ID,
		Name:         product.Name,
		Price:        product.Price,
		VariantIndex: variantIndex,
		Size:         size,
		Quantity:     Clamp(variant.StockBySize, size, quantity),
		Images:       variant.Images,
		Color:        variant.Color,
		Hex:          variant.Hex,
		StockBySize:  variant.StockBySize,
	}
	e.items = append(e.items, line)
	e.persistLocked()
	return line, nil
}

// UpdateQty replaces the quantity of the matching line, clamped against the
// line's own stock snapshot. A missing line is a no-op, not an error.
func (e *Engine) UpdateQty(productID string, quantity int, size string, variantIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hydrated {
		return ErrNotHydrated
	}
	key := LineKey{ProductID: productID, VariantIndex: variantIndex, Size: size}
	for i, li := range e.items {
		if li.Key() != key {
			continue
		}
		li.Quantity = Clamp(li.StockBySize, size, quantity)
		e.items[i] = li
		e.persistLocked()
		return nil
	}
	return nil
}

// Remove deletes the matching line. A missing line is a no-op.
func (e *Engine) Remove(productID string, size string, variantIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hydrated {
		return ErrNotHydrated
	}
	key := LineKey{ProductID: productID, VariantIndex: variantIndex, Size: size}
	for i, li := range e.items {
		if li.Key() == key {
			e.items = append(e.items[:i], e.items[i+1:]...)
			e.persistLocked()
			return nil
		}
	}
	return nil
}

// Clear empties the cart.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hydrated {
		return ErrNotHydrated
	}
	e.items = nil
	e.persistLocked()
	return nil
}

// Flush blocks until every snapshot enqueued so far has been written, or ctx
// expires. Mutations themselves never wait on durability; Flush exists for
// shutdown and tests.
func (e *Engine) Flush(ctx context.Context) error {
	if e.persist == nil {
		return nil
	}
	return e.persist.flush(ctx)
}

// Close stops the write-behind worker after draining its queue. The engine
// must not be mutated afterwards.
func (e *Engine) Close() {
	if e.persist != nil {
		e.persist.close()
	}
}

// persistLocked snapshots the current state and hands it to the write-behind
// worker. Caller must hold e.mu.
func (e *Engine) persistLocked() {
	if e.persist == nil {
		return
	}
	items := e.items
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		e.log.Error().Err(err).Msg("encode cart snapshot")
		return
	}
	e.persist.enqueue(string(payload))
}
