package cart_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/store"
)

func testProduct() catalog.Product {
	return catalog.Product{
		ID:       "shirt-oxford-001",
		Name:     "Imperial Oxford Shirt",
		Price:    1999,
		Sizes:    []string{"S", "M", "L", "XL"},
		Category: "Shirts",
		Variants: []catalog.Variant{
			{
				Color:       "Navy Blue",
				Hex:         "#0F1724",
				Images:      []string{"/assets/img/products/product_1.jpeg"},
				StockBySize: map[string]int{"S": 10, "M": 5, "L": 6, "XL": 0},
			},
			{
				Color:       "White",
				Hex:         "#FFFFFF",
				Images:      []string{"/assets/img/products/product_2.jpeg"},
				StockBySize: map[string]int{"S": 5, "M": 4, "L": 2, "XL": 0},
			},
		},
	}
}

func newEngine(t *testing.T, kv store.KV) *cart.Engine {
	t.Helper()
	e := cart.NewEngine(cart.EngineConfig{
		Store:             kv,
		Logger:            zerolog.Nop(),
		AllowZeroQtyLines: true,
	})
	t.Cleanup(e.Close)
	e.Hydrate(context.Background())
	return e
}

func TestMutationBeforeHydrateFails(t *testing.T) {
	e := cart.NewEngine(cart.EngineConfig{Logger: zerolog.Nop(), AllowZeroQtyLines: true})
	t.Cleanup(e.Close)

	_, err := e.Add(testProduct(), 1, "M", 0)
	require.ErrorIs(t, err, cart.ErrNotHydrated)
	require.ErrorIs(t, e.UpdateQty("shirt-oxford-001", 2, "M", 0), cart.ErrNotHydrated)
	require.ErrorIs(t, e.Remove("shirt-oxford-001", "M", 0), cart.ErrNotHydrated)
	require.ErrorIs(t, e.Clear(), cart.ErrNotHydrated)
}

func TestAddNewLine(t *testing.T) {
	e := newEngine(t, store.NewMemory())

	// stock M=5, request 2
	line, err := e.Add(testProduct(), 2, "M", 0)
	require.NoError(t, err)
	require.Equal(t, 2, line.Quantity)
	require.Equal(t, "Navy Blue", line.Color)
	require.EqualValues(t, 1999, line.Price)

	items := e.Items()
	require.Len(t, items, 1)
	require.Equal(t, line.Key(), items[0].Key())
}

func TestAddMergesSameTriple(t *testing.T) {
	e := newEngine(t, store.NewMemory())
	p := testProduct()

	_, err := e.Add(p, 2, "M", 0)
	require.NoError(t, err)

	// same triple: quantities sum then clamp to stock M=5
	line, err := e.Add(p, 10, "M", 0)
	require.NoError(t, err)
	require.Equal(t, 5, line.Quantity)
	require.Len(t, e.Items(), 1)
}

func TestAddDistinctTriplesStaySeparate(t *testing.T) {
	e := newEngine(t, store.NewMemory())
	p := testProduct()

	_, err := e.Add(p, 1, "M", 0)
	require.NoError(t, err)
	_, err = e.Add(p, 1, "L", 0)
	require.NoError(t, err)
	_, err = e.Add(p, 1, "M", 1)
	require.NoError(t, err)

	require.Len(t, e.Items(), 3)
}

func TestAddInvalidVariantIndex(t *testing.T) {
	e := newEngine(t, store.NewMemory())

	_, err := e.Add(testProduct(), 1, "M", 2)
	require.ErrorIs(t, err, cart.ErrInvalidVariant)
	_, err = e.Add(testProduct(), 1, "M", -1)
	require.ErrorIs(t, err, cart.ErrInvalidVariant)
}

func TestAddZeroStockLine(t *testing.T) {
	e := newEngine(t, store.NewMemory())

	// XL has zero stock: the clamp legally produces a zero-quantity line
	line, err := e.Add(testProduct(), 3, "XL", 0)
	require.NoError(t, err)
	require.Equal(t, 0, line.Quantity)
	require.Len(t, e.Items(), 1)
}

func TestAddZeroStockRejectedWhenDisabled(t *testing.T) {
	e := cart.NewEngine(cart.EngineConfig{
		Store:  store.NewMemory(),
		Logger: zerolog.Nop(),
	})
	t.Cleanup(e.Close)
	e.Hydrate(context.Background())

	_, err := e.Add(testProduct(), 3, "XL", 0)
	require.ErrorIs(t, err, cart.ErrOutOfStock)
	require.Empty(t, e.Items())
}

func TestAddWithoutSizeHasNoCeiling(t *testing.T) {
	e := newEngine(t, store.NewMemory())

	line, err := e.Add(testProduct(), 40, "", 0)
	require.NoError(t, err)
	require.Equal(t, 40, line.Quantity)

	line, err = e.Add(testProduct(), 60, "", 0)
	require.NoError(t, err)
	require.Equal(t, 100, line.Quantity)
}

func TestUpdateQtyClampsToFloor(t *testing.T) {
	e := newEngine(t, store.NewMemory())
	p := testProduct()

	_, err := e.Add(p, 3, "M", 0)
	require.NoError(t, err)

	// floor of 1 while stock remains
	require.NoError(t, e.UpdateQty(p.ID, 0, "M", 0))
	require.Equal(t, 1, e.Items()[0].Quantity)

	require.NoError(t, e.UpdateQty(p.ID, 99, "M", 0))
	require.Equal(t, 5, e.Items()[0].Quantity)

	// missing line is a no-op
	require.NoError(t, e.UpdateQty("missing", 2, "M", 0))
	require.Len(t, e.Items(), 1)
}

func TestRemoveThenReAdd(t *testing.T) {
	e := newEngine(t, store.NewMemory())
	p := testProduct()

	_, err := e.Add(p, 5, "M", 0)
	require.NoError(t, err)
	require.NoError(t, e.Remove(p.ID, "M", 0))
	require.Empty(t, e.Items())

	// re-adding after removal is not throttled by the previous line
	line, err := e.Add(p, 4, "M", 0)
	require.NoError(t, err)
	require.Equal(t, 4, line.Quantity)

	// removing an absent line is a no-op
	require.NoError(t, e.Remove(p.ID, "L", 0))
	require.Len(t, e.Items(), 1)
}

func TestClear(t *testing.T) {
	e := newEngine(t, store.NewMemory())
	p := testProduct()

	_, err := e.Add(p, 1, "M", 0)
	require.NoError(t, err)
	_, err = e.Add(p, 1, "L", 0)
	require.NoError(t, err)

	require.NoError(t, e.Clear())
	require.Empty(t, e.Items())
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := store.NewMemory()
	e := newEngine(t, kv)
	p := testProduct()

	_, err := e.Add(p, 2, "M", 0)
	require.NoError(t, err)
	_, err = e.Add(p, 1, "L", 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, e.Flush(ctx))

	// a fresh engine hydrating from the same store sees identical state
	restored := newEngine(t, kv)
	require.Equal(t, e.Items(), restored.Items())
}

func TestHydrateSoftFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		e := newEngine(t, store.NewMemory())
		require.True(t, e.Hydrated())
		require.Empty(t, e.Items())
	})

	t.Run("malformed snapshot", func(t *testing.T) {
		kv := store.NewMemory()
		require.NoError(t, kv.Set(ctx, "cart", "{not json"))
		e := newEngine(t, kv)
		require.True(t, e.Hydrated())
		require.Empty(t, e.Items())
	})
}

func TestPersistedSnapshotOnRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := newEngine(t, store.Redis{Client: client})
	_, err = e.Add(testProduct(), 2, "M", 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, e.Flush(ctx))

	raw, err := mr.Get("cart")
	require.NoError(t, err)
	var lines []cart.LineItem
	require.NoError(t, json.Unmarshal([]byte(raw), &lines))
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
	require.Equal(t, "shirt-oxford-001", lines[0].ProductID)
}

func TestLineItemProductAdapter(t *testing.T) {
	e := newEngine(t, store.NewMemory())
	line, err := e.Add(testProduct(), 2, "M", 1)
	require.NoError(t, err)

	p := line.Product()
	require.Equal(t, "shirt-oxford-001", p.ID)
	require.Equal(t, "Imperial Oxford Shirt", p.Name)
	require.EqualValues(t, 1999, p.Price)
	require.Len(t, p.Variants, 1)
	require.Equal(t, "White", p.Variants[0].Color)
	require.Equal(t, []string{"L", "M", "S", "XL"}, p.Sizes)

	// the synthesized product is re-addable at variant 0
	require.NoError(t, e.Clear())
	readded, err := e.Add(p, 2, "M", 0)
	require.NoError(t, err)
	require.Equal(t, 2, readded.Quantity)
	require.Equal(t, "White", readded.Color)
}

// gatedKV blocks every Set until the gate is opened, so tests can hold the
// persister worker mid-write and control when storage catches up.
type gatedKV struct {
	gate    chan struct{}
	once    sync.Once
	entered chan struct{}

	mu     sync.Mutex
	writes []string
}

func newGatedKV() *gatedKV {
	return &gatedKV{
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 16),
	}
}

func (g *gatedKV) open() { g.once.Do(func() { close(g.gate) }) }

func (g *gatedKV) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (g *gatedKV) Set(_ context.Context, _ string, value string) error {
	g.entered <- struct{}{}
	<-g.gate
	g.mu.Lock()
	g.writes = append(g.writes, value)
	g.mu.Unlock()
	return nil
}

func (g *gatedKV) Remove(context.Context, string) error { return nil }

func (g *gatedKV) lastWrite() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.writes) == 0 {
		return "", false
	}
	return g.writes[len(g.writes)-1], true
}

// A flush barrier displaced from a full queue must not resolve until the
// snapshot that displaced it has been durably written.
func TestFlushBarrierSurvivesQueueEviction(t *testing.T) {
	kv := newGatedKV()
	e := cart.NewEngine(cart.EngineConfig{
		Store:             kv,
		Logger:            zerolog.Nop(),
		AllowZeroQtyLines: true,
		QueueSize:         1,
	})
	t.Cleanup(e.Close)
	t.Cleanup(kv.open) // runs before Close, lets it drain
	e.Hydrate(context.Background())

	// First add: the worker picks up the snapshot and parks inside Set,
	// leaving the queue empty.
	_, err := e.Add(testProduct(), 1, "M", 0)
	require.NoError(t, err)
	select {
	case <-kv.entered:
	case <-time.After(time.Second):
		t.Fatal("worker never reached the store")
	}

	// Flush parks its barrier in the single-slot queue; the second add must
	// then displace the barrier to land its snapshot.
	flushed := make(chan error, 1)
	go func() {
		flushed <- e.Flush(context.Background())
	}()
	time.Sleep(20 * time.Millisecond)
	_, err = e.Add(testProduct(), 2, "S", 1)
	require.NoError(t, err)

	select {
	case err := <-flushed:
		t.Fatalf("flush resolved with %v before any snapshot was written", err)
	case <-time.After(100 * time.Millisecond):
	}

	kv.open()
	select {
	case err := <-flushed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("flush never resolved after the store unblocked")
	}

	raw, ok := kv.lastWrite()
	require.True(t, ok)
	var lines []cart.LineItem
	require.NoError(t, json.Unmarshal([]byte(raw), &lines))
	require.Len(t, lines, 2)
}
