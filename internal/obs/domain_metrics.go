package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartMutationsTotal counts cart engine mutations by operation and outcome.
	CartMutationsTotal *prometheus.CounterVec
	// CartSnapshotWritesTotal counts durable cart snapshot writes by result.
	CartSnapshotWritesTotal *prometheus.CounterVec
	// CartSnapshotDroppedTotal counts snapshots superseded before they were written.
	CartSnapshotDroppedTotal prometheus.Counter
	// PromoAppliedTotal counts promo code applications by code.
	PromoAppliedTotal *prometheus.CounterVec
	// OrdersPlacedTotal counts orders placed through checkout.
	OrdersPlacedTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers storefront Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart mutations by operation and result.",
		}, []string{"op", "result"})
		CartSnapshotWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_snapshot_writes_total",
			Help:      "Count of durable cart snapshot writes by result.",
		}, []string{"result"})
		CartSnapshotDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_snapshot_dropped_total",
			Help:      "Number of queued cart snapshots superseded before being written.",
		})
		PromoAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_applied_total",
			Help:      "Count of promo code applications by code.",
		}, []string{"code"})
		OrdersPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Number of orders placed through checkout.",
		})

		mustRegisterCollector(reg, CartMutationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartMutationsTotal = v
			}
		})
		mustRegisterCollector(reg, CartSnapshotWritesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartSnapshotWritesTotal = v
			}
		})
		mustRegisterCollector(reg, CartSnapshotDroppedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CartSnapshotDroppedTotal = v
			}
		})
		mustRegisterCollector(reg, PromoAppliedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PromoAppliedTotal = v
			}
		})
		mustRegisterCollector(reg, OrdersPlacedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrdersPlacedTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
}
