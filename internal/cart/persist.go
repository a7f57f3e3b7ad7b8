package cart

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/store"
)

const persistTimeout = 5 * time.Second

type persistJob struct {
	payload string
	barrier bool
	ack     chan struct{}

	// acks carried over from jobs this one displaced. Closed after this
	// job completes, so a flush waiting on a displaced barrier still
	// observes a durable write of state at least as new.
	acks []chan struct{}
}

// persister is the write-behind worker. Snapshots are applied in order and
// the latest state wins: when the queue is full the oldest pending snapshot
// is dropped, never the newest. Flush barriers are never dropped; a barrier
// displaced from a full queue rides on the snapshot that displaced it.
type persister struct {
	kv   store.KV
	key  string
	log  zerolog.Logger
	jobs chan persistJob
	done chan struct{}
}

func newPersister(kv store.KV, key string, log zerolog.Logger, queueSize int) *persister {
	if queueSize <= 0 {
		queueSize = 64
	}
	p := &persister{
		kv:   kv,
		key:  key,
		log:  log,
		jobs: make(chan persistJob, queueSize),
		done: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *persister) run() {
	defer close(p.done)
	for job := range p.jobs {
		if !job.barrier {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			err := p.kv.Set(ctx, p.key, job.payload)
			cancel()
			result := "ok"
			if err != nil {
				result = "error"
				p.log.Error().Err(err).Str("key", p.key).Msg("persist cart snapshot")
			}
			if obs.CartSnapshotWritesTotal != nil {
				obs.CartSnapshotWritesTotal.WithLabelValues(result).Inc()
			}
		}
		if job.ack != nil {
			close(job.ack)
		}
		for _, ack := range job.acks {
			close(ack)
		}
	}
}

// enqueue never blocks the mutating caller.
func (p *persister) enqueue(payload string) {
	p.submit(persistJob{payload: payload})
}

// submit makes room by displacing the oldest pending job when the queue is
// full. A displaced snapshot is dropped outright; a displaced barrier must
// still fire only once durable state catches up, so its ack transfers onto
// the job being submitted.
func (p *persister) submit(job persistJob) {
	for {
		select {
		case p.jobs <- job:
			return
		default:
		}
		select {
		case stale := <-p.jobs:
			if stale.barrier {
				if stale.ack != nil {
					job.acks = append(job.acks, stale.ack)
				}
				job.acks = append(job.acks, stale.acks...)
				continue
			}
			if stale.ack != nil {
				close(stale.ack)
			}
			job.acks = append(job.acks, stale.acks...)
			if obs.CartSnapshotDroppedTotal != nil {
				obs.CartSnapshotDroppedTotal.Inc()
			}
		default:
		}
	}
}

// flush enqueues a barrier and waits for it, which implies every earlier
// snapshot has been written.
func (p *persister) flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case p.jobs <- persistJob{barrier: true, ack: ack}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) close() {
	close(p.jobs)
	<-p.done
}
