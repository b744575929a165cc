package mirror

import (
	"context"
	"log/slog"
	"sync"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// Propagator turns store change events into background mirror writes.
// Work is serialized per item id so two writes never interleave on the
// same file, while different items proceed concurrently. Events arriving
// while an item's worker is busy coalesce into one trailing run; the
// writer re-reads current state, so the last write always reflects the
// latest committed state.
type Propagator struct {
	mirror *Mirror
	log    *slog.Logger

	mu      sync.Mutex
	pending map[int64]*itemTask
	wg      sync.WaitGroup
}

// itemTask tracks the in-flight worker for one item id.
type itemTask struct {
	op     types.Op
	queued bool
}

// NewPropagator creates a propagator. Register its Notify with the
// store's SetObserver, and call Flush before shutdown.
func NewPropagator(m *Mirror) *Propagator {
	return &Propagator{
		mirror:  m,
		log:     slog.With("component", "propagator"),
		pending: make(map[int64]*itemTask),
	}
}

// Notify schedules the mirror operation for an event. It never blocks
// the committing caller: the disk work runs on a per-item goroutine and
// failures are logged, not surfaced. Exactly one trailing run is kept
// per item; with the latest operation winning, a scheduled write is
// coalesced but never lost.
func (p *Propagator) Notify(ev types.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, running := p.pending[ev.ItemID]; running {
		t.op = ev.Op
		t.queued = true
		return
	}
	p.pending[ev.ItemID] = &itemTask{op: ev.Op}
	p.wg.Add(1)
	go p.run(ev.ItemID)
}

// run executes the item's mirror operation, looping while further events
// arrived during execution.
func (p *Propagator) run(id int64) {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		t := p.pending[id]
		op := t.op
		t.queued = false
		p.mu.Unlock()

		p.execute(op, id)

		p.mu.Lock()
		if !t.queued {
			delete(p.pending, id)
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()
	}
}

// execute performs one mirror operation, swallowing failures. The mirror
// is a best-effort projection; a failed write must never fail the
// mutation that scheduled it.
func (p *Propagator) execute(op types.Op, id int64) {
	ctx := context.Background()
	var err error
	switch op {
	case types.OpDelete:
		err = p.mirror.DeleteItem(ctx, id)
	default:
		err = p.mirror.WriteItem(ctx, id)
	}
	if err != nil {
		p.log.Error("mirror propagation failed", "id", id, "op", op, "error", err)
	}
}

// Flush waits for every in-flight mirror operation to finish. Called
// before Detach so shutdown does not drop scheduled writes.
func (p *Propagator) Flush() {
	p.wg.Wait()
}
