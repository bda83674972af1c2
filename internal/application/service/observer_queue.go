package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/damon-houk/finance-ledger/internal/application/requestid"
	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
)

// mutation is one committed ledger change waiting to be delivered
type mutation struct {
	ctx       context.Context
	added     *entity.Transaction
	deletedID string
}

// observerQueue delivers mutations to one observer in commit order on its own goroutine,
// so a slow observer never holds the ledger lock.
type observerQueue struct {
	observer LedgerObserver
	logger   logger.Logger

	mu       sync.Mutex
	idle     *sync.Cond
	pending  []mutation
	inFlight int

	wake     chan struct{}
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func newObserverQueue(o LedgerObserver, log logger.Logger) *observerQueue {
	q := &observerQueue{
		observer: o,
		logger:   log,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	q.idle = sync.NewCond(&q.mu)

	go q.run()

	return q
}

// push never blocks on the observer
func (q *observerQueue) push(m mutation) {
	q.mu.Lock()
	q.pending = append(q.pending, m)
	q.inFlight++
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *observerQueue) run() {
	defer close(q.stopped)

	for {
		select {
		case <-q.wake:
			q.drain()
		case <-q.stop:
			q.drain()
			return
		}
	}
}

func (q *observerQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		m := q.pending[0]
		q.pending[0] = mutation{}
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.deliver(m)

		q.mu.Lock()
		q.inFlight--
		if q.inFlight == 0 {
			q.idle.Broadcast()
		}
		q.mu.Unlock()
	}
}

func (q *observerQueue) deliver(m mutation) {
	var (
		err error
		id  string
		op  string
	)

	if m.added != nil {
		id, op = m.added.ID, "add"
		err = q.observer.TransactionAdded(m.ctx, *m.added)
	} else {
		id, op = m.deletedID, "delete"
		err = q.observer.TransactionDeleted(m.ctx, m.deletedID)
	}

	if err != nil {
		q.logger.Error("Observer failed on "+op, map[string]interface{}{
			"request_id": requestid.From(m.ctx),
			"id":         id,
			"observer":   fmt.Sprintf("%T", q.observer),
			"error":      err.Error(),
		})
	}
}

// flush waits until every pushed mutation has been delivered
func (q *observerQueue) flush() {
	q.mu.Lock()
	for q.inFlight > 0 {
		q.idle.Wait()
	}
	q.mu.Unlock()
}

// close delivers what is pending and stops the goroutine
func (q *observerQueue) close() {
	q.stopOnce.Do(func() { close(q.stop) })
	<-q.stopped
}
