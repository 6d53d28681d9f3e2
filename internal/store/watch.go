package store

import (
	"context"
	"sync"
)

// event identifies the row a write touched. Views use it to decide
// whether their query needs re-running.
type event struct {
	userID string
	id     string
}

// notifier fans write events out to live views. Delivery is a
// non-blocking signal; each view re-queries on its own goroutine so the
// write path never waits on a consumer.
type notifier struct {
	mu   sync.Mutex
	subs map[int]*subscriber
	next int
}

type subscriber struct {
	match  func(event) bool
	signal chan struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]*subscriber)}
}

func (n *notifier) subscribe(match func(event) bool) (int, chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	sub := &subscriber{match: match, signal: make(chan struct{}, 1)}
	n.subs[id] = sub
	return id, sub.signal
}

func (n *notifier) unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

func (n *notifier) publish(ev event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, sub := range n.subs {
		if !sub.match(ev) {
			continue
		}
		select {
		case sub.signal <- struct{}{}:
		default:
			// a refresh is already pending
		}
	}
}

// View is a live query result: it pushes a full snapshot on subscribe
// and a fresh one after every relevant change, until cancelled. Delivery
// is latest-wins; a slow consumer observes the newest snapshot rather
// than a backlog.
type View[T any] struct {
	updates    chan T
	cancel     context.CancelFunc
	cancelOnce sync.Once
	done       chan struct{}
}

// Updates returns the snapshot channel. It is closed after Cancel.
func (v *View[T]) Updates() <-chan T {
	return v.updates
}

// Cancel tears the view down. Safe to call more than once.
func (v *View[T]) Cancel() {
	v.cancelOnce.Do(v.cancel)
	<-v.done
}

// newView subscribes a query to the notifier and starts the refresh
// loop. query returns the current snapshot; ok=false means the query
// failed and no push happens (the view stays on its previous snapshot).
func newView[T any](n *notifier, match func(event) bool, query func(context.Context) (T, bool)) *View[T] {
	ctx, cancel := context.WithCancel(context.Background())
	v := &View[T]{
		updates: make(chan T, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	id, signal := n.subscribe(match)

	go func() {
		defer close(v.done)
		defer close(v.updates)
		defer n.unsubscribe(id)

		if snap, ok := query(ctx); ok {
			v.push(snap)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				if snap, ok := query(ctx); ok {
					v.push(snap)
				}
			}
		}
	}()
	return v
}

// push delivers a snapshot, replacing an unconsumed one. Only the view's
// own goroutine sends, so the drain-then-send sequence cannot race with
// another sender.
func (v *View[T]) push(snap T) {
	select {
	case v.updates <- snap:
		return
	default:
	}
	select {
	case <-v.updates:
	default:
	}
	select {
	case v.updates <- snap:
	default:
	}
}

// lockTable serializes writes per entity identifier. Writers to
// different identifiers proceed concurrently.
type lockTable struct {
	locks sync.Map
}

func (t *lockTable) lock(id string) func() {
	v, _ := t.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
