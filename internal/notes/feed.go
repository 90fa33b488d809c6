package notes

import (
	"sync"
	"sync/atomic"
)

// Feed fans snapshots out to subscribed listeners.
//
// Each listener has its own delivery goroutine, so a slow listener never
// blocks Publish or other listeners. Snapshots reach a listener in publish
// order; if it falls behind, intermediate snapshots are dropped and only the
// latest is delivered.
type Feed struct {
	mu        sync.Mutex
	listeners map[uint64]*listener
	nextID    uint64
	last      []Note
	hasLast   bool
	closed    bool
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{listeners: make(map[uint64]*listener)}
}

// Subscribe registers fn. If a snapshot has already been published, fn
// receives it right away.
func (f *Feed) Subscribe(fn func([]Note)) Unsubscribe {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return func() {}
	}

	id := f.nextID
	f.nextID++
	l := newListener(fn)
	f.listeners[id] = l
	go l.run()

	if f.hasLast {
		l.offer(f.last)
	}

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
		l.stop()
	}
}

// Publish sends snapshot to every listener and remembers it for later subscribers.
func (f *Feed) Publish(snapshot []Note) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.last = snapshot
	f.hasLast = true
	for _, l := range f.listeners {
		l.offer(snapshot)
	}
}

// Close stops all listeners. Later Subscribe and Publish calls do nothing.
func (f *Feed) Close() {
	f.mu.Lock()
	listeners := f.listeners
	f.listeners = make(map[uint64]*listener)
	f.closed = true
	f.mu.Unlock()

	for _, l := range listeners {
		l.stop()
	}
}

type listener struct {
	fn func([]Note)

	// callMu is held from the stopped check through the callback, so stop
	// can wait out a delivery that has been decided but not yet begun.
	callMu     sync.Mutex
	inCallback atomic.Bool

	mu      sync.Mutex
	pending []Note
	dirty   bool
	stopped bool

	wake chan struct{}
	quit chan struct{}
	once sync.Once
}

func newListener(fn func([]Note)) *listener {
	return &listener{
		fn:   fn,
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
}

// offer replaces the pending snapshot with a private copy of snapshot.
func (l *listener) offer(snapshot []Note) {
	cp := make([]Note, len(snapshot))
	copy(cp, snapshot)

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.pending = cp
	l.dirty = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// stop ends delivery. Once it returns no new callback starts. A callback
// already running is not waited for, which lets fn unsubscribe itself.
func (l *listener) stop() {
	l.once.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.pending = nil
		l.dirty = false
		l.mu.Unlock()
		close(l.quit)
	})
	if !l.inCallback.Load() {
		l.callMu.Lock()
		l.callMu.Unlock()
	}
}

func (l *listener) run() {
	for {
		select {
		case <-l.quit:
			return
		case <-l.wake:
		}

		if !l.deliver() {
			return
		}
	}
}

// deliver hands the pending snapshot to fn. It reports false once the
// listener has been stopped.
func (l *listener) deliver() bool {
	l.callMu.Lock()
	defer l.callMu.Unlock()

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	if !l.dirty {
		l.mu.Unlock()
		return true
	}
	snapshot := l.pending
	l.pending = nil
	l.dirty = false
	l.mu.Unlock()

	l.inCallback.Store(true)
	defer l.inCallback.Store(false)
	l.fn(snapshot)
	return true
}
