package log

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Bus delivers every posted entry to its subscribers.
//
// Post runs on the caller's goroutine and returns once each subscriber that
// was registered when the call started has been invoked. The subscriber list
// is copy-on-write, so Post never blocks on Subscribe or Close. A subscriber
// that panics is reported to the bus's FaultHandler and does not prevent
// delivery to the others.
//
// The zero value is a usable bus that discards subscriber faults.
type Bus struct {
	mu     sync.Mutex // serializes writers of subs
	subs   atomic.Pointer[[]*subscriber]
	nextID uint64

	faults FaultHandler
}

type subscriber struct {
	id     uint64
	fn     func(*Entry)
	active atomic.Bool
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithFaultHandler sets the handler that receives subscriber panics.
// A nil handler discards them.
func WithFaultHandler(h FaultHandler) BusOption {
	return func(b *Bus) {
		b.faults = h
	}
}

// NewBus creates a bus. By default subscriber faults are reported to stderr
// through a rate-limited zap logger.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{faults: defaultFaultHandler()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn to receive every entry posted from now on. The
// returned Subscription removes exactly this registration when closed.
func (b *Bus) Subscribe(fn func(*Entry)) (*Subscription, error) {
	if fn == nil {
		return nil, ErrInvalidArgument
	}

	sub := &subscriber{fn: fn}
	sub.active.Store(true)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub.id = b.nextID

	current := b.snapshot()
	next := make([]*subscriber, len(current), len(current)+1)
	copy(next, current)
	next = append(next, sub)
	b.subs.Store(&next)

	return &Subscription{bus: b, sub: sub}, nil
}

// Attach subscribes a Sink.
func (b *Bus) Attach(s Sink) (*Subscription, error) {
	if s == nil {
		return nil, ErrInvalidArgument
	}
	return b.Subscribe(s.Log)
}

// Post delivers e to all current subscribers in registration order.
// A nil entry is ignored.
func (b *Bus) Post(e *Entry) {
	if e == nil {
		return
	}
	for _, sub := range b.snapshot() {
		// Closed after the snapshot was taken.
		if !sub.active.Load() {
			continue
		}
		b.deliver(sub, e)
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	return len(b.snapshot())
}

func (b *Bus) snapshot() []*subscriber {
	if p := b.subs.Load(); p != nil {
		return *p
	}
	return nil
}

func (b *Bus) deliver(sub *subscriber, e *Entry) {
	defer func() {
		if r := recover(); r != nil {
			b.reportFault(SubscriberFault{
				SubscriptionID: sub.id,
				Entry:          e,
				Value:          r,
				Stack:          debug.Stack(),
			})
		}
	}()
	sub.fn(e)
}

func (b *Bus) reportFault(f SubscriberFault) {
	h := b.faults
	if h == nil {
		return
	}
	// A failing fault handler is dropped; it must never reach the poster.
	defer func() { _ = recover() }()
	h(f)
}

func (b *Bus) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.snapshot()
	next := make([]*subscriber, 0, len(current))
	for _, s := range current {
		if s != sub {
			next = append(next, s)
		}
	}
	b.subs.Store(&next)
}

// Subscription is the handle returned by Subscribe. Closing it removes the
// subscriber from the bus.
type Subscription struct {
	bus  *Bus
	sub  *subscriber
	once sync.Once
}

// ID returns the bus-assigned identifier, as reported in SubscriberFault.
func (s *Subscription) ID() uint64 {
	return s.sub.id
}

// Close unsubscribes. It is safe to call Close multiple times and from
// inside the subscriber itself.
func (s *Subscription) Close() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		s.sub.active.Store(false)
		s.bus.remove(s.sub)
	})
	return nil
}
