package bus

import (
	"fmt"
	"math/rand"
	"time"

	errs "agent-calc/internal/errors"
	"agent-calc/internal/protocol"
	"agent-calc/internal/trace"
)

// Activation returns the order in which n participants step during one
// tick, as a permutation of 0..n-1.
type Activation func(n int) []int

// Sequential activates participants in registration order.
func Sequential(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// RandomActivation shuffles the order on every tick.
func RandomActivation(r *rand.Rand) Activation {
	return func(n int) []int {
		return r.Perm(n)
	}
}

type Option func(*Bus)

func WithObserver(o trace.Observer) Option {
	return func(b *Bus) {
		b.observer = o
	}
}

func WithActivation(a Activation) Option {
	return func(b *Bus) {
		b.activation = a
	}
}

// WithSeed makes the random activation order reproducible.
func WithSeed(seed int64) Option {
	return WithActivation(RandomActivation(rand.New(rand.NewSource(seed))))
}

// Bus buffers outgoing messages and drives participants tick by tick.
// A message sent during tick N lands in its recipient's inbox at the start
// of tick N+1.
type Bus struct {
	participants []protocol.Participant
	index        map[protocol.ID]protocol.Participant
	queue        []protocol.Message
	activation   Activation
	observer     trace.Observer
	ticks        int
	sentN        int
	deliveredN   int
}

func New(opts ...Option) *Bus {
	b := &Bus{
		index:    make(map[protocol.ID]protocol.Participant),
		observer: trace.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.activation == nil {
		b.activation = RandomActivation(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	return b
}

// Register adds p to the registry. Ids must be unique.
func (b *Bus) Register(p protocol.Participant) error {
	if _, exists := b.index[p.ID()]; exists {
		return fmt.Errorf("%w: %s", errs.ErrDuplicateParticipant, p.ID())
	}
	b.index[p.ID()] = p
	b.participants = append(b.participants, p)
	return nil
}

// Send implements protocol.Sender.
func (b *Bus) Send(m protocol.Message) {
	b.queue = append(b.queue, m)
	b.sentN++
	b.observer.Sent(m)
}

// Tick delivers every queued message, then steps each participant once.
// Recipients are checked before anything moves, so a failed tick leaves the
// queue and every inbox as they were.
func (b *Bus) Tick() error {
	for _, m := range b.queue {
		if _, ok := b.index[m.Recipient]; !ok {
			return fmt.Errorf("%w: %q (from %s, rid %s)", errs.ErrUnknownRecipient, m.Recipient, m.Sender, m.RID)
		}
	}
	b.ticks++

	queue := b.queue
	b.queue = nil
	for _, m := range queue {
		b.index[m.Recipient].Deliver(m)
		b.deliveredN++
		b.observer.Delivered(m)
	}

	for _, i := range b.activation(len(b.participants)) {
		b.participants[i].Step(b)
	}
	return nil
}

// Pending returns the number of messages waiting for the next tick.
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Ticks returns the number of ticks run since the last Reset.
func (b *Bus) Ticks() int {
	return b.ticks
}

// Stats returns the number of sent and delivered messages since creation.
func (b *Bus) Stats() (int, int) {
	return b.sentN, b.deliveredN
}

// Reset drops undelivered messages and the tick counter.
func (b *Bus) Reset() {
	b.queue = nil
	b.ticks = 0
}
