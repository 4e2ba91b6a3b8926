package calculator

import (
	"context"
	"fmt"

	"agent-calc/internal/bus"
	"agent-calc/internal/coordinator"
	errs "agent-calc/internal/errors"
	"agent-calc/internal/parser"
	"agent-calc/internal/trace"
	"agent-calc/internal/worker"

	"go.uber.org/zap"
)

// DefaultMaxTicks bounds a single evaluation.
const DefaultMaxTicks = 4000

type options struct {
	log        *zap.Logger
	observers  []trace.Observer
	activation bus.Activation
	seed       int64
	maxTicks   int
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithObserver adds an observer of bus and stack events. Repeated calls
// accumulate; every observer sees every event.
func WithObserver(observer trace.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}

// WithActivation overrides the worker activation order; it takes
// precedence over WithSeed.
func WithActivation(a bus.Activation) Option {
	return func(o *options) {
		o.activation = a
	}
}

// WithSeed fixes the seed of the random activation order. Zero keeps a
// time based seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

func WithMaxTicks(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTicks = n
		}
	}
}

// Calculator wires the coordinator and the five operator workers to one bus.
type Calculator struct {
	bus         *bus.Bus
	coordinator *coordinator.Coordinator
	workers     []*worker.Worker
	maxTicks    int
	log         *zap.Logger
}

func New(opts ...Option) *Calculator {
	o := options{
		log:      zap.NewNop(),
		maxTicks: DefaultMaxTicks,
	}
	for _, opt := range opts {
		opt(&o)
	}

	observer := trace.Nop()
	if len(o.observers) > 0 {
		observer = trace.Multi(o.observers...)
	}

	busOpts := []bus.Option{bus.WithObserver(observer)}
	switch {
	case o.activation != nil:
		busOpts = append(busOpts, bus.WithActivation(o.activation))
	case o.seed != 0:
		busOpts = append(busOpts, bus.WithSeed(o.seed))
	}

	c := &Calculator{
		bus:         bus.New(busOpts...),
		coordinator: coordinator.New(o.log, observer),
		workers:     worker.NewAll(o.log),
		maxTicks:    o.maxTicks,
		log:         o.log,
	}

	if err := c.bus.Register(c.coordinator); err != nil {
		panic(err)
	}
	for _, w := range c.workers {
		if err := c.bus.Register(w); err != nil {
			panic(err)
		}
	}
	return c
}

// Load resets the bus and every participant, then loads expr.
func (c *Calculator) Load(expr string) error {
	c.bus.Reset()
	for _, w := range c.workers {
		w.Reset()
	}
	return c.coordinator.Load(expr)
}

// Tick runs one deliver-then-step round. Delivery failures are fatal.
func (c *Calculator) Tick() error {
	return c.bus.Tick()
}

func (c *Calculator) Done() bool {
	return c.coordinator.Done()
}

func (c *Calculator) Result() float64 {
	return c.coordinator.Result()
}

func (c *Calculator) Failure() error {
	return c.coordinator.Failure()
}

// Loaded returns the postfix form of the loaded expression.
func (c *Calculator) Loaded() parser.Postfix {
	return c.coordinator.Loaded()
}

// Postfix returns the part of the loaded expression not consumed yet.
func (c *Calculator) Postfix() parser.Postfix {
	return c.coordinator.Remaining()
}

// Ticks returns the number of ticks spent on the current expression.
func (c *Calculator) Ticks() int {
	return c.bus.Ticks()
}

// Evaluate loads expr and runs it to completion.
func (c *Calculator) Evaluate(ctx context.Context, expr string) (float64, error) {
	if err := c.Load(expr); err != nil {
		return 0, err
	}
	return c.Run(ctx)
}

// Run ticks the loaded expression until the coordinator finishes, fails,
// the tick ceiling is hit or ctx is cancelled.
func (c *Calculator) Run(ctx context.Context) (float64, error) {
	for c.bus.Ticks() < c.maxTicks {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := c.Tick(); err != nil {
			c.log.Error("tick failed", zap.Int("tick", c.bus.Ticks()), zap.Error(err))
			return 0, err
		}
		if err := c.Failure(); err != nil {
			return 0, err
		}
		if c.Done() {
			c.log.Debug("evaluated",
				zap.Stringer("postfix", c.Loaded()),
				zap.Float64("result", c.Result()),
				zap.Int("ticks", c.bus.Ticks()),
			)
			return c.Result(), nil
		}
	}

	return 0, fmt.Errorf("%w: no result after %d ticks", errs.ErrNonConvergence, c.maxTicks)
}
