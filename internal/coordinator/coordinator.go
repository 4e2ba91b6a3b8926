package coordinator

import (
	"fmt"
	"strconv"

	errs "agent-calc/internal/errors"
	"agent-calc/internal/parser"
	"agent-calc/internal/protocol"
	"agent-calc/internal/trace"

	"go.uber.org/zap"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Coordinator owns the postfix sequence and the evaluation stack. It
// pushes literals itself and hands every operator to the worker bound to
// it, one request at a time.
type Coordinator struct {
	id       protocol.ID
	state    State
	inbox    []protocol.Message
	loaded   parser.Postfix
	postfix  parser.Postfix
	stack    []float64
	pending  map[string]string
	nextRID  int
	result   float64
	failure  error
	observer trace.Observer
	log      *zap.Logger
}

func New(log *zap.Logger, observer trace.Observer) *Coordinator {
	if observer == nil {
		observer = trace.Nop()
	}
	return &Coordinator{
		id:       protocol.Coordinator,
		pending:  make(map[string]string),
		observer: observer,
		log:      log.Named(string(protocol.Coordinator)),
	}
}

// Load parses expr and resets the machine to the running state. Lexical
// and syntax errors are returned here and never reach the tick loop.
func (c *Coordinator) Load(expr string) error {
	postfix, err := parser.Parse(expr)
	if err != nil {
		c.reset(nil)
		c.state = StateIdle
		return err
	}
	c.LoadPostfix(postfix)
	return nil
}

// LoadPostfix starts an evaluation of an already converted sequence.
func (c *Coordinator) LoadPostfix(postfix parser.Postfix) {
	c.reset(append(parser.Postfix(nil), postfix...))
	c.state = StateRunning
	c.log.Debug("loaded", zap.Stringer("postfix", postfix))
}

func (c *Coordinator) reset(postfix parser.Postfix) {
	c.inbox = nil
	c.loaded = postfix
	c.postfix = postfix
	c.stack = nil
	c.pending = make(map[string]string)
	c.nextRID = 0
	c.result = 0
	c.failure = nil
}

func (c *Coordinator) ID() protocol.ID {
	return c.id
}

func (c *Coordinator) Deliver(m protocol.Message) {
	c.inbox = append(c.inbox, m)
}

func (c *Coordinator) State() State {
	return c.state
}

func (c *Coordinator) Done() bool {
	return c.state == StateDone
}

// Result is meaningful only once Done reports true.
func (c *Coordinator) Result() float64 {
	return c.result
}

// Failure returns the error that stopped the evaluation, if any.
func (c *Coordinator) Failure() error {
	return c.failure
}

// Loaded returns the whole sequence of the current evaluation.
func (c *Coordinator) Loaded() parser.Postfix {
	return append(parser.Postfix(nil), c.loaded...)
}

// Remaining returns the part of the postfix sequence not consumed yet.
func (c *Coordinator) Remaining() parser.Postfix {
	return append(parser.Postfix(nil), c.postfix...)
}

func (c *Coordinator) Stack() []float64 {
	return append([]float64(nil), c.stack...)
}

// Pending returns the correlation id of the outstanding request, or "".
func (c *Coordinator) Pending() string {
	for rid := range c.pending {
		return rid
	}
	return ""
}

// Step runs one tick of the state machine.
func (c *Coordinator) Step(out protocol.Sender) {
	if c.state != StateRunning {
		c.inbox = nil
		return
	}

	inbox := c.inbox
	c.inbox = nil
	for _, m := range inbox {
		switch m.Kind {
		case protocol.KindResult:
			if _, ok := c.pending[m.RID]; !ok || m.Result == nil {
				c.log.Warn("dropping unexpected result", zap.Stringer("message", m))
				continue
			}
			delete(c.pending, m.RID)
			c.push(m.Result.Value)
		case protocol.KindError:
			var code, detail string
			if m.Error != nil {
				code, detail = m.Error.Code, m.Error.Detail
			}
			c.fail(errs.FromCode(code, detail))
			return
		default:
			c.log.Warn("dropping unexpected message", zap.Stringer("message", m))
		}
	}

	// blocked on the outstanding request
	if len(c.pending) > 0 {
		return
	}

	if len(c.postfix) == 0 {
		if len(c.stack) != 1 {
			c.fail(fmt.Errorf("%w: %d values left on the stack", errs.ErrMalformedExpression, len(c.stack)))
			return
		}
		c.result = c.pop()
		c.state = StateDone
		c.log.Debug("done", zap.Float64("result", c.result))
		return
	}

	token := c.postfix[0]
	c.postfix = c.postfix[1:]

	switch token.Type {
	case parser.TokenNumber:
		value, err := token.Float()
		if err != nil {
			c.fail(fmt.Errorf("%w: bad number %q", errs.ErrUnexpectedToken, token.Value))
			return
		}
		c.push(value)
	case parser.TokenUnaryMinus:
		if len(c.stack) < 1 {
			c.fail(fmt.Errorf("%w: missing operand for unary minus", errs.ErrMalformedExpression))
			return
		}
		x := c.pop()
		c.dispatch(out, token.Value, "-", 0, x)
	case parser.TokenOperator:
		if _, ok := protocol.WorkerFor(token.Value); !ok {
			c.fail(fmt.Errorf("%w: no worker for %q", errs.ErrUnexpectedToken, token.Value))
			return
		}
		if len(c.stack) < 2 {
			c.fail(fmt.Errorf("%w: missing operands for %q", errs.ErrMalformedExpression, token.Value))
			return
		}
		b := c.pop()
		a := c.pop()
		c.dispatch(out, token.Value, token.Value, a, b)
	default:
		c.fail(fmt.Errorf("%w: %q", errs.ErrUnexpectedToken, token.Value))
	}
}

func (c *Coordinator) dispatch(out protocol.Sender, token, op string, a, b float64) {
	to, _ := protocol.WorkerFor(op)
	rid := c.mintRID()
	c.pending[rid] = token
	c.log.Debug("dispatch",
		zap.String("token", token),
		zap.String("rid", rid),
		zap.String("to", string(to)),
	)
	out.Send(protocol.NewCompute(c.id, to, rid, op, a, b))
}

func (c *Coordinator) mintRID() string {
	c.nextRID++
	return "req" + strconv.Itoa(c.nextRID)
}

func (c *Coordinator) push(v float64) {
	c.stack = append(c.stack, v)
	c.observer.Pushed(v, c.Stack())
}

func (c *Coordinator) pop() float64 {
	v := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.observer.Popped(v, c.Stack())
	return v
}

func (c *Coordinator) fail(err error) {
	c.failure = err
	c.state = StateFailed
	c.log.Debug("failed", zap.Error(err))
}
