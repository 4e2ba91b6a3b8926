package worker

import (
	"fmt"
	"math"

	errs "agent-calc/internal/errors"
	"agent-calc/internal/protocol"

	"go.uber.org/zap"
)

// Worker is bound to one operator symbol and answers COMPUTE requests
// carrying that symbol. It keeps no state between ticks apart from
// messages it was not addressed by.
type Worker struct {
	id     protocol.ID
	symbol string
	inbox  []protocol.Message
	log    *zap.Logger
}

func New(symbol string, log *zap.Logger) (*Worker, error) {
	id, ok := protocol.WorkerFor(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedOperator, symbol)
	}
	return &Worker{id: id, symbol: symbol, log: log.Named(string(id))}, nil
}

// NewAll creates one worker per operator symbol.
func NewAll(log *zap.Logger) []*Worker {
	workers := make([]*Worker, 0, len(protocol.Symbols))
	for _, symbol := range protocol.Symbols {
		w, err := New(symbol, log)
		if err != nil {
			panic(err)
		}
		workers = append(workers, w)
	}
	return workers
}

func (w *Worker) ID() protocol.ID {
	return w.id
}

func (w *Worker) Symbol() string {
	return w.symbol
}

func (w *Worker) Deliver(m protocol.Message) {
	w.inbox = append(w.inbox, m)
}

// Pending returns the number of messages waiting in the inbox.
func (w *Worker) Pending() int {
	return len(w.inbox)
}

// Reset drops everything left in the inbox.
func (w *Worker) Reset() {
	w.inbox = nil
}

// Step answers every matching COMPUTE in the inbox and keeps the rest.
func (w *Worker) Step(out protocol.Sender) {
	var rest []protocol.Message
	for _, m := range w.inbox {
		reply, ok := w.Handle(m)
		if !ok {
			rest = append(rest, m)
			continue
		}
		out.Send(reply)
	}
	w.inbox = rest
}

// Handle computes the reply for m. It returns false when m is not a COMPUTE
// request for this worker's symbol.
func (w *Worker) Handle(m protocol.Message) (protocol.Message, bool) {
	if m.Kind != protocol.KindCompute || m.Compute == nil || m.Compute.Op != w.symbol {
		return protocol.Message{}, false
	}

	a, b := m.Compute.A, m.Compute.B
	result, err := Solve(w.symbol, a, b)
	if err != nil {
		w.log.Debug("compute failed",
			zap.String("rid", m.RID),
			zap.Float64("a", a),
			zap.Float64("b", b),
			zap.Error(err),
		)
		return protocol.NewError(w.id, m.Sender, m.RID, errs.Code(err), err.Error()), true
	}

	w.log.Debug("computed",
		zap.String("rid", m.RID),
		zap.Float64("a", a),
		zap.Float64("b", b),
		zap.Float64("result", result),
	)
	return protocol.NewResult(w.id, m.Sender, m.RID, result), true
}

// Solve applies the binary operator op to a and b.
func Solve(op string, a, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("%w: %v / %v", errs.ErrDivisionByZero, a, b)
		}
		return a / b, nil
	case "^":
		result := math.Pow(a, b)
		if math.IsNaN(result) && !math.IsNaN(a) && !math.IsNaN(b) {
			return 0, fmt.Errorf("%w: %v ^ %v is not a real number", errs.ErrDomain, a, b)
		}
		return result, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedOperator, op)
	}
}
