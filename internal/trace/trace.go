// Package trace mirrors message traffic and stack mutations of an
// evaluation. Observers are purely diagnostic and never alter the outcome.
package trace

import (
	"fmt"

	"agent-calc/internal/protocol"
)

type Observer interface {
	// Sent is called when a participant hands a message to the bus.
	Sent(m protocol.Message)
	// Delivered is called when the bus moves a message into an inbox.
	Delivered(m protocol.Message)
	// Pushed and Popped report coordinator stack mutations together with
	// the stack contents after the mutation.
	Pushed(value float64, stack []float64)
	Popped(value float64, stack []float64)
}

type nop struct{}

func (nop) Sent(protocol.Message)      {}
func (nop) Delivered(protocol.Message) {}
func (nop) Pushed(float64, []float64)  {}
func (nop) Popped(float64, []float64)  {}

// Nop discards everything.
func Nop() Observer { return nop{} }

type multi []Observer

// Multi fans every event out to all observers, in order.
func Multi(observers ...Observer) Observer {
	return multi(observers)
}

func (m multi) Sent(msg protocol.Message) {
	for _, o := range m {
		o.Sent(msg)
	}
}

func (m multi) Delivered(msg protocol.Message) {
	for _, o := range m {
		o.Delivered(msg)
	}
}

func (m multi) Pushed(value float64, stack []float64) {
	for _, o := range m {
		o.Pushed(value, stack)
	}
}

func (m multi) Popped(value float64, stack []float64) {
	for _, o := range m {
		o.Popped(value, stack)
	}
}

// Recorder keeps a human-readable line per event.
type Recorder struct {
	lines []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Sent(m protocol.Message) {
	r.logf("[BUS] send %s", m)
}

func (r *Recorder) Delivered(m protocol.Message) {
	r.logf("[BUS] deliver %s", m)
}

func (r *Recorder) Pushed(value float64, stack []float64) {
	r.logf("[%s] push %v -> stack=%v", protocol.Coordinator, value, stack)
}

func (r *Recorder) Popped(value float64, stack []float64) {
	r.logf("[%s] pop %v -> stack=%v", protocol.Coordinator, value, stack)
}

// Lines returns a copy of everything recorded so far.
func (r *Recorder) Lines() []string {
	return append([]string(nil), r.lines...)
}

func (r *Recorder) Reset() {
	r.lines = nil
}

func (r *Recorder) logf(format string, a ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, a...))
}
