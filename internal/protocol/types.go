package protocol

import "fmt"

// ID names a participant registered on the bus.
type ID string

const (
	Coordinator ID = "io"
	Adder       ID = "sum"
	Subtractor  ID = "sub"
	Multiplier  ID = "mul"
	Divider     ID = "div"
	Power       ID = "pow"
)

// Symbols lists the binary operator symbols, one worker per symbol.
var Symbols = []string{"+", "-", "*", "/", "^"}

var workers = map[string]ID{
	"+": Adder,
	"-": Subtractor,
	"*": Multiplier,
	"/": Divider,
	"^": Power,
}

// WorkerFor returns the id of the worker bound to symbol.
func WorkerFor(symbol string) (ID, bool) {
	id, ok := workers[symbol]
	return id, ok
}

type Kind string

const (
	KindCompute Kind = "COMPUTE"
	KindResult  Kind = "RESULT"
	KindError   Kind = "ERROR"
)

type ComputePayload struct {
	Op string  `json:"op"`
	A  float64 `json:"a"`
	B  float64 `json:"b"`
}

type ResultPayload struct {
	Value float64 `json:"value"`
}

type ErrorPayload struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Message is the only thing participants exchange. Exactly one of the
// payload pointers is set, matching Kind.
type Message struct {
	Sender    ID              `json:"sender"`
	Recipient ID              `json:"recipient"`
	Kind      Kind            `json:"kind"`
	RID       string          `json:"rid"`
	Compute   *ComputePayload `json:"compute,omitempty"`
	Result    *ResultPayload  `json:"result,omitempty"`
	Error     *ErrorPayload   `json:"error,omitempty"`
}

func NewCompute(sender, recipient ID, rid, op string, a, b float64) Message {
	return Message{
		Sender:    sender,
		Recipient: recipient,
		Kind:      KindCompute,
		RID:       rid,
		Compute:   &ComputePayload{Op: op, A: a, B: b},
	}
}

func NewResult(sender, recipient ID, rid string, value float64) Message {
	return Message{
		Sender:    sender,
		Recipient: recipient,
		Kind:      KindResult,
		RID:       rid,
		Result:    &ResultPayload{Value: value},
	}
}

func NewError(sender, recipient ID, rid, code, detail string) Message {
	return Message{
		Sender:    sender,
		Recipient: recipient,
		Kind:      KindError,
		RID:       rid,
		Error:     &ErrorPayload{Code: code, Detail: detail},
	}
}

func (m Message) String() string {
	var body string
	switch {
	case m.Compute != nil:
		body = fmt.Sprintf("op=%s a=%v b=%v", m.Compute.Op, m.Compute.A, m.Compute.B)
	case m.Result != nil:
		body = fmt.Sprintf("value=%v", m.Result.Value)
	case m.Error != nil:
		body = fmt.Sprintf("code=%s detail=%q", m.Error.Code, m.Error.Detail)
	}
	return fmt.Sprintf("%s -> %s : %s rid=%s %s", m.Sender, m.Recipient, m.Kind, m.RID, body)
}

// Sender queues a message for delivery on the next tick.
type Sender interface {
	Send(Message)
}

// Participant is an entity registered on the bus. Deliver appends to its
// inbox; Step processes the inbox once and may send replies.
type Participant interface {
	ID() ID
	Deliver(Message)
	Step(Sender)
}
