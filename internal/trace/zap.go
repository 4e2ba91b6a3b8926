package trace

import (
	"agent-calc/internal/protocol"

	"go.uber.org/zap"
)

type zapObserver struct {
	log *zap.Logger
}

// NewZap writes every event to log at debug level.
func NewZap(log *zap.Logger) Observer {
	return &zapObserver{log: log.Named("trace")}
}

func (z *zapObserver) Sent(m protocol.Message) {
	z.log.Debug("send", messageFields(m)...)
}

func (z *zapObserver) Delivered(m protocol.Message) {
	z.log.Debug("deliver", messageFields(m)...)
}

func (z *zapObserver) Pushed(value float64, stack []float64) {
	z.log.Debug("push", zap.Float64("value", value), zap.Float64s("stack", stack))
}

func (z *zapObserver) Popped(value float64, stack []float64) {
	z.log.Debug("pop", zap.Float64("value", value), zap.Float64s("stack", stack))
}

func messageFields(m protocol.Message) []zap.Field {
	fields := []zap.Field{
		zap.String("from", string(m.Sender)),
		zap.String("to", string(m.Recipient)),
		zap.String("kind", string(m.Kind)),
		zap.String("rid", m.RID),
	}
	switch {
	case m.Compute != nil:
		fields = append(fields,
			zap.String("op", m.Compute.Op),
			zap.Float64("a", m.Compute.A),
			zap.Float64("b", m.Compute.B),
		)
	case m.Result != nil:
		fields = append(fields, zap.Float64("value", m.Result.Value))
	case m.Error != nil:
		fields = append(fields, zap.String("code", m.Error.Code), zap.String("detail", m.Error.Detail))
	}
	return fields
}
