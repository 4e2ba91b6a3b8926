package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

var (
	ErrLex                 = stderrors.New("lex error")
	ErrSyntax              = stderrors.New("syntax error")
	ErrMalformedExpression = stderrors.New("malformed expression")
	ErrDivisionByZero      = stderrors.New("division by zero")
	ErrDomain              = stderrors.New("domain error")
	ErrUnsupportedOperator = stderrors.New("unsupported operator")

	ErrUnknownRecipient     = stderrors.New("unknown recipient")
	ErrDuplicateParticipant = stderrors.New("duplicate participant")
	ErrUnexpectedToken      = stderrors.New("unexpected token")
	ErrNonConvergence       = stderrors.New("evaluation did not converge")
)

// Wire codes carried by ERROR messages.
const (
	CodeDivisionByZero      = "division_by_zero"
	CodeDomain              = "domain_error"
	CodeUnsupportedOperator = "unsupported_operator"
	CodeInternal            = "internal"
)

var codes = map[string]error{
	CodeDivisionByZero:      ErrDivisionByZero,
	CodeDomain:              ErrDomain,
	CodeUnsupportedOperator: ErrUnsupportedOperator,
}

// Code maps err to the code sent over the bus. Errors without a dedicated
// code are reported as CodeInternal.
func Code(err error) string {
	for code, sentinel := range codes {
		if stderrors.Is(err, sentinel) {
			return code
		}
	}
	return CodeInternal
}

// FromCode rebuilds the error a worker reported. The result wraps the
// sentinel for code, so errors.Is keeps working on the receiving side.
func FromCode(code, detail string) error {
	sentinel, ok := codes[code]
	if !ok {
		return fmt.Errorf("worker error: %s", detail)
	}
	detail = strings.TrimPrefix(strings.TrimPrefix(detail, sentinel.Error()), ": ")
	if detail == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}

// Internal reports whether err is a protocol or consistency failure rather
// than a problem with the submitted expression.
func Internal(err error) bool {
	return stderrors.Is(err, ErrUnknownRecipient) ||
		stderrors.Is(err, ErrDuplicateParticipant) ||
		stderrors.Is(err, ErrUnexpectedToken) ||
		stderrors.Is(err, ErrNonConvergence)
}
