package parser

import (
	"strconv"
	"strings"
)

type TokenType int

const (
	TokenNumber TokenType = iota
	TokenOperator
	TokenLeftParen
	TokenRightParen
	TokenUnaryMinus
)

func (t TokenType) String() string {
	switch t {
	case TokenNumber:
		return "number"
	case TokenOperator:
		return "operator"
	case TokenLeftParen:
		return "left-paren"
	case TokenRightParen:
		return "right-paren"
	case TokenUnaryMinus:
		return "unary-minus"
	default:
		return "invalid"
	}
}

// UnaryMinus is the text of the unary minus marker in postfix output.
const UnaryMinus = "u-"

type Token struct {
	Type  TokenType
	Value string
}

func (t Token) String() string {
	return t.Value
}

// Float converts a number token to its value.
func (t Token) Float() (float64, error) {
	return strconv.ParseFloat(t.Value, 64)
}

type Assoc int

const (
	AssocLeft Assoc = iota
	AssocRight
)

type Operator struct {
	Precedence int
	Assoc      Assoc
}

var operators = map[string]Operator{
	"+":        {Precedence: 1, Assoc: AssocLeft},
	"-":        {Precedence: 1, Assoc: AssocLeft},
	"*":        {Precedence: 2, Assoc: AssocLeft},
	"/":        {Precedence: 2, Assoc: AssocLeft},
	"^":        {Precedence: 3, Assoc: AssocRight},
	UnaryMinus: {Precedence: 4, Assoc: AssocRight},
}

// LookupOperator returns the precedence and associativity of symbol.
func LookupOperator(symbol string) (Operator, bool) {
	op, ok := operators[symbol]
	return op, ok
}

// dominates reports whether top, sitting on the operator stack, has to be
// emitted before incoming is pushed.
func (top Operator) dominates(incoming Operator) bool {
	if top.Assoc == AssocLeft {
		return top.Precedence >= incoming.Precedence
	}
	return top.Precedence > incoming.Precedence
}

// Postfix is an expression in reverse polish notation.
type Postfix []Token

func (p Postfix) String() string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = t.Value
	}
	return strings.Join(parts, " ")
}

// Values returns the token texts in order.
func (p Postfix) Values() []string {
	values := make([]string, len(p))
	for i, t := range p {
		values[i] = t.Value
	}
	return values
}
