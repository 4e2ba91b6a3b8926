package parser

import (
	"fmt"
	"strings"
	"unicode"

	errs "agent-calc/internal/errors"
)

const symbols = "+-*/^()"

// Tokenize splits expr into tokens and marks every unary minus.
func Tokenize(expr string) ([]Token, error) {
	tokens, err := scan(expr)
	if err != nil {
		return nil, err
	}
	return classifyUnary(tokens), nil
}

// scan strips whitespace and matches, at each position, a decimal number,
// an integer or a single operator or parenthesis.
func scan(expr string) ([]Token, error) {
	expression := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, expr)

	if expression == "" {
		return nil, fmt.Errorf("%w: empty expression", errs.ErrLex)
	}

	var tokens []Token
	i := 0
	for i < len(expression) {
		ch := expression[i]

		if isDigit(ch) {
			start := i
			i = skipDigits(expression, i)
			if i+1 < len(expression) && expression[i] == '.' && isDigit(expression[i+1]) {
				i = skipDigits(expression, i+1)
			}
			tokens = append(tokens, Token{Type: TokenNumber, Value: expression[start:i]})
			continue
		}

		if strings.IndexByte(symbols, ch) < 0 {
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", errs.ErrLex, rune(ch), i)
		}

		tokens = append(tokens, symbolToken(ch))
		i++
	}
	return tokens, nil
}

func symbolToken(ch byte) Token {
	switch ch {
	case '(':
		return Token{Type: TokenLeftParen, Value: "("}
	case ')':
		return Token{Type: TokenRightParen, Value: ")"}
	default:
		return Token{Type: TokenOperator, Value: string(ch)}
	}
}

// classifyUnary rewrites a minus into the unary marker when it starts the
// expression or follows an operator or an opening parenthesis. The previous
// token is always already classified, so chains like --3 resolve correctly.
func classifyUnary(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == TokenOperator && tok.Value == "-" {
			if len(out) == 0 {
				tok = Token{Type: TokenUnaryMinus, Value: UnaryMinus}
			} else {
				switch out[len(out)-1].Type {
				case TokenOperator, TokenUnaryMinus, TokenLeftParen:
					tok = Token{Type: TokenUnaryMinus, Value: UnaryMinus}
				}
			}
		}
		out = append(out, tok)
	}
	return out
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func skipDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}
