package parser

import (
	"testing"

	errs "agent-calc/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		src    string
		values []string
	}{
		{"3+4*2", []string{"3", "+", "4", "*", "2"}},
		{"-3+4", []string{UnaryMinus, "3", "+", "4"}},
		{"--3", []string{UnaryMinus, UnaryMinus, "3"}},
		{"2--3", []string{"2", "-", UnaryMinus, "3"}},
		{"2*-3", []string{"2", "*", UnaryMinus, "3"}},
		{"(-1)-2", []string{"(", UnaryMinus, "1", ")", "-", "2"}},
		{" 12.50 ^ ( 2 ) ", []string{"12.50", "^", "(", "2", ")"}},
		{"1 2", []string{"12"}},
		{"\t7\n/\r2", []string{"7", "/", "2"}},
	}

	for _, c := range cases {
		tokens, err := Tokenize(c.src)
		require.NoError(t, err, c.src)
		assert.Equal(t, c.values, Postfix(tokens).Values(), c.src)
	}
}

func TestTokenizeTypes(t *testing.T) {
	tokens, err := Tokenize("-(1.5)-2")
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{Type: TokenUnaryMinus, Value: UnaryMinus},
		{Type: TokenLeftParen, Value: "("},
		{Type: TokenNumber, Value: "1.5"},
		{Type: TokenRightParen, Value: ")"},
		{Type: TokenOperator, Value: "-"},
		{Type: TokenNumber, Value: "2"},
	}, tokens)
}

func TestScanKeepsRawMinus(t *testing.T) {
	tokens, err := scan("-3")
	require.NoError(t, err)
	assert.Equal(t, []Token{
		{Type: TokenOperator, Value: "-"},
		{Type: TokenNumber, Value: "3"},
	}, tokens)
}

func TestTokenizeErrors(t *testing.T) {
	for _, src := range []string{"", "   ", "2 x 3", "1.", ".5", "3,4", "1e5", "2%3"} {
		_, err := Tokenize(src)
		assert.ErrorIs(t, err, errs.ErrLex, "%q", src)
	}
}

func TestToPostfix(t *testing.T) {
	cases := []struct {
		src     string
		postfix string
	}{
		{"(1+2)*3-4^2/2", "1 2 + 3 * 4 2 ^ 2 / -"},
		{"2+3*4", "2 3 4 * +"},
		{"2*3+4", "2 3 * 4 +"},
		{"8-3-2", "8 3 - 2 -"},
		{"8/4/2", "8 4 / 2 /"},
		{"2^3^2", "2 3 2 ^ ^"},
		{"-2^2", "2 u- 2 ^"},
		{"2^-1", "2 1 u- ^"},
		{"--5", "5 u- u-"},
		{"-(2+3)*4", "2 3 + u- 4 *"},
		{"((7))", "7"},
		{"1.25", "1.25"},
	}

	for _, c := range cases {
		postfix, err := Parse(c.src)
		require.NoError(t, err, c.src)
		assert.Equal(t, c.postfix, postfix.String(), c.src)
	}
}

func TestToPostfixUnbalanced(t *testing.T) {
	for _, src := range []string{"(1+2", "1+2)", "((1)", ")(", "(", ")"} {
		_, err := Parse(src)
		require.Error(t, err, src)
		assert.ErrorIs(t, err, errs.ErrSyntax, src)
		assert.Contains(t, err.Error(), "unbalanced parentheses", src)
	}
}

func TestToPostfixInvalidToken(t *testing.T) {
	_, err := ToPostfix([]Token{{Type: TokenType(42), Value: "?"}})
	assert.ErrorIs(t, err, errs.ErrSyntax)
	assert.Contains(t, err.Error(), "invalid token")

	_, err = ToPostfix([]Token{
		{Type: TokenNumber, Value: "1"},
		{Type: TokenOperator, Value: "%"},
		{Type: TokenNumber, Value: "2"},
	})
	assert.ErrorIs(t, err, errs.ErrSyntax)
}

func TestOperatorTable(t *testing.T) {
	plus, _ := LookupOperator("+")
	times, _ := LookupOperator("*")
	pow, _ := LookupOperator("^")
	neg, ok := LookupOperator(UnaryMinus)
	require.True(t, ok)

	assert.Equal(t, Operator{Precedence: 4, Assoc: AssocRight}, neg)
	assert.True(t, plus.dominates(plus))
	assert.True(t, times.dominates(plus))
	assert.False(t, plus.dominates(times))
	assert.False(t, pow.dominates(pow))
	assert.True(t, neg.dominates(pow))
	assert.False(t, neg.dominates(neg))

	_, ok = LookupOperator("%")
	assert.False(t, ok)
}
