package parser

import (
	"fmt"

	errs "agent-calc/internal/errors"
)

// Parse tokenizes expr and converts it to postfix order.
func Parse(expr string) (Postfix, error) {
	tokens, err := Tokenize(expr)
	if err != nil {
		return nil, err
	}
	return ToPostfix(tokens)
}

// ToPostfix reorders classified tokens with the shunting-yard algorithm.
func ToPostfix(tokens []Token) (Postfix, error) {
	var outputQueue Postfix
	var operatorStack []Token

	for _, token := range tokens {
		switch token.Type {
		case TokenNumber:
			outputQueue = append(outputQueue, token)
		case TokenOperator, TokenUnaryMinus:
			incoming, ok := LookupOperator(token.Value)
			if !ok {
				return nil, fmt.Errorf("%w: invalid token %q", errs.ErrSyntax, token.Value)
			}
			for len(operatorStack) > 0 {
				top := operatorStack[len(operatorStack)-1]
				if top.Type == TokenLeftParen {
					break
				}
				topOp, _ := LookupOperator(top.Value)
				if !topOp.dominates(incoming) {
					break
				}
				outputQueue = append(outputQueue, top)
				operatorStack = operatorStack[:len(operatorStack)-1]
			}
			operatorStack = append(operatorStack, token)
		case TokenLeftParen:
			operatorStack = append(operatorStack, token)
		case TokenRightParen:
			foundLeftParen := false
			for len(operatorStack) > 0 {
				top := operatorStack[len(operatorStack)-1]
				operatorStack = operatorStack[:len(operatorStack)-1]
				if top.Type == TokenLeftParen {
					foundLeftParen = true
					break
				}
				outputQueue = append(outputQueue, top)
			}
			if !foundLeftParen {
				return nil, fmt.Errorf("%w: unbalanced parentheses", errs.ErrSyntax)
			}
		default:
			return nil, fmt.Errorf("%w: invalid token %q", errs.ErrSyntax, token.Value)
		}
	}

	for len(operatorStack) > 0 {
		top := operatorStack[len(operatorStack)-1]
		if top.Type == TokenLeftParen || top.Type == TokenRightParen {
			return nil, fmt.Errorf("%w: unbalanced parentheses", errs.ErrSyntax)
		}
		outputQueue = append(outputQueue, top)
		operatorStack = operatorStack[:len(operatorStack)-1]
	}

	return outputQueue, nil
}
