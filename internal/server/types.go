package server

import (
	"fmt"
	"sort"
	"sync"
)

const (
	StatusDone  = "done"
	StatusError = "error"
)

type Expression struct {
	ID         string   `json:"id"`
	Expression string   `json:"expression"`
	Status     string   `json:"status"`
	Result     *float64 `json:"result,omitempty"`
	Error      string   `json:"error,omitempty"`
	Postfix    string   `json:"postfix,omitempty"`
	Ticks      int      `json:"ticks,omitempty"`
	seq        int
}

type CalculateRequest struct {
	Expression string `json:"expression" binding:"required"`
	Trace      bool   `json:"trace"`
}

type CalculateResponse struct {
	ID      string   `json:"id"`
	Result  float64  `json:"result"`
	Postfix string   `json:"postfix"`
	Ticks   int      `json:"ticks"`
	Trace   []string `json:"trace,omitempty"`
}

// Store keeps every evaluated expression in memory.
type Store struct {
	mu          sync.RWMutex
	expressions map[string]*Expression
	counter     int
}

func NewStore() *Store {
	return &Store{expressions: make(map[string]*Expression)}
}

// Add assigns the next id to expr and stores a copy.
func (s *Store) Add(expr Expression) Expression {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	expr.seq = s.counter
	expr.ID = fmt.Sprintf("expr-%d", s.counter)
	s.expressions[expr.ID] = &expr
	return expr
}

func (s *Store) Get(id string) (Expression, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expr, exists := s.expressions[id]
	if !exists {
		return Expression{}, false
	}
	return *expr, true
}

// All returns the stored expressions in submission order.
func (s *Store) All() []Expression {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expressions := make([]Expression, 0, len(s.expressions))
	for _, expr := range s.expressions {
		expressions = append(expressions, *expr)
	}
	sort.Slice(expressions, func(i, j int) bool {
		return expressions[i].seq < expressions[j].seq
	})
	return expressions
}
