package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agent-calc/internal/calculator"
	"agent-calc/internal/trace"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(opts ...calculator.Option) *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(zap.NewNop(), opts...)
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

func TestCalculate(t *testing.T) {
	s := newTestServer(calculator.WithSeed(1))

	w := do(t, s, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: "(1+2)*3-4^2/2"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "expr-1", resp.ID)
	assert.Equal(t, 1.0, resp.Result)
	assert.Equal(t, "1 2 + 3 * 4 2 ^ 2 / -", resp.Postfix)
	assert.NotZero(t, resp.Ticks)
	assert.Empty(t, resp.Trace)
}

func TestCalculateWithTrace(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: "--5", Trace: true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5.0, resp.Result)
	assert.Contains(t, resp.Trace, "[BUS] send io -> sub : COMPUTE rid=req2 op=- a=0 b=-5")
}

func TestCalculateTraceKeepsConfiguredObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newTestServer(calculator.WithObserver(trace.NewZap(zap.New(core))))

	w := do(t, s, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: "2*3", Trace: true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Trace, "[BUS] send io -> mul : COMPUTE rid=req1 op=* a=2 b=3")
	assert.Equal(t, 2, logs.FilterLoggerName("trace").FilterMessage("send").Len())
	assert.Equal(t, 2, logs.FilterLoggerName("trace").FilterMessage("deliver").Len())
}

func TestCalculateRejected(t *testing.T) {
	s := newTestServer()

	cases := []struct {
		expr  string
		error string
	}{
		{"5/0", "division by zero: 5 / 0"},
		{"(1+2", "syntax error: unbalanced parentheses"},
		{"1 ? 2", "lex error: unexpected character '?' at offset 1"},
		{"3+", "malformed expression: missing operands for \"+\""},
	}

	for _, c := range cases {
		w := do(t, s, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: c.expr})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, c.expr)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, c.error, body["error"], c.expr)
		assert.NotEmpty(t, body["id"])
	}
}

func TestCalculateInvalidBody(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/v1/calculate", map[string]string{"expr": "1+1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, s.Store.All())
}

func TestCalculateInternalError(t *testing.T) {
	s := newTestServer(calculator.WithMaxTicks(2))

	w := do(t, s, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: "1+1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	expr, exists := s.Store.Get("expr-1")
	require.True(t, exists)
	assert.Equal(t, StatusError, expr.Status)
	assert.Contains(t, expr.Error, "did not converge")
}

func TestExpressions(t *testing.T) {
	s := newTestServer()

	do(t, s, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: "2^3^2"})
	do(t, s, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: "1/0"})

	w := do(t, s, http.MethodGet, "/api/v1/expressions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Expressions []Expression `json:"expressions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Expressions, 2)

	first := list.Expressions[0]
	assert.Equal(t, "expr-1", first.ID)
	assert.Equal(t, StatusDone, first.Status)
	require.NotNil(t, first.Result)
	assert.Equal(t, 512.0, *first.Result)

	second := list.Expressions[1]
	assert.Equal(t, "expr-2", second.ID)
	assert.Equal(t, StatusError, second.Status)
	assert.Nil(t, second.Result)
	assert.Equal(t, "1 0 /", second.Postfix)

	w = do(t, s, http.MethodGet, "/api/v1/expressions/expr-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one struct {
		Expression Expression `json:"expression"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, "1/0", one.Expression.Expression)
	assert.Contains(t, one.Expression.Error, "division by zero")

	w = do(t, s, http.MethodGet, "/api/v1/expressions/expr-9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
