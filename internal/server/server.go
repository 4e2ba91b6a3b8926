package server

import (
	"net/http"

	"agent-calc/internal/calculator"
	errs "agent-calc/internal/errors"
	"agent-calc/internal/trace"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	Engine *gin.Engine
	Store  *Store
	opts   []calculator.Option
	log    *zap.Logger
}

// NewServer exposes the calculator over HTTP. Every request evaluates on
// its own calculator built from opts.
func NewServer(log *zap.Logger, opts ...calculator.Option) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	server := &Server{
		Engine: engine,
		Store:  NewStore(),
		opts:   opts,
		log:    log.Named("server"),
	}

	engine.POST("/api/v1/calculate", server.calculateHandler)
	engine.GET("/api/v1/expressions", server.listExpressionsHandler)
	engine.GET("/api/v1/expressions/:id", server.getExpressionHandler)

	return server
}

func (s *Server) Run(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return s.Engine.Run(addr)
}

func (s *Server) calculateHandler(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
		s.log.Error("invalid request body", zap.Error(err))
		return
	}

	opts := s.opts
	var recorder *trace.Recorder
	if req.Trace {
		recorder = trace.NewRecorder()
		opts = append(append([]calculator.Option(nil), s.opts...), calculator.WithObserver(recorder))
	}

	calc := calculator.New(opts...)
	if err := calc.Load(req.Expression); err != nil {
		s.fail(c, Expression{Expression: req.Expression}, err)
		return
	}

	result, err := calc.Run(c.Request.Context())
	expr := Expression{
		Expression: req.Expression,
		Postfix:    calc.Loaded().String(),
		Ticks:      calc.Ticks(),
	}
	if err != nil {
		s.fail(c, expr, err)
		return
	}

	expr.Status = StatusDone
	expr.Result = &result
	expr = s.Store.Add(expr)

	response := CalculateResponse{
		ID:      expr.ID,
		Result:  result,
		Postfix: expr.Postfix,
		Ticks:   expr.Ticks,
	}
	if recorder != nil {
		response.Trace = recorder.Lines()
	}
	c.JSON(http.StatusCreated, response)
}

func (s *Server) fail(c *gin.Context, expr Expression, err error) {
	expr.Status = StatusError
	expr.Error = err.Error()
	expr = s.Store.Add(expr)

	if errs.Internal(err) || c.Request.Context().Err() != nil {
		s.log.Error("evaluation failed", zap.String("id", expr.ID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"id": expr.ID, "error": "internal error"})
		return
	}

	s.log.Info("expression rejected", zap.String("id", expr.ID), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"id": expr.ID, "error": err.Error()})
}

func (s *Server) listExpressionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"expressions": s.Store.All()})
}

func (s *Server) getExpressionHandler(c *gin.Context) {
	expr, exists := s.Store.Get(c.Param("id"))
	if !exists {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "expression not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expression": expr})
}
