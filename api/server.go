package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	cperrors "chargebee-prices/internal/errors"
	"chargebee-prices/internal/logging"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// ServerOptions configures a Server
type ServerOptions struct {
	Version string

	// Metrics serves GET /metrics when set
	Metrics http.Handler

	Logger *zap.Logger
}

// Server is the HTTP front of the handler
type Server struct {
	handler *Handler
	engine  *gin.Engine
	version string
	log     *zap.Logger

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// NewServer creates a server and registers its routes
func NewServer(h *Handler, opts ServerOptions) *Server {
	s := &Server{
		handler: h,
		engine:  gin.New(),
		version: opts.Version,
		log:     logging.Or(opts.Logger),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.registerRoutes(opts.Metrics)
	return s
}

func (s *Server) registerRoutes(metrics http.Handler) {
	s.engine.GET("/health", s.handleHealth)
	if metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := s.engine.Group("/v1")
	v1.POST("/events", s.handleEvent)
	v1.GET("/families/:familyId/prices", s.handleFamilyPrices)
	v1.GET("/items/:itemId/prices", s.handleItemPrices)
}

// handleEvent handles POST /v1/events
func (s *Server) handleEvent(c *gin.Context) {
	var ev Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		s.writeError(c, cperrors.Input("body must be {\"itemFamilyId\": \"...\"}"))
		return
	}

	plans, err := s.handler.HandleEvent(c.Request.Context(), ev)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// handleFamilyPrices handles GET /v1/families/:familyId/prices[?domain=tld]
func (s *Server) handleFamilyPrices(c *gin.Context) {
	familyID := c.Param("familyId")

	if tld, ok := c.GetQuery("domain"); ok {
		prices, err := s.handler.DomainPrices(c.Request.Context(), familyID, tld)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, prices)
		return
	}

	plans, err := s.handler.FamilyPrices(c.Request.Context(), familyID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// handleItemPrices handles GET /v1/items/:itemId/prices
func (s *Server) handleItemPrices(c *gin.Context) {
	item, err := s.handler.ItemPrices(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	switch {
	case cperrors.IsType(err, cperrors.TypeInput):
		return http.StatusBadRequest
	case cperrors.IsType(err, cperrors.TypeNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{
		Code:      string(cperrors.TypeOf(err)),
		Message:   err.Error(),
		RequestID: c.GetString(requestIDKey),
	}})
}

// requestLogger assigns a request id and logs every request
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.log.Warn("Request failed", fields...)
			return
		}
		s.log.Info("Request completed", fields...)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// ListenAndServe listens on addr and serves until Shutdown is called.
// It returns http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe(addr string, readTimeout, writeTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln, readTimeout, writeTimeout)
}

// Serve accepts connections on ln until Shutdown is called. It returns
// http.ErrServerClosed immediately when Shutdown already ran.
func (s *Server) Serve(ln net.Listener, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return http.ErrServerClosed
	}
	s.server = srv
	s.mu.Unlock()

	s.log.Info("Listening", zap.String("address", ln.Addr().String()))
	return srv.Serve(ln)
}

// Shutdown gracefully shuts down the server. A later Serve call returns
// http.ErrServerClosed without serving.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
