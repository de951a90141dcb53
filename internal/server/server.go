package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabletalk/tabletalk/internal/dispatcher"
	"github.com/tabletalk/tabletalk/internal/records"
)

// Server exposes the operation dispatcher over HTTP
type Server struct {
	Dispatcher *dispatcher.Dispatcher
	Provider   records.Provider
	Logger     *zap.Logger
}

// NewServer creates a new HTTP server wrapper
func NewServer(disp *dispatcher.Dispatcher, provider records.Provider, logger *zap.Logger) *Server {
	return &Server{
		Dispatcher: disp,
		Provider:   provider,
		Logger:     logger,
	}
}

// SetupRouter builds the gin engine with all routes
func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add CORS middleware
	router.Use(cors.Default())

	// Add logging middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health endpoint
	router.GET("/health", s.getHealth)

	v1 := router.Group("/v1")
	{
		v1.POST("/operations", s.executeOperation)
		v1.GET("/users", s.listUsers)
	}

	return router
}

// getHealth verifies that a store connection can be acquired
func (s *Server) getHealth(c *gin.Context) {
	_, release, err := s.Provider.Acquire(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"error":     err.Error(),
		})
		return
	}
	release()

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": gin.H{
			"database": "healthy",
		},
	})
}

// executeOperation runs one dispatcher operation and returns its result text
func (s *Server) executeOperation(c *gin.Context) {
	requestID := uuid.New().String()

	var req struct {
		Operation  string         `json:"operation" binding:"required"`
		Parameters map[string]any `json:"parameters"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result := s.Dispatcher.Handle(c.Request.Context(), req.Operation, dispatcher.Params(req.Parameters))

	s.Logger.Info("Operation executed",
		zap.String("request_id", requestID),
		zap.String("operation", req.Operation))

	c.JSON(http.StatusOK, gin.H{
		"operation": req.Operation,
		"result":    result,
	})
}

// listUsers returns all user records
func (s *Server) listUsers(c *gin.Context) {
	store, release, err := s.Provider.Acquire(c.Request.Context())
	if err != nil {
		s.Logger.Error("Failed to acquire store", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	defer release()

	users, err := store.ListAll(c.Request.Context())
	if err != nil {
		s.Logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}
