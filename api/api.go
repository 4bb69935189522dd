package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridetracker/config"
	"ridetracker/pkg/jwt"
	"ridetracker/pkg/logger"
	"ridetracker/service"
)

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	svc    service.IServiceManager
	tokens *jwt.Manager
	log    logger.ILogger
}

func New(cfg config.Config, svc service.IServiceManager, tokens *jwt.Manager, log logger.ILogger) *Server {
	if cfg.LoggerLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: gin.New(),
		cfg:    cfg,
		svc:    svc,
		tokens: tokens,
		log:    log,
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()

	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": s.cfg.ServiceName})
	})

	s.engine.POST("/auth/login/", s.login)

	// Role enforcement happens once here, not inside each operation.
	rides := s.engine.Group("/rides", s.adminRequired())
	{
		rides.GET("/", s.listRides)
		rides.POST("/", s.createRide)
		rides.GET("/:id/", s.getRide)
		rides.PUT("/:id/", s.updateRide)
		rides.DELETE("/:id/", s.deleteRide)
	}
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.AppPort)
	s.log.Info("HTTP server listening", logger.String("addr", addr))
	return s.engine.Run(addr)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}
