package handler

import (
	"net/http"
	"time"

	"github.com/Kosench/go-url-map/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowedOrigins []string
	Production     bool

	// HealthCheck пингует хранилище
	HealthCheck func() error
	// Info возвращает описание драйвера и версию хранилища
	Info func() gin.H
}

func NewRouter(cfg RouterConfig, urlHandler *URLHandler, log *logger.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "URL map service")
	})

	router.GET("/health", func(c *gin.Context) {
		response := gin.H{
			"status": "healthy",
			"services": gin.H{
				"database": "healthy",
			},
		}

		statusCode := http.StatusOK
		if cfg.HealthCheck != nil {
			if err := cfg.HealthCheck(); err != nil {
				response["services"].(gin.H)["database"] = "unhealthy"
				response["status"] = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		c.JSON(statusCode, response)
	})

	router.GET("/info", func(c *gin.Context) {
		info := gin.H{
			"service": "URL Map",
			"version": "1.0.0",
		}
		if cfg.Info != nil {
			for k, v := range cfg.Info() {
				info[k] = v
			}
		}
		c.JSON(http.StatusOK, info)
	})

	urlHandler.RegisterRoutes(router)

	return router
}

// RequestLogger пишет одну строку на запрос в общий логгер.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
