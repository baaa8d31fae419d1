package http

import (
	"github.com/gin-gonic/gin"

	"github.com/koreader-utils/quotescan/internal/scheduler"
	"github.com/koreader-utils/quotescan/internal/store"
)

// RouterConfig carries the router's dependencies, improving testability and
// keeping the constructor's parameter count down.
type RouterConfig struct {
	Store     *store.Store
	Harvester scheduler.Harvester
	Version   string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Store, cfg.Version)
	router.GET("/health", healthController.Status)

	quoteController := NewQuoteController(cfg.Store, cfg.Harvester)
	api := router.Group("/api")
	{
		api.GET("/quote", quoteController.Random)
		api.GET("/quotes", quoteController.List)
		api.POST("/scan", quoteController.Scan)
	}

	return router
}
