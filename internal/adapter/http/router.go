package http

import (
	"github.com/dulcecostawork-hub/minifood-api/internal/adapter/http/middleware"
	"github.com/dulcecostawork-hub/minifood-api/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *MealHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			logging.From(c).Info("health check")
			c.JSON(200, gin.H{"ok": true})
		})
		api.GET("/meals", h.ListMeals)
		api.POST("/cart", h.CheckCartLine)
		api.POST("/checkout", h.Checkout)
		api.POST("/admin/reset", h.ResetCatalog)
	}

	return r
}
