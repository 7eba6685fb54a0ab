package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(h *handlers.Handler, exposeMetrics bool, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api/v1")
	{
		api.GET("/providers", h.ListProviders)
		api.POST("/providers", h.CreateProvider)
		api.PUT("/providers/:id", h.UpdateProvider)
		api.DELETE("/providers/:id", h.DeleteProvider)

		api.GET("/deliveries", h.ListDeliveries)
		api.POST("/deliveries", h.RecordDelivery)
		api.DELETE("/deliveries/:id", h.DeleteDelivery)

		api.GET("/production", h.ListProduction)
		api.POST("/production", h.RecordProduction)
		api.DELETE("/production/:id", h.DeleteProduction)

		api.GET("/clients", h.ListClients)
		api.POST("/clients", h.CreateClient)

		api.GET("/sales", h.ListSales)
		api.POST("/sales", h.RecordSale)
		api.POST("/sales/:id/payments", h.AddPayment)
		api.DELETE("/sales/:id", h.DeleteSale)

		api.GET("/replenishments", h.ListReplenishments)
		api.POST("/replenishments", h.AddReplenishment)
		api.GET("/stock", h.Stock)
		api.POST("/stock/ack", h.AckStockAlert)

		api.GET("/summary/weekly", h.WeeklySummary)
		api.POST("/reports/weekly", h.GenerateWeeklyReport)

		api.POST("/assistant/deliveries", h.AssistDeliveries)
		api.POST("/assistant/providers", h.AssistProvider)

		api.GET("/export/deliveries.csv", h.ExportDeliveriesCSV)
		api.GET("/export/deliveries.xlsx", h.ExportDeliveriesXLSX)

		api.GET("/backup", h.Backup)
		api.POST("/restore", h.Restore)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if exposeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
