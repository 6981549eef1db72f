package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory-catalog/internal/auth"
	"inventory-catalog/internal/handlers"
	"inventory-catalog/internal/logger"
	"inventory-catalog/internal/metrics"
)

type Dependencies struct {
	Products *handlers.ProductHandler
	Health   *handlers.HealthHandler
	Verifier auth.Verifier
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// NewRouter crea el engine con recovery, logging y métricas
func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		logger.GinMiddleware(log),
		deps.Metrics.GinMiddleware(),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, handlers.MessageResponse{Message: "Internal server error"})
		}),
	)

	RegisterRoutes(router, deps)
	return router
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	if deps.Health != nil {
		router.GET("/healthz", deps.Health.Health)
	}

	admin := auth.RequireRole(deps.Verifier, auth.RoleAdmin, deps.Log)

	products := router.Group("/products")
	{
		products.GET("", deps.Products.ListProducts)
		products.POST("", admin, deps.Products.CreateProduct)
		products.PUT("/:id", admin, deps.Products.UpdateProduct)
		products.DELETE("/:id", admin, deps.Products.DeleteProduct)
	}
}
