package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/api/handlers"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/api/middleware"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/service"
)

type Services struct {
	PolicyService *service.PolicyService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	if services == nil || services.PolicyService == nil {
		return router
	}

	policyHandler := handlers.NewPolicyHandler(services.PolicyService)
	router.GET("/health", policyHandler.Health)

	apiGroup := router.Group("/api/v1")
	policyGroup := apiGroup.Group("/policy")
	{
		policyGroup.GET("/service_levels", policyHandler.GetServiceLevels)
		policyGroup.GET("/items", policyHandler.GetItems)
		policyGroup.GET("/summary", policyHandler.GetSummary)
		policyGroup.GET("/dashboard", policyHandler.GetDashboard)
		policyGroup.GET("/plan", policyHandler.GetPlan)
		policyGroup.POST("/export", policyHandler.Export)
	}

	skuGroup := apiGroup.Group("/skus")
	{
		skuGroup.GET("/:sku", policyHandler.GetSKU)
		skuGroup.GET("/:sku/demand", policyHandler.GetDemand)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
