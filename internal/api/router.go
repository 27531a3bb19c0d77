package api

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xuefei993/renewables/internal/api/handlers"
	"github.com/xuefei993/renewables/internal/api/middleware"
	"github.com/xuefei993/renewables/internal/catalog"
	"github.com/xuefei993/renewables/internal/session"
	"github.com/xuefei993/renewables/internal/subsidy"
)

// Deps are the services the HTTP API is built on.
type Deps struct {
	Registry       *session.Registry
	Catalog        catalog.Source
	Subsidies      subsidy.Checker // optional
	AllowedOrigins []string
	StaticDir      string // optional SPA build to serve for non-API paths
}

// NewRouter wires middleware and routes.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	sessionHandler := handlers.NewSessionHandler(deps.Registry, deps.Subsidies)
	strategyHandler := handlers.NewStrategyHandler()
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": deps.Registry.Len()})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/strategies", strategyHandler.ListStrategies)
		api.GET("/strategies/:name", strategyHandler.GetStrategy)
		api.GET("/catalog", catalogHandler.GetCatalog)

		api.POST("/sessions", sessionHandler.CreateSession)
		api.GET("/sessions/:id", sessionHandler.GetSession)
		api.DELETE("/sessions/:id", sessionHandler.DeleteSession)
		api.GET("/sessions/:id/stream", sessionHandler.Stream)
		api.GET("/sessions/:id/ranking", sessionHandler.Ranking)

		api.POST("/sessions/:id/configurations", sessionHandler.AddConfiguration)
		api.PATCH("/sessions/:id/configurations/:configId", sessionHandler.RenameConfiguration)
		api.DELETE("/sessions/:id/configurations/:configId", sessionHandler.RemoveConfiguration)
		api.PUT("/sessions/:id/configurations/:configId/selections/:category", sessionHandler.SetSelection)
		api.POST("/sessions/:id/configurations/:configId/recalculate", sessionHandler.Recalculate)
		api.GET("/sessions/:id/configurations/:configId/monthly/:metric", sessionHandler.MonthlySeries)

		api.POST("/sessions/:id/subsidies/check", sessionHandler.CheckSubsidies)
		api.POST("/sessions/:id/subsidies", sessionHandler.ApplySubsidy)
		api.DELETE("/sessions/:id/subsidies/:subsidyId", sessionHandler.RemoveSubsidy)
	}

	serveStatic(router, deps.StaticDir)
	return router
}

func serveStatic(router *gin.Engine, staticDir string) {
	if staticDir == "" {
		return
	}
	if _, err := os.Stat(staticDir); err != nil {
		log.Printf("Static directory %s not found, skipping static file serving", staticDir)
		return
	}

	router.Static("/assets", staticDir+"/assets")
	router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

	// SPA routing: everything that is not an API path gets index.html
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
			return
		}
		c.File(staticDir + "/index.html")
	})
	log.Printf("Serving static files from %s", staticDir)
}
