package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/blog-generator/internal/handler"
)

// SetupRoutes configures all API routes.
// Health routes are registered by the infrastructure gin builder.
func SetupRoutes(
	router *gin.Engine,
	rootHandler *handler.RootHandler,
	postHandler *handler.PostHandler,
	metricsHandler http.Handler,
) {
	router.GET("/", rootHandler.Root)
	router.GET("/test", rootHandler.Diagnostics)

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := router.Group("/api")
	v1.POST("/generate", postHandler.Generate)
	v1.GET("/posts", postHandler.List)
	v1.GET("/posts/:id", postHandler.Get)
	v1.GET("/posts/:id/html", postHandler.HTML)
}
