package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nhle/project-dashboard/internal/transport/middleware"
)

const requestTimeout = 30 * time.Second

// InitRoutes builds the API router.
func InitRoutes(h *Handler, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(requestTimeout))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		projects := api.Group("/projects")
		{
			projects.GET("", h.ListProjects)
			projects.POST("", h.CreateProject)
			projects.GET("/:id", h.GetProject)
			projects.PUT("/:id", h.UpdateProject)
			projects.DELETE("/:id", h.DeleteProject)
		}

		api.GET("/stats", h.GetStats)

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.GetNotifications)
			notifications.POST("/read-all", h.MarkAllRead)
			notifications.POST("/:id/read", h.MarkRead)
		}
	}

	return router
}
