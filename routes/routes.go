package routes

import (
	"net/http"
	"time"

	"habittracker/handlers"
	"habittracker/middleware"
	"habittracker/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterStreakRoutes registers the endpoints polled by home automation.
func RegisterStreakRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/current", hb.CurrentStreakHandler)
		api.GET("/previous", hb.PreviousStreakHandler)
		api.GET("/display.png", hb.DisplayImageHandler)
	}
}

// RegisterEventRoutes registers event endpoints. Recording requires the API
// token when one is configured.
func RegisterEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/events")
	{
		api.GET("", hb.ListEventsHandler)

		protected := api.Group("")
		protected.Use(middleware.TokenAuthMiddleware(hb.APITokenHash))
		protected.POST("", hb.RecordEventHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		health := utils.GetHealthStatus()
		status := "ok"
		if !health.CheckedAt.IsZero() && !health.Healthy {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "message": "Hi, I'm the habit tracker", "health": health})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	RegisterStreakRoutes(r, hb)
	RegisterEventRoutes(r, hb)
	RegisterHealthRoute(r)
}
