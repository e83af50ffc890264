package router

import (
	"net/http"

	"nearby/config"
	"nearby/internal/handler"
	"nearby/internal/middleware"
	"nearby/internal/repository"
	"nearby/internal/session"
	"nearby/internal/ws"
	"nearby/pkg/canvas"
	"nearby/pkg/cloudinary"
	"nearby/pkg/proximity"

	"github.com/gin-gonic/gin"
)

func Setup(cfg *config.Config, dir repository.Directory, photos *cloudinary.Resolver, registry *session.Registry, limiter *middleware.InMemoryRateLimiter) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	if limiter != nil {
		r.Use(middleware.RateLimit(limiter))
	}

	finder := proximity.NewFinder(dir)
	projector := canvas.NewProjector()
	projector.BaseRadiusPx = cfg.Map.BaseRadiusPx
	projector.JitterRangePx = cfg.Map.JitterRangePx
	projector.Stable = cfg.Map.StableMarkers
	hub := ws.NewHub()
	registry.OnRemove(hub.EndSession)

	// Handlers
	sessionHandler := handler.NewSessionHandler(&cfg.Session, registry, photos)
	meHandler := handler.NewMeHandler(photos)
	locationHandler := handler.NewLocationHandler()
	nearbyHandler := handler.NewNearbyHandler(finder, photos, &cfg.Location)
	mapHandler := handler.NewMapHandler(finder, projector, photos, &cfg.Map, &cfg.Location)
	userHandler := handler.NewUserHandler(dir, photos)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": registry.Count(),
			"streams":  hub.ClientCount(),
		})
	})

	api := r.Group("/api/v1")
	api.POST("/sessions", sessionHandler.Create)
	api.GET("/users/:id", userHandler.GetUser)

	sess := api.Group("")
	sess.Use(middleware.SessionRequired(&cfg.Session, registry))
	{
		sess.GET("/me/profile", meHandler.GetProfile)
		sess.PATCH("/me/profile", meHandler.UpdateProfile)
		sess.GET("/me/location", locationHandler.GetMyLocation)
		sess.PATCH("/me/location", locationHandler.UpdateLocation)

		sess.GET("/nearby", nearbyHandler.Nearby)
		sess.GET("/nearby.geojson", nearbyHandler.GeoJSON)

		sess.POST("/map/layout", mapHandler.Layout)
		sess.POST("/map/hit", mapHandler.Hit)
		sess.GET("/map.png", mapHandler.Image)
	}

	r.GET("/ws/location", ws.UpgradeLocationWS(&cfg.Session, registry, hub, nearbyHandler.Lookup))

	return r
}
