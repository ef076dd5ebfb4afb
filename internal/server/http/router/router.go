package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/server/http/handlers"
	"github.com/callenovena/comanda/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ComandaFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	// The SSE stream must not pass through gzip buffering.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/events"})))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	eventsHandler := handlers.NewEventsHandler(facade)
	menuHandler := handlers.NewMenuHandler(facade)

	api := engine.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.GET("/events", eventsHandler.Stream)
	api.GET("/menu", menuHandler.List)

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("/:id", orderHandler.Get)

	staff := orders.Group("")
	staff.Use(middleware.RoleRequired(facade, model.RoleWaiter, model.RoleKitchen))
	staff.GET("", orderHandler.List)
	staff.GET("/pending-waiter", orderHandler.PendingWaiter)
	staff.GET("/in-kitchen", orderHandler.InKitchen)
	staff.GET("/ready", orderHandler.Ready)

	waiter := orders.Group("")
	waiter.Use(middleware.RoleRequired(facade, model.RoleWaiter))
	waiter.POST("/:id/send-to-kitchen", orderHandler.SendToKitchen)
	waiter.POST("/:id/mark-delivered", orderHandler.MarkDelivered)
	waiter.POST("/:id/cancel", orderHandler.Cancel)

	kitchen := orders.Group("")
	kitchen.Use(middleware.RoleRequired(facade, model.RoleKitchen))
	kitchen.POST("/:id/mark-ready", orderHandler.MarkReady)

	return engine
}
