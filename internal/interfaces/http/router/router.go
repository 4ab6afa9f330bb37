package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supplyoffice/backend/internal/infrastructure/auth"
	"github.com/supplyoffice/backend/internal/infrastructure/config"
	"github.com/supplyoffice/backend/internal/infrastructure/logger"
	"github.com/supplyoffice/backend/internal/interfaces/http/handler"
	"github.com/supplyoffice/backend/internal/interfaces/http/middleware"
)

// maxBodyBytes caps request bodies; bulk submissions stay far below this
const maxBodyBytes = 1 << 20

// Handlers bundles the route handlers the router mounts
type Handlers struct {
	System       *handler.SystemHandler
	Inventory    *handler.InventoryHandler
	Request      *handler.RequestHandler
	Release      *handler.ReleaseHandler
	Notification *handler.NotificationHandler
	Events       *handler.EventsHandler
}

// Setup builds the gin engine with the full middleware chain and all
// routes mounted under /api/v1
func Setup(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, handlers *Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = r.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	r.Use(
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.RequestID(),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(),
		middleware.BodyLimit(maxBodyBytes),
	)

	api := r.Group("/api/v1")
	handlers.System.RegisterRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(jwtService))
	adminOnly := middleware.RequireAdmin()

	handlers.Inventory.RegisterRoutes(authed, adminOnly)
	handlers.Request.RegisterRoutes(authed, adminOnly)
	handlers.Release.RegisterRoutes(authed, adminOnly)
	handlers.Notification.RegisterRoutes(authed)
	handlers.Events.RegisterRoutes(authed)

	return r
}
