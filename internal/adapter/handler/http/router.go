package http

import (
	"net/http"

	"github.com/MikeRez0/cropmart/internal/adapter/config"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

// Handlers groups the endpoints mounted by NewRouter. Tokens and Gatherer
// are optional.
type Handlers struct {
	Orders        *OrderHandler
	Prices        *PriceHandler
	Notifications *NotificationHandler
	Realtime      *RealtimeHandler
	Tokens        *TokenHandler
	Gatherer      prometheus.Gatherer
}

func NewRouter(
	conf *config.HTTP,
	logger *zap.Logger,
	observer RequestObserver,
	tokenService port.TokenService,
	h Handlers) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery(), requestLog(logger, observer))
	if c, ok := corsConfig(conf.AllowedOrigins); ok {
		router.Use(cors.New(c))
	}

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		if h.Tokens != nil {
			api.POST("/auth/token", h.Tokens.IssueToken)
		}

		// the realtime channel authenticates with its first message
		api.GET("/realtime", h.Realtime.Connect)

		authed := api.Group("")
		authed.Use(authCheck(tokenService))

		orders := authed.Group("/orders")
		{
			orders.POST("", requireRole(domain.RoleBuyer), h.Orders.CreateOrder)
			orders.GET("", h.Orders.ListOrders)
			orders.GET("/:id", h.Orders.GetOrder)
			orders.POST("/:id/transitions", h.Orders.Transition)
		}

		prices := authed.Group("/prices")
		{
			prices.POST("/samples", requireRole(domain.RoleFarmer, domain.RoleAdmin), h.Prices.IngestSample)
			prices.GET("/:crop/aggregates", h.Prices.ListAggregates)
			prices.GET("/:crop/aggregate", h.Prices.GetAggregate)
			prices.GET("/:crop/history", h.Prices.History)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", h.Notifications.ListNotifications)
			notifications.POST("/read", h.Notifications.MarkAllRead)
			notifications.POST("/:id/read", h.Notifications.MarkRead)
			notifications.DELETE("", h.Notifications.ClearNotifications)
		}

		alerts := authed.Group("/alerts")
		{
			alerts.GET("", h.Notifications.ListAlerts)
			alerts.POST("", h.Notifications.CreateAlert)
			alerts.DELETE("/:id", h.Notifications.DeleteAlert)
		}

		admin := authed.Group("/admin")
		{
			admin.Use(requireRole(domain.RoleAdmin))
			admin.POST("/prices/reseed", h.Prices.Reseed)
			admin.GET("/prices/:crop/recompute", h.Prices.Recompute)
			admin.GET("/realtime/stats", h.Realtime.Stats)
		}
	}

	return &Router{router}, nil
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c, true
}
