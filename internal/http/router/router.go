package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kontribute/kontribute-backend/internal/config"
	"github.com/kontribute/kontribute-backend/internal/http/handlers"
	"github.com/kontribute/kontribute-backend/internal/http/middleware"
	"github.com/kontribute/kontribute-backend/internal/http/response"
	"github.com/kontribute/kontribute-backend/internal/metrics"
	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Collection   *handlers.CollectionHandler
	Contribution *handlers.ContributionHandler
	Withdrawal   *handlers.WithdrawalHandler
	Webhook      *handlers.WebhookHandler
	Health       *handlers.HealthHandler
	WS           *handlers.WSHandler
}

func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Every route is registered with and without its trailing slash.
	r.RedirectTrailingSlash = false
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.HTTPMetrics())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.Failed(c, http.StatusNotFound, apperror.ErrCodeNotFound, "Resource not found", nil)
	})

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	collections := r.Group("/collections")
	{
		handle(collections, http.MethodPost, "/", h.Collection.Create)
		handle(collections, http.MethodGet, "/:slug/", h.Collection.Get)
		handle(collections, http.MethodPatch, "/:slug/bank-details/", h.Collection.UpdateBankDetails)
		handle(collections, http.MethodGet, "/:slug/dashboard/", h.Collection.Dashboard)
		collections.GET("/:slug/dashboard/ws", h.WS.Handle)

		contributeLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		handle(collections, http.MethodPost, "/:slug/contribute/", contributeLimit, h.Contribution.Contribute)
		handle(collections, http.MethodPost, "/:slug/confirm-payment/", h.Contribution.ConfirmPayment)
		handle(collections, http.MethodPost, "/:slug/contributors/:id/proof/", middleware.UUIDValidator("id"), h.Contribution.UploadProof)
		handle(collections, http.MethodPost, "/:slug/remind/", h.Contribution.Remind)
		handle(collections, http.MethodPost, "/:slug/withdraw/", h.Withdrawal.Withdraw)
	}

	handle(r.Group("/webhooks"), http.MethodPost, "/paystack/", h.Webhook.Paystack)
	handle(r.Group("/receipts"), http.MethodGet, "/:contributor_id/", h.Contribution.Receipt)

	return r
}

// handle registers path and, when it ends in a slash, the same path without it.
func handle(g *gin.RouterGroup, method, path string, chain ...gin.HandlerFunc) {
	g.Handle(method, path, chain...)
	if trimmed := strings.TrimSuffix(path, "/"); trimmed != path {
		g.Handle(method, trimmed, chain...)
	}
}
