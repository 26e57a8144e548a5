package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/teleretail/salespoint/internal/broadband"
	"github.com/teleretail/salespoint/internal/cache"
	"github.com/teleretail/salespoint/internal/chainmetrics"
	"github.com/teleretail/salespoint/internal/config"
	"github.com/teleretail/salespoint/internal/contractcode"
	"github.com/teleretail/salespoint/internal/contractgen"
	contractgendomain "github.com/teleretail/salespoint/internal/contractgen/domain"
	"github.com/teleretail/salespoint/internal/mobiledeal"
	mobiledealdomain "github.com/teleretail/salespoint/internal/mobiledeal/domain"
	"github.com/teleretail/salespoint/internal/observability"
	obsmiddleware "github.com/teleretail/salespoint/internal/observability/logger"
	obsmetrics "github.com/teleretail/salespoint/internal/observability/metrics"
	obstracing "github.com/teleretail/salespoint/internal/observability/tracing"
	"github.com/teleretail/salespoint/internal/operator"
	"github.com/teleretail/salespoint/internal/order"
	orderdomain "github.com/teleretail/salespoint/internal/order/domain"
	"github.com/teleretail/salespoint/internal/phone"
	phonedomain "github.com/teleretail/salespoint/internal/phone/domain"
	"github.com/teleretail/salespoint/internal/ratelimit"
	"github.com/teleretail/salespoint/internal/related"
	"github.com/teleretail/salespoint/internal/spotdeal"
	"github.com/teleretail/salespoint/internal/subscription"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	"github.com/teleretail/salespoint/internal/subsidy"
	"github.com/teleretail/salespoint/internal/tvpackage"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	chainmetrics.Module,
	fx.Provide(registerGin),
	operator.Module,
	subscription.Module,
	related.Module,
	phone.Module,
	contractcode.Module,
	subsidy.Module,
	spotdeal.Module,
	broadband.Module,
	tvpackage.Module,
	contractgen.Module,
	mobiledeal.Module,
	order.Module,
	ratelimit.Module,
	cache.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CorrelationMiddleware())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	subscriptionSvc subscriptiondomain.Service
	dealSvc         mobiledealdomain.Service
	codeSvc         contractgendomain.Service
	orderSvc        orderdomain.Service
	phoneRepo       phonedomain.Repository
	dealsLimiter    *ratelimit.DealsLimiter
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	SubscriptionSvc subscriptiondomain.Service
	DealSvc         mobiledealdomain.Service
	CodeSvc         contractgendomain.Service
	OrderSvc        orderdomain.Service
	PhoneRepo       phonedomain.Repository
	DealsLimiter    *ratelimit.DealsLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		subscriptionSvc: p.SubscriptionSvc,
		dealSvc:         p.DealSvc,
		codeSvc:         p.CodeSvc,
		orderSvc:        p.OrderSvc,
		phoneRepo:       p.PhoneRepo,
		dealsLimiter:    p.DealsLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.GET("/subscriptions", s.ListSubscriptions)
	v1.GET("/subscriptions/:id", s.GetSubscription)
	v1.PATCH("/subscriptions/:id", s.UpdateSubscriptionPricing)

	v1.GET("/phones", s.ListPhones)
	v1.GET("/phones/:id", s.GetPhone)
	v1.GET("/phones/:id/deals", s.GetPhoneDeals)

	v1.POST("/contract-codes/preview", s.PreviewContractCodes)

	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/:id", s.GetOrder)
	v1.GET("/orders/:id/code-sheet.pdf", s.GetOrderCodeSheet)
}
