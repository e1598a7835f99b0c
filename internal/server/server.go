package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/policyhub/internal/comparison"
	comparisondomain "github.com/smallbiznis/policyhub/internal/comparison/domain"
	"github.com/smallbiznis/policyhub/internal/config"
	"github.com/smallbiznis/policyhub/internal/groupchoice"
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	"github.com/smallbiznis/policyhub/internal/insurer"
	insurerdomain "github.com/smallbiznis/policyhub/internal/insurer/domain"
	"github.com/smallbiznis/policyhub/internal/observability"
	obsmiddleware "github.com/smallbiznis/policyhub/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/policyhub/internal/observability/metrics"
	obstracing "github.com/smallbiznis/policyhub/internal/observability/tracing"
	"github.com/smallbiznis/policyhub/internal/product"
	productdomain "github.com/smallbiznis/policyhub/internal/product/domain"
	"github.com/smallbiznis/policyhub/internal/providers"
	"github.com/smallbiznis/policyhub/internal/ratelimit"
	"github.com/smallbiznis/policyhub/internal/resolution"
	resolutiondomain "github.com/smallbiznis/policyhub/internal/resolution/domain"
	"github.com/smallbiznis/policyhub/internal/spec"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	"github.com/smallbiznis/policyhub/internal/specgroup"
	specgroupdomain "github.com/smallbiznis/policyhub/internal/specgroup/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	insurer.Module,
	product.Module,
	specgroup.Module,
	spec.Module,
	groupchoice.Module,
	resolution.Module,
	providers.Module,
	comparison.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware(httpMetrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", addr))
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
	engine        *gin.Engine
	cfg           config.Config
	insurerSvc    insurerdomain.Service
	productSvc    productdomain.Service
	specGroupSvc  specgroupdomain.Service
	specSvc       specdomain.Service
	choiceSvc     groupchoicedomain.Service
	resolutionSvc resolutiondomain.Service
	comparisonSvc comparisondomain.Service
	obsMetrics    *obsmetrics.Metrics
	limiter       *ratelimit.CatalogLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	InsurerSvc    insurerdomain.Service
	ProductSvc    productdomain.Service
	SpecGroupSvc  specgroupdomain.Service
	SpecSvc       specdomain.Service
	ChoiceSvc     groupchoicedomain.Service
	ResolutionSvc resolutiondomain.Service
	ComparisonSvc comparisondomain.Service
	ObsMetrics    *obsmetrics.Metrics       `optional:"true"`
	Limiter       *ratelimit.CatalogLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		insurerSvc:    p.InsurerSvc,
		productSvc:    p.ProductSvc,
		specGroupSvc:  p.SpecGroupSvc,
		specSvc:       p.SpecSvc,
		choiceSvc:     p.ChoiceSvc,
		resolutionSvc: p.ResolutionSvc,
		comparisonSvc: p.ComparisonSvc,
		obsMetrics:    p.ObsMetrics,
		limiter:       p.Limiter,
	}
	svc.registerAPIRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Insurers --------
	api.GET("/insurers", s.ListInsurers)
	api.POST("/insurers", s.CreateInsurer)
	api.GET("/insurers/:id", s.GetInsurerByID)
	api.GET("/insurers/:id/products", s.ListProductsByInsurer)

	// -------- Products --------
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.GET("/products/:id/specs", s.GetProductSpecs)
	api.POST("/products/:id/specs/resolve", s.ResolveProductSpecs)

	// -------- Specs --------
	api.GET("/specs", s.ListSpecs)
	api.POST("/specs", s.CreateSpec)
	api.GET("/specs/:id", s.GetSpecByID)
	api.GET("/specs/:id/resolve", s.ResolveSpecValue)

	// -------- Spec Groups --------
	api.GET("/spec_groups", s.ListSpecGroups)
	api.POST("/spec_groups", s.CreateSpecGroup)
	api.GET("/spec_groups/:id", s.GetSpecGroupByID)
	api.GET("/spec_groups/:id/choices", s.ListSpecGroupChoices)

	// -------- Group Choices --------
	api.POST("/spec_group_choices", s.CreateSpecGroupChoice)
	api.GET("/spec_group_choices/:id", s.GetSpecGroupChoiceByID)
	api.GET("/spec_group_choices/:id/values", s.ListSpecGroupChoiceValues)
	api.POST("/spec_group_choice_values", s.CreateSpecGroupChoiceValue)

	// -------- Comparison --------
	api.POST("/compare", s.CatalogRateLimit(), s.CompareProducts)
	api.POST("/compare/export", s.CatalogRateLimit(), s.ExportLock(), s.ExportComparison)
}
