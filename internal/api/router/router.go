package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/country-posts/config"
	_ "github.com/d60-Lab/country-posts/docs"
	"github.com/d60-Lab/country-posts/internal/api/handler"
	"github.com/d60-Lab/country-posts/internal/api/middleware"
)

func New(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		middleware.CORS(cfg.Server.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst),
	)

	r.GET("/healthz", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/users", h.ListDefaultCountryPosts)
		v1.GET("/countries/:id/posts", h.ListCountryPosts)
	}
	return r
}
