package router

import (
	"fmt"
	"strings"

	"github.com/restock-next/internal/cache"
	"github.com/restock-next/internal/config"
	"github.com/restock-next/internal/constants"
	adminhandlers "github.com/restock-next/internal/http/handlers/admin"
	publichandlers "github.com/restock-next/internal/http/handlers/public"
	"github.com/restock-next/internal/logger"
	"github.com/restock-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口（只读目录）
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/variants/:id/offers", publicHandler.GetVariantOffers)
		}

		// 后台登录
		apiV1.POST("/admin/login",
			RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")),
			adminHandler.Login)

		// 后台接口（需鉴权）
		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
		{
			admin.GET("/me", adminHandler.Me)

			// 商品
			admin.GET("/products", adminHandler.GetProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			// 规格与变体矩阵
			admin.GET("/products/:id/options", adminHandler.GetOptions)
			admin.POST("/products/:id/options", adminHandler.CreateOption)
			admin.PUT("/options/:id", adminHandler.UpdateOption)
			admin.DELETE("/options/:id", adminHandler.DeleteOption)

			admin.GET("/products/:id/variants", adminHandler.GetVariants)
			admin.POST("/products/:id/variants", adminHandler.CreateVariant)
			admin.PUT("/variants/:id", adminHandler.UpdateVariant)
			admin.DELETE("/variants/:id", adminHandler.DeleteVariant)

			// 特性
			admin.GET("/products/:id/features", adminHandler.GetFeatures)
			admin.POST("/products/:id/features", adminHandler.CreateFeature)
			admin.PUT("/products/:id/features/state", adminHandler.ApplyFeatureState)
			admin.PUT("/features/:id", adminHandler.UpdateFeature)
			admin.DELETE("/features/:id", adminHandler.DeleteFeature)

			// 图片
			admin.GET("/products/:id/images", adminHandler.GetImages)
			admin.POST("/products/:id/images", adminHandler.AddImage)
			admin.PUT("/images/:id", adminHandler.UpdateImage)
			admin.DELETE("/images/:id", adminHandler.RemoveImage)

			// Offer 与孤儿回收
			admin.GET("/offers", adminHandler.GetOffers)
			admin.POST("/offers", adminHandler.CreateOffer)
			admin.GET("/offers/:id", adminHandler.GetOffer)
			admin.PUT("/offers/:id", adminHandler.UpdateOffer)
			admin.DELETE("/offers/:id", adminHandler.DeleteOffer)
			admin.POST("/offers/reconcile", adminHandler.ReconcileOffers)

			// 行情价格批次
			admin.POST("/price-sync", adminHandler.IngestPriceSync)

			// 交付档案
			admin.GET("/delivery-profiles", adminHandler.GetDeliveryProfiles)
			admin.POST("/delivery-profiles", adminHandler.CreateDeliveryProfile)
			admin.PUT("/delivery-profiles/:id", adminHandler.UpdateDeliveryProfile)
			admin.DELETE("/delivery-profiles/:id", adminHandler.DeleteDeliveryProfile)

			// 卖家与行情数据源用户
			admin.GET("/users", adminHandler.GetUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PUT("/users/:id", adminHandler.UpdateUser)
		}
	}

	return r
}
