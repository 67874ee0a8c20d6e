package core

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/engmhisham/utg-api/api/common"
	handlerAudit "github.com/engmhisham/utg-api/api/handler/audit"
	handlerAuth "github.com/engmhisham/utg-api/api/handler/auth"
	handlerBlogs "github.com/engmhisham/utg-api/api/handler/blogs"
	handlerContent "github.com/engmhisham/utg-api/api/handler/content"
	handlerDashboard "github.com/engmhisham/utg-api/api/handler/dashboard"
	handlerInbox "github.com/engmhisham/utg-api/api/handler/inbox"
	handlerMedia "github.com/engmhisham/utg-api/api/handler/media"
	handlerSite "github.com/engmhisham/utg-api/api/handler/site"
	handlerUsers "github.com/engmhisham/utg-api/api/handler/users"
	"github.com/engmhisham/utg-api/api/middleware"
	"github.com/engmhisham/utg-api/config"
	"github.com/engmhisham/utg-api/docs"
	"github.com/engmhisham/utg-api/internal/di"
	"github.com/engmhisham/utg-api/utils/logger"
	"github.com/engmhisham/utg-api/utils/validator"
)

const maxConcurrentRequests = 100

// NewRouter 组装 gin 引擎，返回的 cleanup 用于停止限流器的后台清理
func NewRouter(c *di.Container) (*gin.Engine, func()) {
	cfg := c.Config()
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Setup()

	router := gin.New()
	_ = router.SetTrustedProxies(nil)

	router.Use(middleware.RequestContext())
	router.Use(middleware.AccessLog(logger.Named("http")))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
		router.Use(metrics.Middleware())
	}

	// 并发限制，避免上传把内存打满
	router.Use(middleware.NewConcurrencyLimiter(maxConcurrentRequests).Middleware())

	// 请求体上限：单文件上限再留 1MB 给表单字段
	maxSize := cfg.UploadMaxSizeMB
	if maxSize <= 0 {
		maxSize = 20
	}
	router.Use(middleware.MaxBodySize(int64(maxSize+1) << 20))

	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	publicRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitPublicRPS, cfg.RateLimitPublicBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
		publicRateLimiter.StopCleanup()
	}

	registerBasicRoutes(router, c, metrics)

	mediaHandler := handlerMedia.NewHandler(c.Media, cfg.UploadTempDir, cfg.UploadMaxSizeMB)
	router.GET("/"+cfg.UploadURLPrefix+"/*path", mediaHandler.Serve)

	apiGroup := router.Group("/" + cfg.APIPrefix)
	apiGroup.Use(func(ctx *gin.Context) { // 所有API禁止缓存
		ctx.Header("Cache-Control", "no-store")
		ctx.Next()
	})
	{
		authHandler := handlerAuth.NewHandler(c.Login)
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(authRateLimiter.Middleware())
		{
			authGroup.POST("/login", authHandler.Login)     // POST /api/auth/login
			authGroup.POST("/refresh", authHandler.Refresh) // POST /api/auth/refresh
			authGroup.POST("/logout", middleware.OptionalAuth(c.JWT), authHandler.Logout)
			authGroup.GET("/me", middleware.Auth(c.JWT), authHandler.Me)
		}

		v := apiGroup.Group("")
		v.Use(apiRateLimiter.Middleware())
		v.Use(middleware.OptionalAuth(c.JWT))

		registerContentRoutes(v, c)
		registerMediaRoutes(v, mediaHandler)
		registerSiteRoutes(v, handlerSite.NewHandler(c.Site))
		registerInboxRoutes(v, handlerInbox.NewHandler(c.Inbox), publicRateLimiter)

		usersHandler := handlerUsers.NewHandler(c.Users)
		usersGroup := v.Group("/users", middleware.AdminOnly())
		{
			usersGroup.GET("", usersHandler.List)
			usersGroup.POST("", usersHandler.Create)
			usersGroup.GET("/:id", usersHandler.Get)
			usersGroup.PATCH("/:id", usersHandler.Update)
			usersGroup.DELETE("/:id", usersHandler.Delete)
		}

		dashboardHandler := handlerDashboard.NewHandler(c.Dashboard)
		v.GET("/dashboard/stats", middleware.Staff(), dashboardHandler.GetStats)
		v.POST("/dashboard/stats/refresh", middleware.AdminOnly(), dashboardHandler.RefreshStats)

		auditHandler := handlerAudit.NewHandler(c.Audit)
		auditGroup := v.Group("/audit-logs", middleware.AdminOnly())
		{
			auditGroup.GET("", auditHandler.List)
			auditGroup.GET("/:id", auditHandler.Get)
		}
	}

	return router, cleanup
}

func corsConfig(cfg *config.Config) cors.Config {
	origins := cfg.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{cfg.BaseURL()}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// registerBasicRoutes 注册健康检查、版本、指标和文档
func registerBasicRoutes(router *gin.Engine, c *di.Container, metrics *middleware.Metrics) {
	healthHandler := NewHealthHandler(c.DB(), c.Storage(), c.Cache())
	router.GET("/health", healthHandler.Handle)

	router.GET("/version", func(ctx *gin.Context) {
		common.RespondSuccess(ctx, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	if metrics != nil {
		router.GET("/metrics", metrics.Handler())
	}

	if c.Config().SwaggerEnabled {
		docs.SwaggerInfo.BasePath = "/" + c.Config().APIPrefix
		docs.SwaggerInfo.Version = config.Version
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// registerContentRoutes 注册全部内容模块
func registerContentRoutes(v *gin.RouterGroup, c *di.Container) {
	blogs := contentGroup(v, "/blogs", handlerContent.NewHandler(c.Blogs.Service), false)
	blogHandler := handlerBlogs.NewHandler(c.Blogs)
	blogs.GET("/slug/:slug", blogHandler.GetBySlug)
	blogs.GET("/:id/translations/:lang", blogHandler.GetTranslation)
	blogs.PUT("/:id/translations/:lang", middleware.Staff(), blogHandler.UpdateTranslation)

	contentGroup(v, "/categories", handlerContent.NewHandler(c.Categories), true)
	contentGroup(v, "/brands", handlerContent.NewHandler(c.Brands), false)
	contentGroup(v, "/clients", handlerContent.NewHandler(c.Clients), false)
	contentGroup(v, "/testimonials", handlerContent.NewHandler(c.Testimonials), false)
	contentGroup(v, "/team", handlerContent.NewHandler(c.Team), false)
	contentGroup(v, "/projects", handlerContent.NewHandler(c.Projects), false)
	contentGroup(v, "/faqs", handlerContent.NewHandler(c.FAQs), false)
	contentGroup(v, "/locations", handlerContent.NewHandler(c.Locations), true)
}

// contentGroup 内容模块的通用路由：公开读取，员工写入，管理员删除和批量操作
func contentGroup[T any](v *gin.RouterGroup, path string, h *handlerContent.Handler[T], withSlug bool) *gin.RouterGroup {
	g := v.Group(path)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	if withSlug {
		g.GET("/slug/:slug", h.GetBySlug)
	}

	staff := g.Group("", middleware.Staff())
	staff.POST("", h.Create)
	staff.PATCH("/:id", h.Update)

	admin := g.Group("", middleware.AdminOnly())
	admin.PATCH("/:id/status", h.UpdateStatus)
	admin.DELETE("/:id", h.Delete)
	admin.PUT("/reorder", h.Reorder)
	admin.POST("/bulk", h.Bulk)
	return g
}

func registerMediaRoutes(v *gin.RouterGroup, h *handlerMedia.Handler) {
	g := v.Group("/media")

	staff := g.Group("", middleware.Staff())
	{
		staff.GET("", h.List)
		staff.POST("", h.Upload)
		staff.GET("/:id", h.Get)
		staff.PATCH("/:id", h.Update)
		staff.POST("/:id/usage", h.AddUsage)
		staff.DELETE("/:id/usage", h.RemoveUsage)
	}

	admin := g.Group("", middleware.AdminOnly())
	{
		admin.DELETE("/:id", h.Delete)
		admin.POST("/remove-by-url", h.DeleteByURL)
		admin.POST("/sweep", h.Sweep)
	}
}

func registerSiteRoutes(v *gin.RouterGroup, h *handlerSite.Handler) {
	settings := v.Group("/settings")
	settings.GET("", h.Settings)
	settings.GET("/:key", h.Setting)
	settings.PUT("", middleware.AdminOnly(), h.UpsertSettings)
	settings.DELETE("/:key", middleware.AdminOnly(), h.DeleteSetting)

	seo := v.Group("/seo")
	seo.GET("/general", h.SEOGeneral)
	seo.PUT("/general", middleware.AdminOnly(), h.UpdateSEOGeneral)
	seo.GET("/pages/:page", h.PageSEO)

	pages := seo.Group("/pages", middleware.AdminOnly())
	pages.GET("", h.ListPages)
	pages.POST("", h.CreatePage)
	pages.PATCH("/:id", h.UpdatePage)
	pages.DELETE("/:id", h.DeletePage)
}

func registerInboxRoutes(v *gin.RouterGroup, h *handlerInbox.Handler, limiter *middleware.IPRateLimiter) {
	contact := v.Group("/contact")
	contact.POST("", limiter.Middleware(), h.Submit)
	contactAdmin := contact.Group("", middleware.AdminOnly())
	{
		contactAdmin.GET("", h.ListMessages)
		contactAdmin.GET("/:id", h.GetMessage)
		contactAdmin.PATCH("/:id/status", h.SetMessageStatus)
		contactAdmin.DELETE("/:id", h.DeleteMessage)
	}

	subs := v.Group("/subscriptions")
	subs.POST("", limiter.Middleware(), h.Subscribe)
	subs.POST("/unsubscribe", limiter.Middleware(), h.Unsubscribe)
	subsAdmin := subs.Group("", middleware.AdminOnly())
	{
		subsAdmin.GET("", h.ListSubscriptions)
		subsAdmin.DELETE("/:id", h.DeleteSubscription)
	}
}
