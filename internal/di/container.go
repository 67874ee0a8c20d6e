package di

import (
	"errors"
	"fmt"

	"github.com/engmhisham/utg-api/cache"
	"github.com/engmhisham/utg-api/config"
	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/models"
	dashboardrepo "github.com/engmhisham/utg-api/database/repo/dashboard"
	mediarepo "github.com/engmhisham/utg-api/database/repo/media"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/auth"
	"github.com/engmhisham/utg-api/internal/blogs"
	"github.com/engmhisham/utg-api/internal/dashboard"
	"github.com/engmhisham/utg-api/internal/content"
	"github.com/engmhisham/utg-api/internal/inbox"
	"github.com/engmhisham/utg-api/internal/media"
	"github.com/engmhisham/utg-api/internal/reconcile"
	"github.com/engmhisham/utg-api/internal/site"
	"github.com/engmhisham/utg-api/internal/users"
	"github.com/engmhisham/utg-api/storage"
	"github.com/engmhisham/utg-api/utils/logger"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config          *config.Config
	databaseFactory *database.Factory
	db              database.Provider
	storage         storage.Provider
	cache           cache.Provider

	Audit      *audit.Service
	Media      *media.Store
	Reconciler *reconcile.Reconciler
	Users      *users.Service
	JWT        *auth.JWTService
	Login      *auth.LoginService

	Blogs        *blogs.Service
	Categories   *content.Service[models.Category]
	Brands       *content.Service[models.Brand]
	Clients      *content.Service[models.Client]
	Testimonials *content.Service[models.Testimonial]
	Team         *content.Service[models.TeamMember]
	Projects     *content.Service[models.Project]
	FAQs         *content.Service[models.FAQ]
	Locations    *content.Service[models.Location]

	Site      *site.Service
	Inbox     *inbox.Service
	Dashboard *dashboard.Service
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// Build 用现成的提供者组装容器，测试和嵌入场景使用
func Build(cfg *config.Config, db database.Provider, store storage.Provider, cp cache.Provider) (*Container, error) {
	c := &Container{config: cfg, db: db, storage: store, cache: cp}
	if err := c.InitServices(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init 初始化全部依赖
func (c *Container) Init() error {
	log := logger.Get()
	log.Info().Msg("Initializing DI container...")

	if err := c.InitDatabase(); err != nil {
		return err
	}
	if err := c.InitStorage(); err != nil {
		return err
	}
	if err := c.InitCache(); err != nil {
		return err
	}
	if err := c.InitServices(); err != nil {
		return err
	}

	log.Info().Msg("DI container initialized successfully")
	return nil
}

// InitDatabase 只初始化数据库，migrate 等命令使用
func (c *Container) InitDatabase() error {
	factory, err := database.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database factory: %w", err)
	}
	c.databaseFactory = factory
	c.db = factory.GetProvider()
	return nil
}

// MigrateDatabase 迁移全部模型
func (c *Container) MigrateDatabase() error {
	if c.databaseFactory != nil {
		return c.databaseFactory.AutoMigrate()
	}
	if c.db == nil {
		return errors.New("database not initialized")
	}
	return database.Migrate(c.db)
}

// InitStorage 初始化存储提供者
func (c *Container) InitStorage() error {
	provider, err := storage.NewFromConfig(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.storage = provider
	return nil
}

// InitCache 初始化缓存提供者
func (c *Container) InitCache() error {
	provider, err := cache.NewFromConfig(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	c.cache = provider
	return nil
}

// InitServices 组装业务服务，需要数据库、存储和缓存已就绪
func (c *Container) InitServices() error {
	if c.db == nil || c.storage == nil || c.cache == nil {
		return errors.New("database, storage and cache must be initialized before services")
	}
	cfg := c.config

	c.Audit = audit.NewService(c.db)
	c.Media = media.NewStore(mediarepo.NewRepository(c.db), c.storage, media.Options{
		APIPrefix:    cfg.APIPrefix,
		UploadPrefix: cfg.UploadURLPrefix,
	})
	c.Reconciler = reconcile.New(c.Media)
	c.Users = users.NewService(c.db, c.Audit)

	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn, cfg.JWTRefreshExpireIn)
	if err != nil {
		return err
	}
	c.JWT = jwtService
	c.Login = auth.NewLoginService(c.Users, jwtService, c.cache, c.Audit)

	deps := content.Deps{DB: c.db, Reconcile: c.Reconciler, Audit: c.Audit}
	c.Blogs = blogs.NewService(deps)
	c.Categories = content.NewCategories(deps)
	c.Brands = content.NewBrands(deps)
	c.Clients = content.NewClients(deps)
	c.Testimonials = content.NewTestimonials(deps)
	c.Team = content.NewTeam(deps)
	c.Projects = content.NewProjects(deps)
	c.FAQs = content.NewFAQs(deps)
	c.Locations = content.NewLocations(deps)

	c.Site = site.NewService(deps, cache.NewLoader(c.cache, cfg.CacheTTL))
	c.Inbox = inbox.NewService(c.db, c.Audit)
	c.Dashboard = dashboard.NewService(dashboardrepo.NewRepository(c.db), c.cache)
	return nil
}

// Config 获取配置
func (c *Container) Config() *config.Config {
	return c.config
}

// DB 获取数据库提供者
func (c *Container) DB() database.Provider {
	return c.db
}

// Storage 获取存储提供者
func (c *Container) Storage() storage.Provider {
	return c.storage
}

// Cache 获取缓存提供者
func (c *Container) Cache() cache.Provider {
	return c.cache
}

// Close 关闭所有服务
func (c *Container) Close() error {
	log := logger.Get()
	log.Info().Msg("Closing DI container...")

	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache provider")
		}
	}

	if c.databaseFactory != nil {
		if err := c.databaseFactory.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database factory")
		}
	}

	log.Info().Msg("DI container closed")
	return nil
}
