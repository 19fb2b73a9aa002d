package provider

import (
	"github.com/restock-next/internal/cache"
	"github.com/restock-next/internal/config"
	"github.com/restock-next/internal/logger"
	"github.com/restock-next/internal/models"
	"github.com/restock-next/internal/queue"
	"github.com/restock-next/internal/repository"
	"github.com/restock-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo           repository.AdminRepository
	UserRepo            repository.UserRepository
	ProductRepo         repository.ProductRepository
	OptionRepo          repository.OptionRepository
	VariantRepo         repository.VariantRepository
	OfferRepo           repository.OfferRepository
	FeatureRepo         repository.FeatureRepository
	ImageRepo           repository.ImageRepository
	DeliveryProfileRepo repository.DeliveryProfileRepository

	// Services
	AuthService            *service.AuthService
	UserService            *service.UserService
	ProductService         *service.ProductService
	OptionService          *service.OptionService
	VariantService         *service.VariantService
	OfferService           *service.OfferService
	FeatureService         *service.FeatureService
	ImageService           *service.ImageService
	DeliveryProfileService *service.DeliveryProfileService
	PriceSyncService       *service.PriceSyncService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OptionRepo = repository.NewOptionRepository(db)
	c.VariantRepo = repository.NewVariantRepository(db)
	c.OfferRepo = repository.NewOfferRepository(db)
	c.FeatureRepo = repository.NewFeatureRepository(db)
	c.ImageRepo = repository.NewImageRepository(db)
	c.DeliveryProfileRepo = repository.NewDeliveryProfileRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserService = service.NewUserService(c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.OptionRepo, c.VariantRepo, c.OfferRepo, c.FeatureRepo, c.ImageRepo)
	c.OptionService = service.NewOptionService(c.ProductRepo, c.OptionRepo, c.VariantRepo, c.OfferRepo, c.ImageRepo)
	c.VariantService = service.NewVariantService(c.ProductRepo, c.OptionRepo, c.VariantRepo, c.OfferRepo, c.ImageRepo)
	c.OfferService = service.NewOfferService(c.OfferRepo, c.VariantRepo, c.ProductRepo, c.OptionRepo, c.DeliveryProfileRepo, c.UserRepo)
	c.FeatureService = service.NewFeatureService(c.ProductRepo, c.FeatureRepo)
	c.ImageService = service.NewImageService(c.ProductRepo, c.VariantRepo, c.ImageRepo)
	c.DeliveryProfileService = service.NewDeliveryProfileService(c.DeliveryProfileRepo)
	c.PriceSyncService = service.NewPriceSyncService(c.Config.PriceSync, c.OfferService, c.UserService, c.ProductRepo, c.VariantRepo)
}
