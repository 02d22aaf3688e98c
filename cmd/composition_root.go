package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	httpin "fooddispatch/internal/adapters/in/http"
	"fooddispatch/internal/adapters/out/geocoding"
	"fooddispatch/internal/adapters/out/postgres"
	"fooddispatch/internal/adapters/out/rabbitmq"
	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/jobs"
	"fooddispatch/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrJWTSecretIsRequired = errors.New("JWT_SECRET is required")

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	geocoder   ports.Geocoder
	registry   *prometheus.Registry
	logger     *slog.Logger

	redis  *redis.Client
	broker *rabbitmq.Connection
}

// NewCompositionRoot connects the optional infrastructure (Redis, RabbitMQ)
// and builds the shared geocoder and unit of work factory. Close releases
// what it opened.
func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	if config.JWTSecret == "" {
		return nil, ErrJWTSecretIsRequired
	}

	c := &CompositionRoot{
		config:   config,
		gormDB:   gormDB,
		registry: prometheus.NewRegistry(),
		logger:   logger,
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var opts []postgres.Option
	if config.RabbitMQURL != "" {
		broker, err := rabbitmq.Dial(ctx, config.RabbitMQURL, config.RabbitMQExchange, logger)
		if err != nil {
			return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
		}
		c.broker = broker
		opts = append(opts, postgres.WithEventPublisher(rabbitmq.NewOrderEventPublisher(broker), logger))
	} else {
		logger.Warn("RABBITMQ_URL is not set, order events will not be published")
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, opts...)

	geocoder, err := geocoding.NewOpenCageGeocoder(
		config.GeocoderAPIKey,
		config.GeocoderBaseURL,
		&http.Client{Timeout: config.GeocoderTimeout},
	)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.geocoder = geocoder

	if config.RedisURL != "" {
		client, redisErr := geocoding.NewRedisClient(ctx, config.RedisURL)
		if redisErr != nil {
			_ = c.Close()
			return nil, fmt.Errorf("connecting to redis: %w", redisErr)
		}
		c.redis = client
		c.geocoder = geocoding.NewCachedGeocoder(geocoder, client, config.GeocoderCacheTTL, logger)
	}

	return c, nil
}

func (c *CompositionRoot) Close() error {
	var errList []error
	if c.broker != nil {
		errList = append(errList, c.broker.Close())
	}
	if c.redis != nil {
		errList = append(errList, c.redis.Close())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() *commands.PlaceOrderCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewPlaceOrderCommandHandler(f, c.geocoder, c.config.EngagementWindow)
	return &h
}

func (c *CompositionRoot) CreateRegisterRestaurantCommandHandler() *commands.RegisterRestaurantCommandHandler {
	var f commands.RestaurantUoWFactory = FuncRestaurantUoWFactory(func() commands.RestaurantUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewRegisterRestaurantCommandHandler(f, c.geocoder)
	return &h
}

func (c *CompositionRoot) CreateEngageOrderCommandHandler() *commands.EngageOrderCommandHandler {
	var f commands.EngagementUoWFactory = FuncEngagementUoWFactory(func() commands.EngagementUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewEngageOrderCommandHandler(f, c.config.EngagementWindow, c.logger)
	return &h
}

func (c *CompositionRoot) CreateReleaseOrderCommandHandler() *commands.ReleaseOrderCommandHandler {
	var f commands.EngagementUoWFactory = FuncEngagementUoWFactory(func() commands.EngagementUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewReleaseOrderCommandHandler(f, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateEngagementJobRunner() *jobs.EngagementJobRunner {
	var f jobs.QueueUoWFactory = FuncQueueUoWFactory(func() jobs.QueueUoW {
		return c.uowFactory.Create()
	})
	return jobs.NewEngagementJobRunner(
		f,
		c.CreateEngageOrderCommandHandler(),
		c.CreateReleaseOrderCommandHandler(),
		jobs.RunnerOptions{
			Schedule:    c.config.JobSchedule,
			BatchSize:   c.config.JobBatchSize,
			MaxAttempts: c.config.JobMaxAttempts,
			Lease:       c.config.JobLease,
			Backoff:     c.config.JobBackoff,
		},
		metrics.NewEngagementJobMetrics(c.registry),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateEngagementJobRunner())
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateRegisterRestaurantCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		metrics.NewDispatchMetrics(c.registry),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	return httpin.NewRouter(c.CreateHTTPServer(), httpin.RouterOptions{
		JWTSecret: []byte(c.config.JWTSecret),
		Gatherer:  c.registry,
		Logger:    c.logger,
	})
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncEngagementUoWFactory func() commands.EngagementUoW

func (f FuncEngagementUoWFactory) Create() commands.EngagementUoW {
	return f()
}

type FuncRestaurantUoWFactory func() commands.RestaurantUoW

func (f FuncRestaurantUoWFactory) Create() commands.RestaurantUoW {
	return f()
}

type FuncQueueUoWFactory func() jobs.QueueUoW

func (f FuncQueueUoWFactory) Create() jobs.QueueUoW {
	return f()
}
