package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/broker"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/rediscache"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns the process-wide dependencies and builds use cases
// from them.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	engine     *services.LifecycleEngine
	logger     *slog.Logger

	redis       *redis.Client
	statusCache ports.OrderStatusCache
	statusQuery *queries.GetOrderStatusQueryHandler
	publisher   ports.EventPublisher
	closers     []func() error
}

// NewCompositionRoot validates the capability table and builds the
// lifecycle engine. Broker and cache connections are opened lazily.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	policy, err := services.NewAccessPolicy(services.DefaultCapabilities())
	if err != nil {
		return nil, fmt.Errorf("invalid capability table: %w", err)
	}
	engine, err := services.NewLifecycleEngine(policy)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		engine:     engine,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.PlaceOrderUoWFactory = FuncPlaceOrderUoWFactory(func() commands.PlaceOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.engine)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.lifecycleUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateInitiateReturnCommandHandler() commands.InitiateReturnCommandHandler {
	return commands.NewInitiateReturnCommandHandler(c.lifecycleUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateAdvanceReturnCommandHandler() commands.AdvanceReturnCommandHandler {
	return commands.NewAdvanceReturnCommandHandler(c.lifecycleUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateSeedCatalogueCommandHandler() commands.SeedCatalogueCommandHandler {
	var f commands.CatalogueUoWFactory = FuncCatalogueUoWFactory(func() commands.CatalogueUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSeedCatalogueCommandHandler(f)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() (commands.RelayOutboxCommandHandler, error) {
	publisher, err := c.EventPublisher()
	if err != nil {
		return commands.RelayOutboxCommandHandler{}, err
	}
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOutboxCommandHandler(f, publisher, c.OrderStatusCache()), nil
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetShipmentQueryHandler() queries.GetShipmentQueryHandler {
	return queries.NewGetShipmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListWarehousesQueryHandler() queries.ListWarehousesQueryHandler {
	return queries.NewListWarehousesQueryHandler(c.gormDB)
}

// CreateGetOrderStatusQueryHandler returns a shared handler so that
// concurrent requests share its singleflight group.
func (c *CompositionRoot) CreateGetOrderStatusQueryHandler() *queries.GetOrderStatusQueryHandler {
	if c.statusQuery == nil {
		c.statusQuery = queries.NewGetOrderStatusQueryHandler(
			queries.NewGormStatusLoader(c.gormDB),
			c.OrderStatusCache(),
			c.logger,
		)
	}
	return c.statusQuery
}

func (c *CompositionRoot) OrderStatusCache() ports.OrderStatusCache {
	if c.statusCache == nil {
		c.redis = rediscache.NewClient(c.config.RedisAddr)
		c.closers = append(c.closers, c.redis.Close)
		c.statusCache = rediscache.NewOrderStatusCache(c.redis, c.config.StatusCacheTTL)
	}
	return c.statusCache
}

// EventPublisher connects to the configured broker on first use.
func (c *CompositionRoot) EventPublisher() (ports.EventPublisher, error) {
	if c.publisher != nil {
		return c.publisher, nil
	}

	switch c.config.Broker {
	case BrokerRabbitMQ:
		conn, ch, err := broker.DialRabbitMQ(c.config.RabbitMQURL, c.config.RabbitMQExchange, c.logger)
		if err != nil {
			return nil, err
		}
		publisher := broker.NewRabbitMQPublisher(ch, c.config.RabbitMQExchange, c.logger)
		c.closers = append(c.closers, publisher.Close, conn.Close)
		c.publisher = publisher
	default:
		writer := broker.NewKafkaWriter(c.config.KafkaBrokerList(), c.config.KafkaTopic)
		publisher := broker.NewKafkaPublisher(writer, c.logger)
		c.closers = append(c.closers, publisher.Close)
		c.publisher = publisher
	}
	return c.publisher, nil
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	handler, err := c.CreateRelayOutboxCommandHandler()
	if err != nil {
		return nil, err
	}
	cmd, err := commands.NewRelayOutboxCommand(c.config.RelayBatchSize)
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(jobs.NewOutboxRelayJob(handler, cmd, c.config.RelaySchedule, c.logger)), nil
}

func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(http.Handlers{
		PlaceOrder:      c.CreatePlaceOrderCommandHandler(),
		TransitionOrder: c.CreateTransitionOrderCommandHandler(),
		InitiateReturn:  c.CreateInitiateReturnCommandHandler(),
		AdvanceReturn:   c.CreateAdvanceReturnCommandHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		ListOrders:      c.CreateListOrdersQueryHandler(),
		GetOrderStatus:  c.CreateGetOrderStatusQueryHandler(),
		GetShipment:     c.CreateGetShipmentQueryHandler(),
		ListWarehouses:  c.CreateListWarehousesQueryHandler(),
	}, c.logger)
}

// Close releases broker and cache connections in reverse order of opening.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

func (c *CompositionRoot) lifecycleUoWFactory() commands.LifecycleUoWFactory {
	return FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
}

type FuncPlaceOrderUoWFactory func() commands.PlaceOrderUoW

func (f FuncPlaceOrderUoWFactory) Create() commands.PlaceOrderUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncCatalogueUoWFactory func() commands.CatalogueUoW

func (f FuncCatalogueUoWFactory) Create() commands.CatalogueUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
