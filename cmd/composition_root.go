package cmd

import (
	"log/slog"

	resthttp "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/in/ws"
	"fulfillment/internal/adapters/out/authjwt"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/redisbus"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/jobs"
	"fulfillment/internal/realtime"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	catalog    *catalogrepo.GormCatalogRepository
	registry   *realtime.Registry
	transport  realtime.Transport
	dispatcher *realtime.Dispatcher
	verifier   *authjwt.Verifier
	redisRelay *redisbus.Transport
	logger     *slog.Logger
}

// NewCompositionRoot wires the adapters around the application core.
// With a Redis URL configured the broadcast transport relays through
// Redis pub/sub so rooms span instances; without one it stays in-process.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	registry := realtime.NewRegistry()

	var transport realtime.Transport
	var redisRelay *redisbus.Transport
	if config.RedisURL != "" {
		opts, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			panic(err)
		}
		redisRelay = redisbus.NewTransport(redis.NewClient(opts), registry, logger)
		transport = redisRelay
	} else {
		transport = realtime.NewLocalTransport(registry)
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    catalogrepo.NewGormCatalogRepository(gormDB),
		registry:   registry,
		transport:  transport,
		dispatcher: realtime.NewDispatcher(transport, logger),
		verifier:   authjwt.NewVerifier([]byte(config.JWTSecret)),
		redisRelay: redisRelay,
		logger:     logger,
	}
}

// RedisRelay returns the Redis relay when one is configured, nil otherwise.
// The caller runs it alongside the web server and closes it on shutdown.
func (c *CompositionRoot) RedisRelay() *redisbus.Transport {
	return c.redisRelay
}

func (c *CompositionRoot) CreateAddCartItemCommandHandler() commands.AddCartItemCommandHandler {
	var f commands.CartUoWFactory = FuncCartUoWFactory(func() commands.CartUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAddCartItemCommandHandler(f, c.catalog)
}

func (c *CompositionRoot) CreateRemoveCartItemCommandHandler() commands.RemoveCartItemCommandHandler {
	var f commands.CartUoWFactory = FuncCartUoWFactory(func() commands.CartUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRemoveCartItemCommandHandler(f)
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCheckoutCommandHandler(f, c.catalog, c.catalog)
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewClaimOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateGetCartQueryHandler() queries.GetCartQueryHandler {
	return queries.NewGetCartQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPartnerOrdersQueryHandler() queries.GetPartnerOrdersQueryHandler {
	return queries.NewGetPartnerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateWebsocketGateway() *ws.Gateway {
	return ws.NewGateway(
		c.verifier,
		c.registry,
		c.dispatcher,
		c.CreateAddCartItemCommandHandler(),
		c.CreateRemoveCartItemCommandHandler(),
		c.CreateCheckoutCommandHandler(),
		c.CreateClaimOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateGetCartQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPServer() *resthttp.Server {
	return resthttp.NewServer(
		c.verifier,
		c.CreateGetCustomerOrdersQueryHandler(),
		c.CreateGetPartnerOrdersQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetPendingOrdersQueryHandler(),
		c.dispatcher,
		c.logger,
	)
}

type FuncCartUoWFactory func() commands.CartUoW

func (f FuncCartUoWFactory) Create() commands.CartUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
