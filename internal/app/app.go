package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/niksmo/kvshop/config"
	"github.com/niksmo/kvshop/internal/adapter"
	"github.com/niksmo/kvshop/internal/adapter/httphandler"
	"github.com/niksmo/kvshop/internal/adapter/kafka"
	"github.com/niksmo/kvshop/internal/adapter/storage"
	"github.com/niksmo/kvshop/internal/core/port"
	"github.com/niksmo/kvshop/internal/core/service"
	"github.com/niksmo/kvshop/internal/core/store"
	"github.com/niksmo/kvshop/pkg/retry"
	"github.com/niksmo/kvshop/pkg/schema"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/sr"
)

const (
	connectAttempts = 5
	connectDelay    = 200 * time.Millisecond
)

type events struct {
	producer port.OrdersProducer
	emitter  port.OrderStatusEmitter
}

type coreService struct {
	carts    service.CartService
	sessions service.SessionService
	catalog  service.CatalogService
	orders   service.OrderService
	users    service.UserService
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	backend    port.KVBackend
	store      *store.Adapter
	events     events
	closers    []func()
	service    coreService
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initEvents()
	app.initCoreService()
	app.seed()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	backend, err := app.openBackend()
	if err != nil {
		app.fallDown(op, err)
	}
	app.backend = backend

	if limit := app.cfg.Storage.QuotaBytes; limit > 0 {
		backend = storage.NewQuota(backend, limit)
	}
	app.store = store.New(backend, store.NamespaceOpt(app.cfg.Storage.Namespace))

	if !app.store.IsAvailable(app.ctx) {
		slog.Warn("storage is not writable, shop runs on defaults", "op", op)
	}
}

func (app *App) openBackend() (port.KVBackend, error) {
	cfg := app.cfg.Storage
	retryCfg := retry.RetryConfig{
		MaxAttempts: connectAttempts,
		Backoff:     retry.ExponentialBackoff(connectDelay),
	}

	switch cfg.Driver {
	case config.DriverMemory:
		return storage.NewMemory(), nil
	case config.DriverLevelDB:
		return storage.OpenLevelDB(cfg.LevelDBPath)
	case config.DriverPostgres:
		return retry.DoWithResult(app.ctx, retryCfg, func() (port.KVBackend, error) {
			return storage.OpenPostgres(app.ctx, cfg.PostgresDSN)
		})
	case config.DriverRedis:
		return retry.DoWithResult(app.ctx, retryCfg, func() (port.KVBackend, error) {
			return storage.OpenRedis(app.ctx, &redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
		})
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func (app *App) initEvents() {
	const op = "App.initEvents"
	log := slog.With("op", op)

	app.events = events{kafka.Disabled{}, kafka.Disabled{}}

	broker := app.cfg.Broker
	if !broker.Enabled() {
		log.Info("brokers are not configured, order events are disabled")
		return
	}

	var tlsConfig *tls.Config
	if broker.TLS.Enabled() {
		c, err := adapter.LoadTLSConfig(broker.TLS.CA, broker.TLS.Cert, broker.TLS.Key)
		if err != nil {
			app.fallDown(op, err)
		}
		tlsConfig = c
	}

	emitter, err := kafka.NewOrderStatusEmitter(kafka.OrderStatusEmitterConfig{
		SeedBrokers: broker.SeedBrokers,
		Topic:       broker.Topics.OrderStatus,
		TLSConfig:   tlsConfig,
	})
	if err != nil {
		app.fallDown(op, err)
	}
	app.events.emitter = emitter
	app.closers = append(app.closers, emitter.Close)

	if len(broker.SchemaRegistryURLs) == 0 {
		log.Warn("schema registry is not configured, placed orders are not published")
		return
	}

	srClient, err := sr.NewClient(sr.URLs(broker.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	orderSerde, err := schema.NewSerdeOrderV1(
		app.ctx,
		schema.SubjectOpt(broker.Topics.Orders+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(app.ctx, broker.SeedBrokers, broker.Topics.Orders, tlsConfig),
		kafka.ProducerEncoderOpt(orderSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.events.producer = producer
	app.closers = append(app.closers, producer.Close)
}

func (app *App) initCoreService() {
	carts := service.NewCartService(app.store)
	app.service = coreService{
		carts:    carts,
		sessions: service.NewSessionService(app.store, carts),
		catalog:  service.NewCatalogService(app.store),
		orders: service.NewOrderService(
			app.store, app.events.producer, app.events.emitter,
		),
		users: service.NewUserService(app.store),
	}
}

func (app *App) seed() {
	const op = "App.seed"
	log := slog.With("op", op)

	if app.cfg.Seed.Catalog {
		ps, err := service.DefaultCatalog()
		if err != nil {
			app.fallDown(op, err)
		}
		if err := app.service.catalog.Seed(app.ctx, ps); err != nil {
			log.Warn("catalog is not seeded", "err", err)
		}
	}

	err := app.service.users.SeedAdmin(app.ctx, app.cfg.Seed.AdminName, app.cfg.Seed.AdminEmail)
	if err != nil {
		log.Warn("admin user is not seeded", "err", err)
	}
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	s := app.service
	httphandler.RegisterSession(mux, s.sessions, s.carts)
	httphandler.RegisterCart(mux, s.carts)
	httphandler.RegisterProducts(mux, s.catalog, s.sessions)
	httphandler.RegisterOrders(mux, s.orders, s.sessions)
	httphandler.RegisterUsers(mux, s.users, s.sessions)
	httphandler.RegisterStorage(mux, app.store, s.sessions)

	handler := httphandler.Serialize(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running", "addr", app.cfg.HTTPServerAddr)
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	for _, closeFn := range app.closers {
		closeFn()
	}
	if err := app.backend.Close(); err != nil {
		slog.Error("failed to close storage", "err", err)
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
