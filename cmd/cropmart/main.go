package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/MikeRez0/cropmart/docs"
	"github.com/MikeRez0/cropmart/internal/adapter/auth"
	"github.com/MikeRez0/cropmart/internal/adapter/bus"
	"github.com/MikeRez0/cropmart/internal/adapter/client/pricefeed"
	"github.com/MikeRez0/cropmart/internal/adapter/config"
	"github.com/MikeRez0/cropmart/internal/adapter/handler/http"
	"github.com/MikeRez0/cropmart/internal/adapter/logger"
	"github.com/MikeRez0/cropmart/internal/adapter/metrics"
	"github.com/MikeRez0/cropmart/internal/adapter/realtime"
	"github.com/MikeRez0/cropmart/internal/adapter/storage"
	"github.com/MikeRez0/cropmart/internal/adapter/storage/memory"
	"github.com/MikeRez0/cropmart/internal/adapter/storage/repository"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/MikeRez0/cropmart/internal/core/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// stores is the set of repositories the services run on.
type stores struct {
	orders        port.OrderRepository
	samples       port.PriceSampleStore
	aggregates    port.AggregateRepository
	notifications port.NotificationRepository
	alerts        port.AlertRepository
}

// @title						cropmart API
// @version					1.0
// @description				Orders, crop price aggregates and notifications for the cropmart marketplace.
// @BasePath					/api
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				PASETO token as "Bearer <token>"
func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error: %s\n", err)
		os.Exit(2)
	}
	if conf.App.InstanceID == "" {
		conf.App.InstanceID = uuid.NewString()
	}

	log, err := logger.NewLogger(conf.App)
	if err != nil {
		fmt.Printf("error creating log: %s\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf, log); err != nil {
		log.Error("service stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("service stopped")
}

func openStores(ctx context.Context, conf *config.Database, log *zap.Logger) (*stores, func(), error) {
	if conf.DSN == "" {
		log.Warn("no database configured, keeping state in memory")
		m := memory.New()
		return &stores{m, m, m, m, m}, func() {}, nil
	}

	db, err := storage.NewDBStorage(ctx, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database migration error: %w", err)
	}
	repo, err := repository.NewRepository(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("repository creating error: %w", err)
	}
	return &stores{repo, repo, repo, repo, repo}, db.Close, nil
}

func run(ctx context.Context, conf *config.Config, log *zap.Logger) error {
	st, closeStores, err := openStores(ctx, conf.Database, log.Named("storage"))
	if err != nil {
		return err
	}
	defer closeStores()

	m := metrics.New(prometheus.DefaultRegisterer)

	tokenService, err := auth.New(conf.Auth)
	if err != nil {
		return fmt.Errorf("token service creating error: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	local := bus.New(conf.Notify.BusQueueSize, m, log.Named("bus"))
	defer local.Close()
	var events port.EventBus = local
	if conf.Redis.URL != "" {
		bridge, err := bus.NewRedisBridge(ctx, conf.Redis.URL, conf.Redis.Channel,
			conf.App.InstanceID, local, log.Named("redis"))
		if err != nil {
			return fmt.Errorf("redis bridge error: %w", err)
		}
		defer bridge.Close()
		events = bridge
		g.Go(func() error { return bridge.Run(gctx) })
	}

	orders, err := service.NewOrderService(st.orders, events, m, log.Named("orders"))
	if err != nil {
		return fmt.Errorf("order service creating error: %w", err)
	}
	prices, err := service.NewPriceService(st.samples, st.aggregates, events, m, log.Named("prices"))
	if err != nil {
		return fmt.Errorf("price service creating error: %w", err)
	}
	notifications, err := service.NewNotificationService(st.notifications, st.alerts, log.Named("notifications"))
	if err != nil {
		return fmt.Errorf("notification service creating error: %w", err)
	}

	// relayed events reach the dispatcher too; it only handles events this
	// instance published
	dispatcher, err := service.NewDispatcher(events, st.notifications, st.alerts, service.DispatcherOptions{
		QueueSize:     conf.Notify.BusQueueSize,
		RetryAttempts: conf.Notify.RetryAttempts,
		RetryBackoff:  conf.Notify.RetryBackoff,
	}, m, log.Named("dispatcher"))
	if err != nil {
		return fmt.Errorf("dispatcher creating error: %w", err)
	}
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("dispatcher start error: %w", err)
	}
	defer dispatcher.Stop()

	gateway := realtime.NewGateway(events, tokenService, st.notifications, orders, realtime.Options{
		QueueSize:    conf.Realtime.OutboundQueueSize,
		SendTimeout:  conf.Realtime.OutboundSendTimeout,
		ReplayWindow: conf.Realtime.ReplayWindow,
		ReplayLimit:  conf.Realtime.ReplayLimit,
		AuthTimeout:  conf.Realtime.AuthTimeout,
	}, m, log.Named("gateway"))

	router, err := newRouter(conf, log, m, tokenService, orders, prices, notifications, gateway)
	if err != nil {
		return err
	}

	srv := &nethttp.Server{
		Addr:              conf.HTTP.HostString,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info("listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("router serve error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return prices.RunReseed(gctx, conf.Prices.ReseedInterval)
	})
	if conf.Feed.URL != "" {
		feed, err := pricefeed.NewClient(conf.Feed, log.Named("price feed"))
		if err != nil {
			return fmt.Errorf("price feed creating error: %w", err)
		}
		g.Go(func() error { return feed.Run(gctx, prices) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		gateway.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouter(conf *config.Config, log *zap.Logger, m *metrics.Metrics, tokens port.TokenService,
	orders port.OrderService, prices port.PriceService, notifications port.NotificationService,
	gateway *realtime.Gateway) (*http.Router, error) {
	if conf.App.Mode == config.AppModeProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	orderHandler, err := http.NewOrderHandler(orders, log.Named("order handler"))
	if err != nil {
		return nil, fmt.Errorf("order handler creating error: %w", err)
	}
	priceHandler, err := http.NewPriceHandler(prices, log.Named("price handler"))
	if err != nil {
		return nil, fmt.Errorf("price handler creating error: %w", err)
	}
	notificationHandler, err := http.NewNotificationHandler(notifications, log.Named("notification handler"))
	if err != nil {
		return nil, fmt.Errorf("notification handler creating error: %w", err)
	}
	realtimeHandler, err := http.NewRealtimeHandler(gateway, conf.HTTP.AllowedOrigins, log.Named("realtime handler"))
	if err != nil {
		return nil, fmt.Errorf("realtime handler creating error: %w", err)
	}

	handlers := http.Handlers{
		Orders:        orderHandler,
		Prices:        priceHandler,
		Notifications: notificationHandler,
		Realtime:      realtimeHandler,
		Gatherer:      prometheus.DefaultGatherer,
	}
	if conf.App.Mode == config.AppModeDevelop {
		handlers.Tokens, err = http.NewTokenHandler(tokens, log.Named("token handler"))
		if err != nil {
			return nil, fmt.Errorf("token handler creating error: %w", err)
		}
	}

	r, err := http.NewRouter(conf.HTTP, log.Named("router"), m, tokens, handlers)
	if err != nil {
		return nil, fmt.Errorf("router creating error: %w", err)
	}
	return r, nil
}
