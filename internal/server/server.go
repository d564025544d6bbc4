// Package server boots the process: configuration, the store, the queue
// and its workers, the event hub, and the HTTP and gRPC listeners.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	googlegrpc "google.golang.org/grpc"

	appgraphql "github.com/hostelmania/server/app/graphql"
	"github.com/hostelmania/server/app/jobs"
	"github.com/hostelmania/server/app/repositories"
	"github.com/hostelmania/server/app/repositories/mongostore"
	"github.com/hostelmania/server/app/repositories/sqlstore"
	"github.com/hostelmania/server/app/routes"
	"github.com/hostelmania/server/config"
	"github.com/hostelmania/server/internal/kernel"
	"github.com/hostelmania/server/pkg/auth"
	"github.com/hostelmania/server/pkg/database"
	"github.com/hostelmania/server/pkg/event"
	"github.com/hostelmania/server/pkg/grpc"
	"github.com/hostelmania/server/pkg/logger"
	"github.com/hostelmania/server/pkg/queue"
	"github.com/hostelmania/server/pkg/router"
	"github.com/hostelmania/server/pkg/schedule"
	"github.com/hostelmania/server/pkg/storage"
	"github.com/hostelmania/server/pkg/ws"
)

const shutdownTimeout = 30 * time.Second

// OpenStore connects to the backend named by DB_DRIVER.
func OpenStore(ctx context.Context) (repositories.Store, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	driver := config.DatabaseDriver()
	if driver == "mongo" {
		client, err := database.ConnectMongo(ctx, config.MongoURI())
		if err != nil {
			return nil, err
		}
		return mongostore.New(client, config.MongoDatabase(), config.MongoTransactions()), nil
	}

	db, err := database.OpenSQL(driver, config.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	return sqlstore.New(db, driver), nil
}

// App holds the long-lived components shared by every request.
type App struct {
	Store  repositories.Store
	Tokens *auth.TokenService
	Queue  *queue.Manager
	Events *event.Bus
	Hub    *ws.Hub
	Disk   storage.Disk

	redis   *redis.Client
	logSink *logger.MongoHandler
	router  *router.Router
}

// Boot connects every dependency and builds the router. Call Close when
// done, even after a failed Serve.
func Boot(ctx context.Context) (*App, error) {
	store, err := OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	a := &App{
		Store:  store,
		Tokens: auth.NewTokenService(config.TokenSecret()),
		Events: event.NewBus(),
		Hub:    ws.NewHub(config.CORSOrigins()),
	}

	if err := store.Migrate(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}

	if ms, ok := store.(*mongostore.Store); ok && config.LogToMongo() {
		a.logSink = logger.NewMongoHandler(ctx, ms.Database().Collection("logs"), slog.LevelInfo)
		logger.Tee(a.logSink)
	}

	var driver queue.Driver = queue.NewMemoryDriver()
	if config.QueueDriver() == "redis" {
		a.redis, err = database.ConnectRedis(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		driver = queue.NewRedisDriver(a.redis)
	}
	a.Queue = queue.NewManager(driver)
	jobs.Register(a.Queue, store)

	a.Disk, err = storage.Open(ctx, storage.ConfigFromEnv())
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	schema, err := appgraphql.NewSchema(store)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("graphql: %w", err)
	}

	a.Hub.Subscribe(a.Events)
	a.router = kernel.New(kernel.Options{
		Deps: routes.Deps{
			Store:                   store,
			Tokens:                  a.Tokens,
			Jobs:                    a.Queue,
			Queue:                   driver,
			Events:                  a.Events,
			Disk:                    a.Disk,
			MenuUpdateRequiresAdmin: config.MenuUpdateRequiresAdmin(),
		},
		Hub:         a.Hub,
		GraphQL:     &schema,
		CORSOrigins: config.CORSOrigins(),
	})

	logger.Info("application booted",
		"store", store.Driver(),
		"queue", driver.Name(),
		"disk", a.Disk.Name(),
	)
	return a, nil
}

// Router returns the HTTP router built by Boot.
func (a *App) Router() *router.Router { return a.router }

// Serve runs the HTTP server, the optional gRPC server, the queue workers
// and the websocket hub until ctx is cancelled, then shuts them down in
// reverse order.
func (a *App) Serve(ctx context.Context) error {
	workCtx, stopWork := context.WithCancel(context.Background())
	defer stopWork()

	a.Queue.Start(workCtx, config.QueueWorkers())
	go a.Hub.Run(workCtx)

	sched := schedule.New()
	sched.Every(config.ReviewsRecountInterval(), jobs.RecountReviewsJob, func(ctx context.Context) error {
		_, err := jobs.RecountAll(ctx, a.Store, 4)
		return err
	})
	sched.Start(workCtx)

	var grpcSrv *googlegrpc.Server
	if port := config.GRPCPort(); port != "" {
		srv, err := grpc.Start(port, a.Store.Ping)
		if err != nil {
			return err
		}
		grpcSrv = srv
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           a.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HostelMania server listening", "addr", httpSrv.Addr, "env", config.AppEnv())
		serveErr <- httpSrv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received, draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
			logger.Error("graceful shutdown failed, forcing close", "error", serr)
			_ = httpSrv.Close()
		}
	}

	grpc.Stop(grpcSrv)
	stopWork()
	sched.Wait()
	a.Queue.Wait()
	a.Events.Flush()
	return err
}

// Close releases the connections opened by Boot.
func (a *App) Close(ctx context.Context) {
	if a.logSink != nil {
		a.logSink.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn("redis close failed", "error", err)
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	}
}
