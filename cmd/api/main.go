package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-ridetrack/internal/config"
	"backend-ridetrack/internal/db"
	"backend-ridetrack/internal/ridestore"
	"backend-ridetrack/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	connectSQLite   func(config.Config) (*sql.DB, error)
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, ridestore.Backend, *redis.Client, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		connectSQLite:   db.ConnectSQLite,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	rdb := deps.connectRedis(cfg)

	rides, closeRides := openRideStore(cfg, deps, rdb)
	defer closeRides()

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, rides, rdb, signals, nil); err != nil {
		log.Printf("server exited with error: %v", err)
	}
}

// openRideStore picks the ride backend named by RIDE_STORE. Any backend
// that cannot be reached falls back to memory so tracking still works.
func openRideStore(cfg config.Config, deps mainDeps, rdb *redis.Client) (ridestore.Backend, func()) {
	noop := func() {}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cfg.RideStore {
	case config.StoreSQLite:
		conn, err := deps.connectSQLite(cfg)
		if err != nil {
			log.Printf("sqlite connection failed: %v", err)
			break
		}
		store := ridestore.NewSQLite(conn)
		if err := store.Migrate(ctx); err != nil {
			log.Printf("sqlite migration failed: %v", err)
			_ = conn.Close()
			break
		}
		return store, func() { _ = conn.Close() }

	case config.StorePostgres:
		pg, err := deps.connectPostgres(cfg)
		if err != nil {
			log.Printf("postgres connection failed: %v", err)
			break
		}
		store := ridestore.NewPostgres(pg)
		if err := store.Migrate(ctx); err != nil {
			log.Printf("postgres migration failed: %v", err)
			pg.Close()
			break
		}
		return store, pg.Close

	case config.StoreRedis:
		if rdb == nil {
			log.Printf("redis ride store selected but REDIS_ADDR is empty")
			break
		}
		return ridestore.NewRedis(rdb), noop

	case config.StoreMemory, "":
		return ridestore.NewMemory(), noop

	default:
		log.Printf("unknown ride store %q", cfg.RideStore)
	}

	log.Printf("falling back to in-memory ride store")
	return ridestore.NewMemory(), noop
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, rides ridestore.Backend, rdb *redis.Client, signals <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(cfg, rides, rdb)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = srv.Close()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if err := srv.Close(); err != nil {
		log.Printf("live stream close: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}
