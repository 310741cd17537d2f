package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/GlebRadaev/crowdfund/internal/config"
	"github.com/GlebRadaev/crowdfund/internal/events"
	"github.com/GlebRadaev/crowdfund/internal/handlers"
	"github.com/GlebRadaev/crowdfund/internal/pg"
	"github.com/GlebRadaev/crowdfund/internal/repo"
	leveldbrepo "github.com/GlebRadaev/crowdfund/internal/repo/leveldb-repo"
	"github.com/GlebRadaev/crowdfund/internal/service"
	"github.com/GlebRadaev/crowdfund/internal/service/campaignservice"
	"github.com/GlebRadaev/crowdfund/pkg/auth"
	"github.com/GlebRadaev/crowdfund/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg  *config.Config
	api  *handlers.Handlers
	srv  *service.Services
	repo *repo.Repositories

	closers []io.Closer
	errCh   chan error
	wg      sync.WaitGroup
	ready   bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg.LogLvl, cfg.StorageDriver)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	a.repo, err = a.openLedger(ctx)
	if err != nil {
		a.close()
		return err
	}
	publisher, err := a.openPublisher(ctx)
	if err != nil {
		a.close()
		return err
	}

	a.srv = service.New(a.repo, publisher)
	a.api = handlers.New(a.srv, auth.NewJWTService(cfg.JWTSecret))

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully", zap.String("storage", cfg.StorageDriver))
	return nil
}

func (a *Application) openLedger(ctx context.Context) (*repo.Repositories, error) {
	switch a.cfg.StorageDriver {
	case config.StorageLevelDB:
		store, err := leveldbrepo.Open(a.cfg.LevelDBPath)
		if err != nil {
			zap.L().Error("open leveldb failed: ", zap.Error(err))
			return nil, fmt.Errorf("can't open leveldb: %w", err)
		}
		a.closers = append(a.closers, store)
		return repo.NewLevelDB(store), nil
	default:
		pool, err := getPgxpool(ctx, a.cfg)
		if err != nil {
			zap.L().Error("build pgx pool failed: ", zap.Error(err))
			return nil, fmt.Errorf("can't build pgx pool: %w", err)
		}
		a.closers = append(a.closers, closerFunc(func() error { pool.Close(); return nil }))
		if err := pg.RunMigrations(pool); err != nil {
			zap.L().Error("migrations failed: ", zap.Error(err))
			return nil, fmt.Errorf("can't run migrations: %w", err)
		}
		return repo.New(pg.New(pool), pg.NewTXManager(pool)), nil
	}
}

func (a *Application) openPublisher(ctx context.Context) (campaignservice.Publisher, error) {
	if a.cfg.RedisAddress == "" {
		zap.L().Info("event feed disabled")
		return events.Nop{}, nil
	}
	client, err := events.Connect(ctx, a.cfg.RedisAddress)
	if err != nil {
		zap.L().Error("redis connect failed: ", zap.Error(err))
		return nil, fmt.Errorf("can't connect to redis: %w", err)
	}
	a.closers = append(a.closers, client)
	return events.NewRedisPublisher(client, a.cfg.EventsKey), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	a.close()
	return appErr
}

// close releases storage and feed connections in reverse order of opening.
func (a *Application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			zap.L().Error("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
