package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GlebRadaev/farmops/internal/cache"
	"github.com/GlebRadaev/farmops/internal/config"
	"github.com/GlebRadaev/farmops/internal/handlers"
	"github.com/GlebRadaev/farmops/internal/notify"
	"github.com/GlebRadaev/farmops/internal/outbox"
	"github.com/GlebRadaev/farmops/internal/pg"
	"github.com/GlebRadaev/farmops/internal/repo"
	"github.com/GlebRadaev/farmops/internal/service"
	"github.com/GlebRadaev/farmops/pkg/clients"
	"github.com/GlebRadaev/farmops/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg        *config.Config
	api        *handlers.Handlers
	srv        *service.Services
	repo       *repo.Repositories
	dispatcher *outbox.Dispatcher

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if _, err := pg.RunMigrations(ctx, pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	accountCache, err := buildCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("can't build cache: %w", err)
	}

	conn := pg.New(pool)
	a.cfg = cfg
	a.repo = repo.New(conn, txManager)

	notifier, err := buildNotifier(cfg, a.repo.Users)
	if err != nil {
		return fmt.Errorf("can't build notifier: %w", err)
	}
	sharer := notify.NewProfileSharer(cfg.ProfileAddress, clients.NewHTTPClient())
	if err := sharer.Ready(); err != nil {
		zap.L().Warn("profile sharing is degraded", zap.Error(err))
	}
	a.dispatcher = outbox.NewDispatcher(cfg.OutboxWorkers, notifier, sharer)

	a.srv = service.New(cfg, a.repo, accountCache, a.dispatcher)
	a.api = handlers.New(a.srv)

	if err := a.srv.AuthService.EnsureAdmin(ctx, cfg.AdminLogin, cfg.AdminPassword); err != nil {
		return fmt.Errorf("can't seed admin: %w", err)
	}

	a.startDispatcher(ctx)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

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
		return nil, err
	}
	return dbpool, nil
}

// buildCache picks Redis when an address is configured and the in-process
// LRU otherwise.
func buildCache(ctx context.Context, cfg *config.Config) (cache.AccountCache, error) {
	if cfg.RedisAddress == "" {
		zap.L().Info("using in-process duration cache", zap.Int("size", cfg.DurationCacheLen))
		return cache.NewLRU(cfg.DurationCacheLen, cfg.DurationCacheTTL), nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	zap.L().Info("using redis duration cache", zap.String("address", cfg.RedisAddress))
	return cache.NewRedis(client, cfg.DurationCacheTTL), nil
}

func buildNotifier(cfg *config.Config, users notify.UserFinder) (outbox.Notifier, error) {
	if cfg.TelegramToken == "" {
		zap.L().Warn("telegram token is not set, notifications go to the log")
		return notify.Log{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	return notify.NewTelegram(bot, users), nil
}

func (a *Application) startDispatcher(ctx context.Context) {
	a.dispatcher.Start(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		a.dispatcher.Close()
	}()
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
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

	return appErr
}
