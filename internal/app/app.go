package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jobTracker/internal/config"
	"jobTracker/internal/handlers"
	"jobTracker/internal/logger"
	"jobTracker/internal/middleware"
	"jobTracker/internal/repository/inmemory"
	"jobTracker/internal/repository/postgres"
	"jobTracker/internal/schedule"
	"jobTracker/internal/service"
	"jobTracker/internal/templates"
	"jobTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.Repository
	service    *service.Service
	worker     *worker.NotificationWorker
	shutdowns  []func(context.Context) error // run in reverse order
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(context.Context) error, 0),
	}
}

// Init builds every component. On error the parts already built are released.
func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func(context.Context) error {
		logger.Info("App: flushing logs")
		logger.Sync()
		return nil
	})

	if err := a.initRepository(ctx); err != nil {
		return multierr.Append(err, a.Shutdown(ctx))
	}

	registry, err := templates.Load(a.config.Templates.Path)
	if err != nil {
		return multierr.Append(fmt.Errorf("load templates: %w", err), a.Shutdown(ctx))
	}
	logger.Info("App: templates loaded",
		zap.String("path", a.config.Templates.Path),
		zap.Int("count", len(registry.List())))

	a.service = service.New(a.repository,
		service.WithEngine(schedule.NewEngine(a.config.SnapRule())),
		service.WithTemplates(registry),
	)

	if a.config.Worker.Enabled {
		a.worker = worker.NewNotificationWorker(a.repository, &a.config.Worker.Interval, &a.config.Worker.BatchSize)
	}

	a.initRouter()
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}
	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		db := a.config.Database
		if db.MigrateOnStart {
			if err := postgres.Migrate(db.URL); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
		}
		storage, err := postgres.New(ctx, db.URL,
			postgres.WithMaxConns(int32(db.MaxConnections)),
			postgres.WithMinConns(int32(db.MinConnections)),
			postgres.WithMaxConnIdleTime(db.IdleTimeout),
		)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, func(context.Context) error {
			logger.Info("App: closing database pool")
			storage.Close()
			return nil
		})
	default:
		a.repository = inmemory.NewStorage()
	}

	logger.Info("App: repository ready", zap.String("type", a.config.Repository.Type))
	return nil
}

func (a *App) initRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Remaining"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(a.config.HTTP.RateLimit))
	if a.config.HTTP.RequestTimeout > 0 {
		r.Use(chimw.Timeout(a.config.HTTP.RequestTimeout))
	}

	handlers.NewHandler(a.service).Register(r)
	a.router = r
}

// Router exposes the configured handler for in-process use.
func (a *App) Router() http.Handler {
	return a.router
}

// Run serves HTTP and runs the worker until ctx is cancelled or the server fails,
// then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			a.worker.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("App: shutting down server")
		return a.server.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return multierr.Combine(runErr, a.Shutdown(closeCtx))
}

// Shutdown releases resources in reverse order of creation.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.shutdowns[i](ctx))
	}
	a.shutdowns = a.shutdowns[:0]
	return err
}
