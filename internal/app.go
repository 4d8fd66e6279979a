package internal

import (
	"adforge/internal/controllers"
	"adforge/internal/orchestrator"
	"adforge/internal/persistence"
	"adforge/internal/persistence/interfaces"
	"adforge/internal/providers"
	"adforge/internal/structures"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
}

// NewHandler assembles the outer mux: infrastructure endpoints plus the
// instrumented API.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumentedAPI := providers.MetricsMiddleware(metrics, apiMux)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)
	return mux
}

func NewApp(handler http.Handler, scheduler interfaces.SchedulerInterface, orch orchestrator.OrchestratorInterface, persister *persistence.Persister, conf *structures.Config, logger providers.Logger) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	err := scheduler.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:        conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:     handler,
			ReadTimeout: 30 * time.Second,
			// request bodies carry inline images
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case runErr = <-serverErr:
		logger.Errorf(providers.TypeApp, "Server error: %s", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdown(ctx, app.WebServer, scheduler, orch, persister, logger)

	if runErr != nil {
		return nil, fmt.Errorf("server error: %w", runErr)
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

type closer interface{ Close() }

// shutdown stops intake, drains pending actions and writes the final snapshot.
// Every step runs even when an earlier one fails; failures are only logged.
func shutdown(ctx context.Context, server *http.Server, scheduler interfaces.SchedulerInterface, orch orchestrator.OrchestratorInterface, storage closer, logger providers.Logger) {
	scheduler.Stop()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf(providers.TypeApp, "Server shutdown: %s", err)
	}
	if err := orch.Stop(ctx); err != nil {
		logger.Warnf(providers.TypeApp, "Pending actions abandoned: %s", err)
	}
	if err := scheduler.Persist(); err != nil {
		logger.Errorf(providers.TypeApp, "Final persist failed: %s", err)
	}
	storage.Close()
}
