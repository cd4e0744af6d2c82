package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"musicmeta/amazonmusic"
	appConfig "musicmeta/config"
	"musicmeta/handlers"
	"musicmeta/metrics"
	"musicmeta/sentry"
)

func main() {
	os.Exit(serve())
}

// serve runs the service and returns the exit code. Deferred cleanup runs
// before main exits, so queued Sentry events are flushed on failure too.
func serve() int {
	if err := godotenv.Load(); err != nil {
		log.Warnf("Error loading .env file: %v", err)
	}
	appConfig.NewConfig()
	setupLogging(appConfig.Config.Options.LogLevel)
	sentry.Init(appConfig.Config.Sentry)
	defer sentry.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Errorf("Server failed: %v", err)
		sentry.ReportError(ctx, err)
		return 1
	}
	return 0
}

func setupLogging(level string) {
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		FieldsOrder:     []string{"module", "component", "kind", "id"},
		TimestampFormat: time.RFC3339,
	})
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", level)
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

func run(ctx context.Context) error {
	cfg := appConfig.Config
	if cfg.Options.GinMode != "" {
		gin.SetMode(cfg.Options.GinMode)
	}

	m := metrics.New()
	client, err := amazonmusic.NewClient(amazonmusic.Options{
		APIBase:           cfg.AmazonMusic.APIBase,
		SearchBase:        cfg.Search.BaseURL,
		SearchResultLimit: cfg.Search.ResultLimit,
		RequestTimeout:    cfg.AmazonMusic.RequestTimeout,
		Observer:          m,
	})
	if err != nil {
		return err
	}

	manager := handlers.NewManager(client, m, cfg.Sentry.Release)
	router := manager.Router(sentry.GetSentryGin())

	server := &http.Server{
		Addr:              ":" + cfg.Options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on :%s", cfg.Options.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
