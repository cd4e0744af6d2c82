package sentry

import (
	"context"
	"time"

	"musicmeta/config"

	sentry "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func Init(cfg config.SentryConfig) {
	if !cfg.IsEnabled() {
		log.Info("SENTRY_DSN not set, error reporting disabled")
		return
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Release:          cfg.Release,
		Environment:      cfg.Environment,
		TracesSampleRate: 1.0,
	}); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
}

// GetSentryGin binds a cloned hub to every request context so upstream spans
// and captured errors stay isolated per request
func GetSentryGin() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// HubFromContext returns the request hub, falling back to the current hub
func HubFromContext(ctx context.Context) *sentry.Hub {
	if ctx != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			return hub
		}
	}
	return sentry.CurrentHub()
}

// ReportError captures err on the request hub
func ReportError(ctx context.Context, err error) {
	HubFromContext(ctx).CaptureException(err)
}

func Flush() {
	sentry.Flush(2 * time.Second)
}
