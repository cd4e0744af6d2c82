package sentry

import (
	"context"
	"errors"
	"testing"

	sentry "github.com/getsentry/sentry-go"
)

func mockHub(t *testing.T) (*sentry.Hub, *sentry.MockTransport) {
	t.Helper()
	transport := &sentry.MockTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{Transport: transport})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return sentry.NewHub(client, sentry.NewScope()), transport
}

func TestHubFromContext(t *testing.T) {
	hub, _ := mockHub(t)
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	if got := HubFromContext(ctx); got != hub {
		t.Error("HubFromContext() did not return the request hub")
	}
	if got := HubFromContext(context.Background()); got != sentry.CurrentHub() {
		t.Error("HubFromContext() without a hub should fall back to the current hub")
	}
}

func TestReportErrorUsesRequestHub(t *testing.T) {
	hub, transport := mockHub(t)
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	ReportError(ctx, errors.New("upstream exploded"))

	events := transport.Events()
	if len(events) != 1 {
		t.Fatalf("captured %d events, want 1", len(events))
	}
	if len(events[0].Exception) == 0 || events[0].Exception[0].Value != "upstream exploded" {
		t.Errorf("event exception = %+v", events[0].Exception)
	}
}
