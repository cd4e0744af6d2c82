package handlers

// handlers expose the metadata client over HTTP
// every JSON response is wrapped in the same envelope

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"musicmeta/amazonmusic"
	"musicmeta/pages"
	"musicmeta/sentry"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const maxSearchLimit = 50

// Service is the subset of *amazonmusic.Client the routes need
type Service interface {
	ResolveByKindAndID(ctx context.Context, kind amazonmusic.ResourceKind, id string) (amazonmusic.Resource, error)
	ResolveByURL(ctx context.Context, rawURL string) (amazonmusic.Resource, error)
	Search(ctx context.Context, query string, limit int) []amazonmusic.Track
	SearchResultLimit() int
}

// RequestObserver records served requests
type RequestObserver interface {
	ObserveRequest(route string, status int, elapsed time.Duration)
	Handler() http.Handler
}

type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

type Manager struct {
	Client  Service
	Metrics RequestObserver
	Release string
	logger  *log.Entry
}

func NewManager(client Service, metrics RequestObserver, release string) *Manager {
	return &Manager{
		Client:  client,
		Metrics: metrics,
		Release: release,
		logger:  log.WithFields(log.Fields{"module": "handlers"}),
	}
}

// Router builds the engine; middleware runs after recovery and before routing
func (m *Manager) Router(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), m.requestLogger())
	router.Use(middleware...)

	router.GET("/", m.index)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "musicmeta"})
	})
	if m.Metrics != nil {
		router.GET("/metrics", gin.WrapH(m.Metrics.Handler()))
	}

	for _, kind := range []amazonmusic.ResourceKind{
		amazonmusic.KindTrack,
		amazonmusic.KindAlbum,
		amazonmusic.KindArtist,
		amazonmusic.KindPlaylist,
		amazonmusic.KindUserPlaylist,
	} {
		router.GET("/"+kind.Segment()+"/:id", m.resource(kind))
	}
	router.GET("/resolve", m.resolve)
	router.GET("/parse", m.parse)
	router.GET("/search", m.search)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Envelope{Error: "route not found"})
	})
	return router
}

func (m *Manager) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()

		if m.Metrics != nil {
			m.Metrics.ObserveRequest(c.FullPath(), status, elapsed)
		}
		entry := m.logger.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"elapsed": elapsed.String(),
		})
		if status >= http.StatusInternalServerError {
			entry.Warn("Request failed")
			return
		}
		entry.Debug("Request served")
	}
}

func (m *Manager) index(c *gin.Context) {
	release := m.Release
	if release == "" {
		release = "dev"
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(pages.Index, html.EscapeString(release))))
}

func (m *Manager) resource(kind amazonmusic.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, Envelope{Error: "id is required"})
			return
		}
		record, err := m.Client.ResolveByKindAndID(c.Request.Context(), kind, id)
		m.respond(c, record, err, fmt.Sprintf("%s %s not found", kind, id))
	}
}

func (m *Manager) resolve(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, Envelope{Error: "url query parameter is required"})
		return
	}
	record, err := m.Client.ResolveByURL(c.Request.Context(), rawURL)
	m.respond(c, record, err, "no Amazon Music resource found for url")
}

func (m *Manager) parse(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, Envelope{Error: "url query parameter is required"})
		return
	}
	ref, ok := amazonmusic.ParseURL(rawURL)
	if !ok {
		c.JSON(http.StatusNotFound, Envelope{Error: "not an Amazon Music url"})
		return
	}
	c.JSON(http.StatusOK, Envelope{Success: true, Data: ref})
}

func (m *Manager) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, Envelope{Error: "q query parameter is required"})
		return
	}

	limit := m.Client.SearchResultLimit()
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, Envelope{Error: "limit must be an integer"})
			return
		}
		limit = clampLimit(parsed)
	}

	tracks := m.Client.Search(c.Request.Context(), query, limit)
	c.JSON(http.StatusOK, Envelope{Success: true, Data: tracks})
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

func (m *Manager) respond(c *gin.Context, record amazonmusic.Resource, err error, notFound string) {
	if err != nil {
		status := statusFor(err)
		m.logger.WithFields(log.Fields{"path": c.Request.URL.Path, "status": status}).Errorf("Resolve failed: %v", err)
		if status >= http.StatusInternalServerError {
			sentry.ReportError(c.Request.Context(), err)
		}
		c.JSON(status, Envelope{Error: err.Error()})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, Envelope{Error: notFound})
		return
	}
	c.JSON(http.StatusOK, Envelope{Success: true, Data: record})
}

// statusFor maps fetch failures onto gateway statuses
func statusFor(err error) int {
	var httpErr *amazonmusic.HTTPError
	var netErr *amazonmusic.NetworkError
	switch {
	case errors.Is(err, amazonmusic.ErrFetchTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &httpErr):
		if httpErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case errors.As(err, &netErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
