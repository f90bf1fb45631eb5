package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const checkTimeout = 3 * time.Second

// Dependency is one backing service readiness checks. A nil Check marks it as
// disabled by configuration.
type Dependency struct {
	Name  string
	Check func(ctx context.Context) error
}

// MongoDependency pings the ledger database.
func MongoDependency(db *mongo.Database) Dependency {
	return Dependency{Name: "mongodb", Check: func(ctx context.Context) error {
		return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	}}
}

// RedisDependency pings Redis. rdb may be nil when the in-process fallbacks serve
// idempotency and token revocation.
func RedisDependency(rdb *redis.Client) Dependency {
	p := Dependency{Name: "redis"}
	if rdb != nil {
		p.Check = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return p
}

// Liveness handles GET /health.
func Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// ReadinessHandler handles GET /health/ready. It answers 503 while any
// enabled dependency fails its check.
type ReadinessHandler struct {
	deps []Dependency
}

func NewReadinessHandler(deps ...Dependency) *ReadinessHandler {
	return &ReadinessHandler{deps: deps}
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
	defer cancel()

	resp := readinessResponse{
		Status:       "ok",
		Dependencies: make(map[string]dependencyStatus, len(h.deps)),
	}
	code := http.StatusOK

	for _, p := range h.deps {
		if p.Check == nil {
			resp.Dependencies[p.Name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := p.Check(ctx); err != nil {
			resp.Dependencies[p.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			resp.Status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[p.Name] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(code, resp)
}
