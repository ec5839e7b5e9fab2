package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/chemdb/pkg/middleware/db"
	"github.com/scienceol/chemdb/pkg/middleware/redis"
)

const pingTimeout = 3 * time.Second

// Pinger is a downstream dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handle struct {
	storage Pinger
}

func NewHealthHandle(storage Pinger) *Handle {
	return &Handle{storage: storage}
}

// Health is a simple health check (backward compatible).
func (h *Handle) Health(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Live reports that the process is up.
func (h *Handle) Live(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready verifies postgres and the object store. Redis is optional, so a
// missing client is reported but does not fail readiness.
func (h *Handle) Ready(g *gin.Context) {
	ctx, cancel := context.WithTimeout(g.Request.Context(), pingTimeout)
	defer cancel()

	checks := gin.H{}
	healthy := true

	// PostgreSQL
	if ds := db.DB(); ds != nil {
		sqlDB, err := ds.DBIns().DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			checks["postgres"] = "unhealthy"
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	} else {
		checks["postgres"] = "not_initialized"
		healthy = false
	}

	// Redis
	if rc := redis.GetClient(); rc != nil {
		if err := rc.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unhealthy"
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "disabled"
	}

	// Object store
	if h.storage != nil {
		if err := h.storage.Ping(ctx); err != nil {
			checks["storage"] = "unhealthy"
			healthy = false
		} else {
			checks["storage"] = "ok"
		}
	} else {
		checks["storage"] = "not_initialized"
		healthy = false
	}

	status := http.StatusOK
	msg := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		msg = "not_ready"
	}

	g.JSON(status, gin.H{
		"status": msg,
		"checks": checks,
	})
}
