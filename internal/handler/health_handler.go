package handler

import (
	"net/http"

	"amora-be/pkg/database"
	"amora-be/pkg/logger"
	"amora-be/pkg/redis"
)

// HealthHandler reports liveness of the API and its backing stores
type HealthHandler struct {
	kv  *redis.Client
	db  *database.PostgresDB
	log *logger.Logger
}

// NewHealthHandler creates a new health handler. Either store may be nil
// when it is not configured; a missing store is reported as skipped, not
// unhealthy.
func NewHealthHandler(kv *redis.Client, db *database.PostgresDB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{kv: kv, db: db, log: log}
}

// Health reports overall service health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{}
	healthy := true

	if h.kv != nil {
		if err := h.kv.Health(r.Context()); err != nil {
			h.log.WithError(err).Error("Redis health check failed")
			services["redis"] = "down"
			healthy = false
		} else {
			services["redis"] = "up"
		}
	} else {
		services["redis"] = "skipped"
	}

	if h.db != nil {
		if err := h.db.Health(r.Context()); err != nil {
			h.log.WithError(err).Error("Database health check failed")
			services["database"] = "down"
			healthy = false
		} else {
			services["database"] = "up"
		}
	} else {
		services["database"] = "skipped"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]interface{}{
		"status":   status,
		"services": services,
	})
}
