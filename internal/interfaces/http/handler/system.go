package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shoemarket/backend/internal/infrastructure/persistence"
	"github.com/shoemarket/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	redis     *redis.Client
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, redisClient *redis.Client, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		redis:     redisClient,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse reports the status of the service and its dependencies
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Database: "ok", Redis: "ok"}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			resp.Status = "degraded"
			resp.Redis = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, dto.NewSuccessResponse(resp))
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string                 `json:"name"`
	Version   string                 `json:"version"`
	GoVersion string                 `json:"go_version"`
	Uptime    string                 `json:"uptime"`
	DBPool    *persistence.PoolStats `json:"db_pool,omitempty"`
}

func (h *SystemHandler) Info(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "Shoe Market API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.db != nil {
		if stats, err := h.db.Stats(); err == nil {
			info.DBPool = &stats
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}
