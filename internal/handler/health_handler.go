package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/academia-backend/internal/response"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports liveness and the state of the optional event bus.
type HealthHandler struct {
	rdb       *redis.Client
	startTime time.Time
}

func NewHealthHandler(rdb *redis.Client) *HealthHandler {
	return &HealthHandler{rdb: rdb, startTime: time.Now()}
}

// Health godoc
// GET /health
// Always 200 while the process serves requests; an unreachable Redis only
// degrades the reported event bus state.
func (h *HealthHandler) Health(c *gin.Context) {
	events := "disabled"
	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			events = "unreachable"
		} else {
			events = "ok"
		}
	}

	response.Success(c, http.StatusOK, gin.H{
		"status": "ok",
		"events": events,
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}
