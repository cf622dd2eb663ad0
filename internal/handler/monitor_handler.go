package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/response"
	"github.com/stemsi/academia-backend/internal/service"
)

const (
	keepAliveInterval = 15 * time.Second
	refreshTimeout    = 5 * time.Second // a slow aggregation must not stall the SSE loop
)

// MonitorHandler pushes a course's aggregated view to dashboards over SSE,
// re-sending it whenever an event for the course is published.
type MonitorHandler struct {
	aggregator *service.CourseAggregator
	rdb        *redis.Client
	log        zerolog.Logger
}

func NewMonitorHandler(aggregator *service.CourseAggregator, rdb *redis.Client, log zerolog.Logger) *MonitorHandler {
	return &MonitorHandler{
		aggregator: aggregator,
		rdb:        rdb,
		log:        log.With().Str("component", "monitor_handler").Logger(),
	}
}

// MonitorCourseSSE godoc
// GET /api/v1/courses/:id/monitor
func (h *MonitorHandler) MonitorCourseSSE(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	reqCtx := c.Request.Context()

	course, err := h.aggregator.GetFullCourse(reqCtx, courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// 1. SSE headers
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// 2. Initial snapshot
	c.SSEvent("course", course)
	c.Writer.Flush()

	// 3. Subscribe to the course's channel
	channelName := config.CacheKey.CourseEventsChannelFor(courseID)
	pubsub := h.rdb.Subscribe(reqCtx, channelName)
	defer pubsub.Close()

	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	log := h.log.With().Int("course_id", courseID).Logger()
	log.Info().Msg("Dashboard attached to course monitor SSE")

	pingPayload, _ := json.Marshal(map[string]string{"type": "ping"})

	for {
		select {
		case <-reqCtx.Done():
			log.Info().Msg("Dashboard disconnected from course monitor SSE")
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			var evt service.CourseEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Warn().Err(err).Msg("Skipping malformed course event")
				continue
			}
			c.SSEvent("event", evt)
			if evt.Type == service.EventCourseDeleted {
				c.Writer.Flush()
				return
			}
			h.sendRefresh(c, reqCtx, courseID, log)

		case <-keepAliveTicker.C:
			c.Writer.Write([]byte("data: "))
			c.Writer.Write(pingPayload)
			c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

// sendRefresh re-aggregates the course and writes it as a "course" event.
func (h *MonitorHandler) sendRefresh(c *gin.Context, parentCtx context.Context, courseID int, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(parentCtx, refreshTimeout)
	defer cancel()

	course, err := h.aggregator.GetFullCourse(ctx, courseID)
	if err != nil {
		log.Warn().Err(err).Msg("Course refresh failed")
		c.Writer.Flush()
		return
	}
	c.SSEvent("course", course)
	c.Writer.Flush()
}

// StreamUnavailable answers stream endpoints when no event bus is configured.
func StreamUnavailable(c *gin.Context) {
	response.Fail(c, http.StatusServiceUnavailable, response.ErrUnavailable)
}
