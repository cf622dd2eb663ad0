package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/response"
	ws "github.com/stemsi/academia-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams course change events to dashboards.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// CourseStream godoc
// WS /ws/v1/courses/stream[?course_id=N]
// Forwards every published course event as a text frame.
func (h *WSHandler) CourseStream(c *gin.Context) {
	channel := config.CacheKey.CourseEventsChannel()
	courseID := 0
	if raw := c.Query("course_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = id
		channel = config.CacheKey.CourseEventsChannelFor(id)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.rdb.Subscribe(ctx, channel)
	defer pubsub.Close()

	wsLog := h.log.With().Str("channel", channel).Logger()

	// Wait for the subscription so no event published after the confirmation
	// is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe failed")
		ws.WriteError(conn, "subscribe failed")
		return
	}
	if err := ws.WriteTyped(conn, ws.SubscribedResponse{Event: ws.EventSubscribed, Channel: channel, CourseID: courseID}); err != nil {
		return
	}
	wsLog.Info().Msg("Dashboard attached to course stream")

	// gorilla allows a single writer, so replies from the read loop are
	// funnelled back to this goroutine.
	replies := make(chan interface{}, 4)
	closed := make(chan struct{})
	go h.readLoop(conn, replies, closed, wsLog)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	events := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			wsLog.Debug().Msg("Dashboard detached from course stream")
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteRaw(conn, []byte(msg.Payload)); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(conn *websocket.Conn, replies chan<- interface{}, closed chan<- struct{}, log zerolog.Logger) {
	defer close(closed)

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(ws.PongWait))
	})

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var reply interface{}
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}

		select {
		case replies <- reply:
		default:
			log.Warn().Msg("Dropping reply, client is not reading")
		}
	}
}
