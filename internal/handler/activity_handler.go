package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/collectivefm/collective-backend/internal/middleware"
	"github.com/collectivefm/collective-backend/internal/response"
	ws "github.com/collectivefm/collective-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins; an empty slice
// permits all origins (development mode).
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

// ActivityHandler streams the admin activity feed over WebSocket.
type ActivityHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *ActivityHandler {
	return &ActivityHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "activity_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/v1/admin/activity
// Upgrades to WebSocket and forwards every entry published on the activity
// channel. Any authenticated admin may attach; the feed carries operational
// breadcrumbs, not protected data.
func (h *ActivityHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("admin_id", claims.AdminID).Logger()
	wsLog.Info().Msg("Admin attached to activity feed")

	reqCtx := c.Request.Context()
	pubsub := h.rdb.Subscribe(reqCtx, config.CacheKey.AdminActivityChannel())
	defer pubsub.Close()

	// Reader goroutine: answers pings and unblocks the writer loop when the
	// client goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				return
			}
			if msg.Action == ws.ActionPing {
				if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
					return
				}
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-reqCtx.Done():
			wsLog.Debug().Msg("Activity feed request context done")
			return
		case <-done:
			wsLog.Debug().Msg("Activity feed client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				wsLog.Warn().Msg("Activity channel closed")
				return
			}
			out := ws.ActivityMessage{
				Event:   ws.EventActivity,
				Payload: json.RawMessage(msg.Payload),
			}
			if err := ws.WriteTyped(conn, out); err != nil {
				wsLog.Debug().Err(err).Msg("Activity feed write failed")
				return
			}
		}
	}
}
