package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kontribute/kontribute-backend/internal/http/handlers/common"
	"github.com/kontribute/kontribute-backend/internal/http/response"
	"github.com/kontribute/kontribute-backend/internal/logger"
	"github.com/kontribute/kontribute-backend/internal/ws"
)

// WSHandler upgrades dashboard viewers to a websocket feed of their
// collection's events.
type WSHandler struct {
	hub         *ws.Hub
	collections CollectionService
	upgrader    websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, collections CollectionService, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:         hub,
		collections: collections,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

// Handle GET /collections/:slug/dashboard/ws
func (h *WSHandler) Handle(c *gin.Context) {
	slug := common.SlugParam(c)
	if _, err := h.collections.Get(c.Request.Context(), slug); err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logger.Log.WithError(err).WithField("room", slug).Debug("ws: upgrade failed")
		return
	}

	client := ws.NewClient(conn, h.hub, slug)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}

// originChecker allows same-origin requests, requests without an Origin
// header and the configured origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := set[origin]; ok {
			return true
		}
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
}
