package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/infrastructure/ws"
	"github.com/roomboardhq/roomboard/internal/presentation/utils"
)

type Handler struct {
	core     *ws.Core
	logger   logging.Logger
	upgrader websocket.Upgrader
}

func NewHandler(core *ws.Core, logger logging.Logger) *Handler {
	return &Handler{
		core:   core,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // origin policy belongs to the reverse proxy
			},
		},
	}
}

// ConnectHandler upgrades the request to a websocket session. The member
// cookie pins the caller's identity, so drafts survive reconnects.
func (h *Handler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	owner := utils.GetMemberIDFromRequest(r)
	if owner == "" {
		owner = utils.EnsureMemberID(w, r)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(logging.Gateway, logging.Session, "websocket upgrade failed", map[logging.ExtraKey]any{
			"owner": owner,
			"error": err.Error(),
		})
		return
	}

	client := ws.NewClient(conn, uuid.New().String(), owner)
	h.core.Register() <- client

	go client.WriteMessage()
	go client.ReadMessage(h.core)

	h.logger.Info(logging.Gateway, logging.Session, "session connected", map[logging.ExtraKey]any{
		"owner": owner,
	})
}
