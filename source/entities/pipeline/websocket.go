package pipeline

import (
	"commandcenter/source/board"
	"commandcenter/source/middlewares"
	"commandcenter/source/utils"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const PIN_QUERY_PARAM = "pin"

// BoardWebSocketHandler opens a board session. Browsers cannot set headers on
// a websocket handshake, so the access PIN travels as a query parameter.
func (h *Handler) BoardWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if !middlewares.PinMatches(h.accessPin, r.URL.Query().Get(PIN_QUERY_PARAM)) {
		utils.SendResponse(w, http.StatusUnauthorized, "Invalid access PIN", nil, 0)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(h.allowedOrigins, origin)
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("could not upgrade board session")
		return
	}

	session := board.NewSession(conn, h.store, h.activationDistance)
	entry := log.WithField("session_id", session.ID())

	err = session.Run(r.Context())
	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		entry.WithError(err).Warn("board session ended unexpectedly")
	}
}
