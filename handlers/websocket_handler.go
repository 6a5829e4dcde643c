package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pong-backend/game"
	"pong-backend/logger"
	"pong-backend/models"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// WebSocketHandler upgrades connections on /ws/game/{room_code} and runs the
// per-connection pumps. The room code segment may be empty for a connection
// that is about to create its own room.
type WebSocketHandler struct {
	gameManager *game.Manager
}

func NewWebSocketHandler(gameManager *game.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		gameManager: gameManager,
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Errorf("websocket upgrade error: %v", err)
		return
	}

	roomCode := strings.Trim(strings.TrimPrefix(r.URL.Path, "/ws/game/"), "/")

	client := &models.Client{
		ID:       uuid.New().String(),
		Send:     make(chan []byte, 256),
		RoomCode: roomCode,
	}

	logger.Log.WithFields(map[string]interface{}{
		"client": client.ID,
		"room":   roomCode,
	}).Info("websocket connected")

	go h.writePump(client, conn)
	h.readPump(client, conn)
}

// readPump is the connection's receive loop: it decodes inbound intents and
// hands them to the game manager. Unparseable frames are skipped, not fatal.
// When the socket dies the client is removed from its room.
func (h *WebSocketHandler) readPump(client *models.Client, conn *websocket.Conn) {
	defer func() {
		h.gameManager.RemoveClient(client)
		client.CloseSend()
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithField("client", client.ID).Warnf("websocket error: %v", err)
			}
			break
		}

		var msgData map[string]any
		if err := json.Unmarshal(message, &msgData); err != nil {
			logger.Log.WithField("client", client.ID).Debugf("invalid json: %v", err)
			continue
		}

		msgType, ok := msgData["type"].(string)
		if !ok {
			continue
		}

		h.gameManager.HandleWebSocketMessage(client, msgType, msgData)
	}
}

// writePump drains the client's send queue onto the socket. It exits when the
// queue is closed, either by the read pump on disconnect or by a failed
// broadcast delivery.
func (h *WebSocketHandler) writePump(client *models.Client, conn *websocket.Conn) {
	defer conn.Close()

	for message := range client.Send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, []byte{})
}
