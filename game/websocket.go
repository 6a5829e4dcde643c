package game

import (
	"encoding/json"

	"pong-backend/constants"
	"pong-backend/engine"
	"pong-backend/logger"
	"pong-backend/models"
)

// HandleWebSocketMessage dispatches one decoded client message. Unknown types
// and messages with missing fields are dropped without a reply; a bad message
// must never cost the client its connection.
func (gm *Manager) HandleWebSocketMessage(client *models.Client, msgType string, msg map[string]any) {
	switch msgType {
	case constants.MSG_CREATE_ROOM:
		gm.HandleCreateRoom(client, msg)
	case constants.MSG_JOIN_GAME:
		gm.HandleJoinGame(client, msg)
	case constants.MSG_PLAYER_READY:
		gm.HandlePlayerReady(client)
	case constants.MSG_MOVE_PADDLE:
		gm.HandleMovePaddle(client, msg)
	default:
		logger.Log.WithFields(map[string]interface{}{
			"client": client.ID,
			"type":   msgType,
		}).Debug("ignoring unknown message type")
	}
}

// HandleCreateRoom allocates a room and binds the creating connection to its
// code. The creator still has to send join_game to take a slot.
func (gm *Manager) HandleCreateRoom(client *models.Client, msg map[string]any) {
	if client.RoomCode != "" {
		return
	}

	pointsLimit := constants.DEFAULT_POINTS_LIMIT
	if v, ok := msg["points_limit"].(float64); ok && int(v) > 0 {
		pointsLimit = int(v)
	}

	room := gm.CreateRoom(pointsLimit)
	client.RoomCode = room.Code

	gm.sendMessage(client, map[string]any{
		"type":         constants.MSG_ROOM_CREATED,
		"room_code":    room.Code,
		"points_limit": pointsLimit,
	})
}

func (gm *Manager) HandleJoinGame(client *models.Client, msg map[string]any) {
	if client.Role != models.RoleUnassigned {
		// Role is assigned exactly once per connection
		return
	}

	requestedRole := models.RolePlayer
	if v, ok := msg["role"].(string); ok && v == string(models.RoleObserver) {
		requestedRole = models.RoleObserver
	}

	room, exists := gm.GetRoom(client.RoomCode)
	if !exists {
		gm.sendMessage(client, map[string]any{
			"type":    constants.MSG_ERROR,
			"message": "Room does not exist",
		})
		return
	}

	gm.JoinRoom(room, client, requestedRole)

	if client.Role == models.RolePlayer {
		gm.sendMessage(client, map[string]any{
			"type":       constants.MSG_JOINED_AS_PLAYER,
			"player_num": client.PlayerNum,
			"room_code":  room.Code,
		})
	} else {
		gm.sendMessage(client, map[string]any{
			"type":      constants.MSG_JOINED_AS_OBSERVER,
			"room_code": room.Code,
		})
	}

	gm.broadcastStatus(room)
}

// HandlePlayerReady flips this player's ready flag. Observers and duplicate
// ready signals are silently ignored.
func (gm *Manager) HandlePlayerReady(client *models.Client) {
	if client.Role != models.RolePlayer {
		return
	}
	room, exists := gm.GetRoom(client.RoomCode)
	if !exists {
		return
	}

	room.Mutex.Lock()
	room.Engine.PlayerReady(client.PlayerNum)
	room.Mutex.Unlock()

	gm.broadcastStatus(room)
}

// HandleMovePaddle records a paddle intent. The engine no-ops paddle motion
// outside the playing phase, so applying it early is harmless.
func (gm *Manager) HandleMovePaddle(client *models.Client, msg map[string]any) {
	if client.Role != models.RolePlayer {
		return
	}
	room, exists := gm.GetRoom(client.RoomCode)
	if !exists {
		return
	}

	directionStr, ok := msg["direction"].(string)
	if !ok {
		return
	}
	direction := engine.Direction(directionStr)
	switch direction {
	case engine.DirUp, engine.DirDown, engine.DirStop:
	default:
		return
	}

	room.Mutex.Lock()
	room.Engine.SetPaddleDirection(client.PlayerNum, direction)
	room.Mutex.Unlock()
}

// Broadcast fans a message out to every player and observer in the room. The
// roster is read under the room lock but the sends are non-blocking channel
// writes: a subscriber whose queue is full or closed is dropped (its write
// pump shuts the socket down) and delivery to the rest continues.
func (gm *Manager) Broadcast(room *models.Room, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.WithField("room", room.Code).Errorf("marshal broadcast: %v", err)
		return
	}

	room.Mutex.RLock()
	clients := make([]*models.Client, 0, len(room.Players)+len(room.Observers))
	for _, p := range room.Players {
		clients = append(clients, p)
	}
	for _, o := range room.Observers {
		clients = append(clients, o)
	}
	room.Mutex.RUnlock()

	for _, c := range clients {
		gm.deliver(c, data)
	}
}

func (gm *Manager) broadcastStatus(room *models.Room) {
	room.Mutex.RLock()
	status := room.Engine.Status
	room.Mutex.RUnlock()

	gm.Broadcast(room, map[string]any{
		"type":   constants.MSG_STATUS_CHANGE,
		"status": status,
	})
}

func (gm *Manager) sendMessage(client *models.Client, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.WithField("client", client.ID).Errorf("marshal message: %v", err)
		return
	}
	gm.deliver(client, data)
}

func (gm *Manager) deliver(client *models.Client, data []byte) {
	defer func() {
		// Send channel may already be closed by a previous failed delivery
		if r := recover(); r != nil {
			logger.Log.WithField("client", client.ID).Debug("dropped message to closed client")
		}
	}()
	select {
	case client.Send <- data:
	default:
		logger.Log.WithField("client", client.ID).Warn("send queue full, dropping client")
		client.CloseSend()
	}
}
