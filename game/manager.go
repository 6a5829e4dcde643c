package game

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"pong-backend/constants"
	"pong-backend/logger"
	"pong-backend/models"
)

// MatchRecorder persists finished matches. Satisfied by *storage.Store.
type MatchRecorder interface {
	SaveMatch(roomCode string, scoreP1, scoreP2 int, winner string, pointsLimit int) error
}

// Manager is the process-wide room registry. Its mutex only guards the Rooms
// map; each room carries its own lock, so traffic in different rooms never
// contends.
type Manager struct {
	Rooms    map[string]*models.Room
	Mutex    sync.RWMutex
	Recorder MatchRecorder
}

func NewManager(recorder MatchRecorder) *Manager {
	return &Manager{
		Rooms:    make(map[string]*models.Room),
		Recorder: recorder,
	}
}

// CreateRoom allocates a room under a fresh collision-checked code and starts
// its game loop.
func (gm *Manager) CreateRoom(pointsLimit int) *models.Room {
	gm.Mutex.Lock()
	var code string
	for {
		code = newRoomCode()
		if _, exists := gm.Rooms[code]; !exists {
			break
		}
	}
	room := models.NewRoom(code, pointsLimit)
	gm.Rooms[code] = room
	gm.Mutex.Unlock()

	go gm.runLoop(room)

	logger.Log.WithField("room", code).Info("room created")
	return room
}

func (gm *Manager) GetRoom(code string) (*models.Room, bool) {
	gm.Mutex.RLock()
	defer gm.Mutex.RUnlock()
	room, exists := gm.Rooms[code]
	return room, exists
}

// JoinRoom assigns a role in the room. A player request gets the lowest free
// slot; with both slots taken it silently becomes an observer, so joining a
// full room never fails.
func (gm *Manager) JoinRoom(room *models.Room, client *models.Client, requestedRole models.Role) {
	room.Mutex.Lock()
	if requestedRole == models.RolePlayer {
		switch {
		case room.Players[1] == nil:
			client.Role = models.RolePlayer
			client.PlayerNum = 1
		case room.Players[2] == nil:
			client.Role = models.RolePlayer
			client.PlayerNum = 2
		default:
			client.Role = models.RoleObserver
		}
	} else {
		client.Role = models.RoleObserver
	}

	if client.Role == models.RolePlayer {
		room.Players[client.PlayerNum] = client
		room.Engine.PlayerJoin(client.PlayerNum)
	} else {
		room.Observers[client.ID] = client
	}
	room.Mutex.Unlock()

	logger.Log.WithFields(map[string]interface{}{
		"room":   room.Code,
		"client": client.ID,
		"role":   client.Role,
		"slot":   client.PlayerNum,
	}).Info("client joined room")
}

// RemoveClient drops the connection from whichever roster holds it and tears
// the room down once both rosters are empty. Safe to call for connections
// that never joined, and safe to call twice.
func (gm *Manager) RemoveClient(client *models.Client) {
	if client.RoomCode == "" {
		return
	}
	room, exists := gm.GetRoom(client.RoomCode)
	if !exists {
		return
	}

	wasPlayer := false
	room.Mutex.Lock()
	if client.Role == models.RolePlayer {
		if room.Players[client.PlayerNum] == client {
			delete(room.Players, client.PlayerNum)
			wasPlayer = true
		}
	} else {
		delete(room.Observers, client.ID)
	}
	room.Mutex.Unlock()

	if wasPlayer {
		gm.Broadcast(room, map[string]any{
			"type":       constants.MSG_PLAYER_DISCONNECTED,
			"player_num": client.PlayerNum,
		})
		logger.Log.WithFields(map[string]interface{}{
			"room": room.Code,
			"slot": client.PlayerNum,
		}).Info("player disconnected")
	}

	gm.removeRoomIfEmpty(room)
}

// removeRoomIfEmpty cancels the loop and drops the room from the registry
// once nobody is left. Concurrent disconnects may both get here; the second
// call finds the room already gone and does nothing.
func (gm *Manager) removeRoomIfEmpty(room *models.Room) {
	if !room.Empty() {
		return
	}
	gm.Mutex.Lock()
	if current, ok := gm.Rooms[room.Code]; ok && current == room {
		delete(gm.Rooms, room.Code)
		room.StopLoop()
		logger.Log.WithField("room", room.Code).Info("room removed")
	}
	gm.Mutex.Unlock()
}

func newRoomCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
