package models

import (
	"sync"

	"pong-backend/engine"
)

type Role string

const (
	RoleUnassigned Role = ""
	RolePlayer     Role = "player"
	RoleObserver   Role = "observer"
)

// Client is one websocket connection. Role, PlayerNum and RoomCode are
// written only by that connection's read pump, so they need no lock.
type Client struct {
	ID       string
	Send     chan []byte `json:"-"`
	RoomCode string

	Role      Role
	PlayerNum int // 1 or 2 when Role == RolePlayer

	closeOnce sync.Once
}

// CloseSend closes the outbound channel, which makes the write pump shut the
// connection down. Safe to call more than once.
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// Room is one match instance: its engine, its rosters and the handle to its
// game loop. Engine and rosters are only touched under Mutex.
type Room struct {
	Code      string
	Engine    *engine.Engine
	Players   map[int]*Client
	Observers map[string]*Client
	Mutex     sync.RWMutex

	// Set by the loop once the final game_over has gone out
	GameOverSent bool

	stop    chan struct{}
	stopped bool
	stopMu  sync.Mutex
}

func NewRoom(code string, pointsLimit int) *Room {
	return &Room{
		Code:      code,
		Engine:    engine.NewEngine(code, pointsLimit),
		Players:   make(map[int]*Client),
		Observers: make(map[string]*Client),
		stop:      make(chan struct{}),
	}
}

// Done is closed when the registry tears the room down; the game loop selects
// on it between ticks.
func (r *Room) Done() <-chan struct{} {
	return r.stop
}

// StopLoop cancels the room's game loop. Idempotent, callable from any
// goroutine.
func (r *Room) StopLoop() {
	r.stopMu.Lock()
	defer r.stopMu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	close(r.stop)
}

// Empty reports whether no players and no observers remain.
func (r *Room) Empty() bool {
	r.Mutex.RLock()
	defer r.Mutex.RUnlock()
	return len(r.Players) == 0 && len(r.Observers) == 0
}
