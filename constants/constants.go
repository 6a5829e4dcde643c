package constants

import "time"

const (
	// Field geometry, 0-100 coordinate system
	FIELD_WIDTH   = 100.0
	FIELD_HEIGHT  = 100.0
	PADDLE_WIDTH  = 2.0
	PADDLE_HEIGHT = 20.0
	BALL_SIZE     = 2.0

	// Speeds in field units per second
	INITIAL_BALL_SPEED    = 48.0
	MAX_BALL_SPEED        = 180.0
	PADDLE_SPEED          = 90.0
	SPEED_INCREASE_FACTOR = 1.05 // 5% speed increase per paddle hit
	SPIN_FACTOR           = 30.0

	DEFAULT_POINTS_LIMIT = 5

	TICK_RATE = time.Second / 60

	// Client -> server message types
	MSG_CREATE_ROOM  = "create_room"
	MSG_JOIN_GAME    = "join_game"
	MSG_PLAYER_READY = "player_ready"
	MSG_MOVE_PADDLE  = "move_paddle"

	// Server -> client message types
	MSG_ROOM_CREATED        = "room_created"
	MSG_JOINED_AS_PLAYER    = "joined_as_player"
	MSG_JOINED_AS_OBSERVER  = "joined_as_observer"
	MSG_STATUS_CHANGE       = "status_change"
	MSG_GAME_UPDATE         = "game_update"
	MSG_GAME_OVER           = "game_over"
	MSG_PLAYER_DISCONNECTED = "player_disconnected"
	MSG_ERROR               = "error"
)
