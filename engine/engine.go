package engine

import (
	"math"
	"math/rand"
	"time"

	"pong-backend/constants"
)

// Status is the lifecycle phase of a match. Transitions only move forward:
// waiting_for_opponent -> waiting_for_ready -> playing -> finished.
type Status string

const (
	StatusWaitingForOpponent Status = "waiting_for_opponent"
	StatusWaitingForReady    Status = "waiting_for_ready"
	StatusPlaying            Status = "playing"
	StatusFinished           Status = "finished"
)

type Direction string

const (
	DirUp   Direction = "up"
	DirDown Direction = "down"
	DirStop Direction = "stop"
)

// Events reports what happened during a single Update tick.
type Events struct {
	PaddleHit bool
	WallHit   bool
	ScoredBy  int // 1 or 2, 0 if no point was scored
	GameOver  bool
}

// Engine is the authoritative simulation for one room. It is a pure state
// machine: no I/O, no locking, no clock reads beyond the dt handed to Update.
// The caller (the room) is responsible for synchronization.
type Engine struct {
	RoomCode    string
	PointsLimit int

	Status Status
	Winner string // "Player 1" or "Player 2" once finished

	Player1Connected bool
	Player2Connected bool
	Player1Ready     bool
	Player2Ready     bool

	ScoreP1 int
	ScoreP2 int

	// Paddle center Y positions, clamped to the field
	P1Y float64
	P2Y float64

	P1Direction Direction
	P2Direction Direction

	BallX  float64
	BallY  float64
	BallVX float64
	BallVY float64

	rng *rand.Rand
}

func NewEngine(roomCode string, pointsLimit int) *Engine {
	if pointsLimit <= 0 {
		pointsLimit = constants.DEFAULT_POINTS_LIMIT
	}
	return &Engine{
		RoomCode:    roomCode,
		PointsLimit: pointsLimit,
		Status:      StatusWaitingForOpponent,
		P1Y:         constants.FIELD_HEIGHT / 2,
		P2Y:         constants.FIELD_HEIGHT / 2,
		P1Direction: DirStop,
		P2Direction: DirStop,
		BallX:       constants.FIELD_WIDTH / 2,
		BallY:       constants.FIELD_HEIGHT / 2,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PlayerJoin marks a player slot as filled. Once both slots are filled the
// match moves to waiting_for_ready.
func (e *Engine) PlayerJoin(playerNum int) bool {
	switch playerNum {
	case 1:
		e.Player1Connected = true
	case 2:
		e.Player2Connected = true
	default:
		return false
	}
	if e.Player1Connected && e.Player2Connected && e.Status == StatusWaitingForOpponent {
		e.Status = StatusWaitingForReady
	}
	return true
}

// PlayerReady marks a player as ready. Duplicate or premature ready signals
// are accepted and inert.
func (e *Engine) PlayerReady(playerNum int) {
	switch playerNum {
	case 1:
		e.Player1Ready = true
	case 2:
		e.Player2Ready = true
	}
	if e.Player1Ready && e.Player2Ready && e.Status == StatusWaitingForReady {
		e.startGame()
	}
}

func (e *Engine) startGame() {
	e.Status = StatusPlaying
	serveTo := 1
	if e.rng.Intn(2) == 0 {
		serveTo = 2
	}
	e.ResetBall(serveTo)
}

// ResetBall recenters the ball and serves it toward the given player at a
// random angle within 45 degrees of horizontal.
func (e *Engine) ResetBall(serveToPlayer int) {
	e.BallX = constants.FIELD_WIDTH / 2
	e.BallY = constants.FIELD_HEIGHT / 2

	direction := -1.0
	if serveToPlayer == 2 {
		direction = 1.0
	}
	angle := (e.rng.Float64() - 0.5) * math.Pi / 2

	e.BallVX = direction * constants.INITIAL_BALL_SPEED * math.Cos(angle)
	e.BallVY = constants.INITIAL_BALL_SPEED * math.Sin(angle)
}

func (e *Engine) SetPaddleDirection(playerNum int, direction Direction) {
	switch playerNum {
	case 1:
		e.P1Direction = direction
	case 2:
		e.P2Direction = direction
	}
}

// Update advances the simulation by dt seconds and reports tick events.
// Outside the playing phase it is a no-op.
func (e *Engine) Update(dt float64) Events {
	var events Events
	if e.Status != StatusPlaying {
		return events
	}
	e.updatePaddles(dt)
	e.updateBall(dt, &events)
	return events
}

func (e *Engine) updatePaddles(dt float64) {
	switch e.P1Direction {
	case DirUp:
		e.P1Y -= constants.PADDLE_SPEED * dt
	case DirDown:
		e.P1Y += constants.PADDLE_SPEED * dt
	}
	switch e.P2Direction {
	case DirUp:
		e.P2Y -= constants.PADDLE_SPEED * dt
	case DirDown:
		e.P2Y += constants.PADDLE_SPEED * dt
	}

	halfHeight := constants.PADDLE_HEIGHT / 2
	e.P1Y = clamp(e.P1Y, halfHeight, constants.FIELD_HEIGHT-halfHeight)
	e.P2Y = clamp(e.P2Y, halfHeight, constants.FIELD_HEIGHT-halfHeight)
}

func (e *Engine) updateBall(dt float64, events *Events) {
	e.BallX += e.BallVX * dt
	e.BallY += e.BallVY * dt

	// Top and bottom walls reflect elastically
	halfBall := constants.BALL_SIZE / 2
	if e.BallY-halfBall <= 0 {
		e.BallY = halfBall
		e.BallVY = math.Abs(e.BallVY)
		events.WallHit = true
	} else if e.BallY+halfBall >= constants.FIELD_HEIGHT {
		e.BallY = constants.FIELD_HEIGHT - halfBall
		e.BallVY = -math.Abs(e.BallVY)
		events.WallHit = true
	}

	e.checkPaddleCollision(1, events)
	e.checkPaddleCollision(2, events)

	if e.BallX <= 0 {
		e.ScoreP2++
		events.ScoredBy = 2
		e.handleScore(2, events)
	} else if e.BallX >= constants.FIELD_WIDTH {
		e.ScoreP1++
		events.ScoredBy = 1
		e.handleScore(1, events)
	}
}

func (e *Engine) checkPaddleCollision(playerNum int, events *Events) {
	var paddleX, paddleY float64
	var movingTowardPaddle bool
	if playerNum == 1 {
		paddleX = constants.PADDLE_WIDTH
		paddleY = e.P1Y
		movingTowardPaddle = e.BallVX < 0
	} else {
		paddleX = constants.FIELD_WIDTH - constants.PADDLE_WIDTH
		paddleY = e.P2Y
		movingTowardPaddle = e.BallVX > 0
	}

	// A ball moving away from a paddle never bounces off it, even while the
	// two overlap right after a hit.
	if !movingTowardPaddle {
		return
	}

	halfBall := constants.BALL_SIZE / 2
	halfHeight := constants.PADDLE_HEIGHT / 2
	halfWidth := constants.PADDLE_WIDTH / 2

	if e.BallX+halfBall < paddleX-halfWidth || e.BallX-halfBall > paddleX+halfWidth {
		return
	}
	if e.BallY+halfBall < paddleY-halfHeight || e.BallY-halfBall > paddleY+halfHeight {
		return
	}

	events.PaddleHit = true
	e.BallVX = -e.BallVX

	// Vertical spin proportional to the offset from the paddle center
	hitPos := (e.BallY - paddleY) / halfHeight // -1 to 1
	e.BallVY += hitPos * constants.SPIN_FACTOR

	currentSpeed := math.Sqrt(e.BallVX*e.BallVX + e.BallVY*e.BallVY)
	newSpeed := math.Min(currentSpeed*constants.SPEED_INCREASE_FACTOR, constants.MAX_BALL_SPEED)
	if currentSpeed > 0 {
		e.BallVX = e.BallVX / currentSpeed * newSpeed
		e.BallVY = e.BallVY / currentSpeed * newSpeed
	}

	// Push the ball clear of the paddle face so the next tick cannot
	// register the same collision again
	if playerNum == 1 {
		e.BallX = paddleX + halfWidth + halfBall + 0.1
	} else {
		e.BallX = paddleX - halfWidth - halfBall - 0.1
	}
}

func (e *Engine) handleScore(scoredBy int, events *Events) {
	if e.ScoreP1 >= e.PointsLimit {
		e.Winner = "Player 1"
		e.Status = StatusFinished
		events.GameOver = true
		return
	}
	if e.ScoreP2 >= e.PointsLimit {
		e.Winner = "Player 2"
		e.Status = StatusFinished
		events.GameOver = true
		return
	}
	e.ResetBall(serveTarget(scoredBy))
}

// serveTarget is the serve policy after a point: the ball is served toward
// the player who just conceded it.
func serveTarget(scoredBy int) int {
	if scoredBy == 2 {
		return 1
	}
	return 2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
