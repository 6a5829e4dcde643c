package game

import (
	"math"
	"time"

	"pong-backend/constants"
	"pong-backend/engine"
	"pong-backend/logger"
	"pong-backend/models"
)

// runLoop is the per-room game loop. It starts when the room is created and
// runs until the registry closes the room's stop channel. Every tick it
// broadcasts a snapshot; physics only advance while the match is playing. A
// panic here is contained to this room.
func (gm *Manager) runLoop(room *models.Room) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("room", room.Code).Errorf("game loop panic: %v", r)
		}
	}()

	ticker := time.NewTicker(constants.TICK_RATE)
	defer ticker.Stop()

	dt := constants.TICK_RATE.Seconds()

	for {
		select {
		case <-room.Done():
			return
		case <-ticker.C:
			gm.tick(room, dt)
		}
	}
}

// tick advances the engine one step and fans the resulting snapshot out. The
// engine is only touched under the room lock; the socket writes happen after
// it is released.
func (gm *Manager) tick(room *models.Room, dt float64) {
	room.Mutex.Lock()
	room.Engine.Update(dt)
	snapshot := snapshotPayload(room.Engine)
	finished := room.Engine.Status == engine.StatusFinished
	emitGameOver := finished && !room.GameOverSent
	if emitGameOver {
		room.GameOverSent = true
	}
	var gameOver map[string]any
	if emitGameOver {
		gameOver = gameOverPayload(room.Engine)
	}
	room.Mutex.Unlock()

	gm.Broadcast(room, snapshot)

	if !emitGameOver {
		return
	}

	if gm.Recorder != nil {
		room.Mutex.RLock()
		e := room.Engine
		err := gm.Recorder.SaveMatch(e.RoomCode, e.ScoreP1, e.ScoreP2, e.Winner, e.PointsLimit)
		room.Mutex.RUnlock()
		if err != nil {
			logger.Log.WithField("room", room.Code).Errorf("save match history: %v", err)
		}
	}

	gm.broadcastStatus(room)
	gm.Broadcast(room, gameOver)
	logger.Log.WithFields(map[string]interface{}{
		"room":   room.Code,
		"winner": gameOver["winner"],
	}).Info("game over")
}

func snapshotPayload(e *engine.Engine) map[string]any {
	return map[string]any{
		"type":     constants.MSG_GAME_UPDATE,
		"status":   e.Status,
		"p1_y":     round2(e.P1Y),
		"p2_y":     round2(e.P2Y),
		"ball_x":   round2(e.BallX),
		"ball_y":   round2(e.BallY),
		"score_p1": e.ScoreP1,
		"score_p2": e.ScoreP2,
		"winner":   e.Winner,
	}
}

func gameOverPayload(e *engine.Engine) map[string]any {
	return map[string]any{
		"type":         constants.MSG_GAME_OVER,
		"winner":       e.Winner,
		"final_score":  []int{e.ScoreP1, e.ScoreP2},
		"room_code":    e.RoomCode,
		"points_limit": e.PointsLimit,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
