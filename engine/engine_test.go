package engine

import (
	"math"
	"testing"

	"pong-backend/constants"
)

const tickDt = 1.0 / 60.0

func newPlayingEngine(t *testing.T, pointsLimit int) *Engine {
	t.Helper()
	e := NewEngine("TEST1234", pointsLimit)
	e.PlayerJoin(1)
	e.PlayerJoin(2)
	e.PlayerReady(1)
	e.PlayerReady(2)
	if e.Status != StatusPlaying {
		t.Fatalf("expected playing status, got %s", e.Status)
	}
	return e
}

func speed(e *Engine) float64 {
	return math.Sqrt(e.BallVX*e.BallVX + e.BallVY*e.BallVY)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPhaseTransitions(t *testing.T) {
	e := NewEngine("TEST1234", 5)
	if e.Status != StatusWaitingForOpponent {
		t.Fatalf("new engine status = %s, want waiting_for_opponent", e.Status)
	}

	e.PlayerJoin(1)
	if e.Status != StatusWaitingForOpponent {
		t.Fatalf("status after one join = %s, want waiting_for_opponent", e.Status)
	}

	e.PlayerJoin(2)
	if e.Status != StatusWaitingForReady {
		t.Fatalf("status after both joins = %s, want waiting_for_ready", e.Status)
	}

	e.PlayerReady(1)
	if e.Status != StatusWaitingForReady {
		t.Fatalf("status after one ready = %s, want waiting_for_ready", e.Status)
	}

	e.PlayerReady(2)
	if e.Status != StatusPlaying {
		t.Fatalf("status after both ready = %s, want playing", e.Status)
	}
	if speed(e) == 0 {
		t.Fatal("ball velocity not seeded at game start")
	}
}

func TestReadyBeforeOpponentIsInert(t *testing.T) {
	e := NewEngine("TEST1234", 5)
	e.PlayerJoin(1)
	e.PlayerReady(1)
	if e.Status != StatusWaitingForOpponent {
		t.Fatalf("status = %s, want waiting_for_opponent", e.Status)
	}

	e.PlayerJoin(2)
	e.PlayerReady(2)
	if e.Status != StatusPlaying {
		t.Fatalf("status = %s, want playing once both joined and ready", e.Status)
	}
}

func TestDuplicateReadyIsIdempotent(t *testing.T) {
	e := NewEngine("TEST1234", 5)
	e.PlayerJoin(1)
	e.PlayerJoin(2)
	e.PlayerReady(1)
	e.PlayerReady(1)
	if e.Status != StatusWaitingForReady {
		t.Fatalf("status after duplicate ready = %s, want waiting_for_ready", e.Status)
	}
	e.PlayerReady(2)
	if e.Status != StatusPlaying {
		t.Fatalf("status = %s, want playing", e.Status)
	}
}

func TestUpdateIsNoOpOutsidePlaying(t *testing.T) {
	e := NewEngine("TEST1234", 5)
	e.PlayerJoin(1)
	e.PlayerJoin(2)
	e.SetPaddleDirection(1, DirUp)
	e.BallVX = 60

	before := *e
	e.Update(tickDt)
	if e.P1Y != before.P1Y || e.BallX != before.BallX {
		t.Fatal("engine mutated state outside playing phase")
	}
}

func TestBallIntegratesVelocity(t *testing.T) {
	e := newPlayingEngine(t, 5)
	e.BallX, e.BallY = 50, 50
	e.BallVX, e.BallVY = 12, -6

	e.Update(tickDt)

	if !almostEqual(e.BallX, 50+12*tickDt) {
		t.Fatalf("ball x = %v, want %v", e.BallX, 50+12*tickDt)
	}
	if !almostEqual(e.BallY, 50-6*tickDt) {
		t.Fatalf("ball y = %v, want %v", e.BallY, 50-6*tickDt)
	}
}

func TestPaddleMovesAndClamps(t *testing.T) {
	e := newPlayingEngine(t, 5)
	e.BallVX, e.BallVY = 0, 0
	e.BallX, e.BallY = 50, 50
	e.SetPaddleDirection(1, DirUp)

	e.Update(tickDt)
	want := 50 - constants.PADDLE_SPEED*tickDt
	if !almostEqual(e.P1Y, want) {
		t.Fatalf("p1 y = %v, want %v", e.P1Y, want)
	}

	// Hold up long enough to hit the top bound
	for i := 0; i < 120; i++ {
		e.Update(tickDt)
	}
	if e.P1Y != constants.PADDLE_HEIGHT/2 {
		t.Fatalf("p1 y = %v, want clamped at %v", e.P1Y, constants.PADDLE_HEIGHT/2)
	}

	e.SetPaddleDirection(1, DirStop)
	e.Update(tickDt)
	if e.P1Y != constants.PADDLE_HEIGHT/2 {
		t.Fatal("paddle moved while stopped")
	}
}

func TestWallBounceIsElastic(t *testing.T) {
	e := newPlayingEngine(t, 5)
	e.BallX, e.BallY = 50, 1.5
	e.BallVX, e.BallVY = 0, -60

	ev := e.Update(tickDt)
	if !ev.WallHit {
		t.Fatal("expected wall hit")
	}
	if e.BallVY != 60 {
		t.Fatalf("vy = %v, want 60 (sign inverted, magnitude preserved)", e.BallVY)
	}

	e.BallY = constants.FIELD_HEIGHT - 1.5
	e.BallVY = 60
	ev = e.Update(tickDt)
	if !ev.WallHit {
		t.Fatal("expected bottom wall hit")
	}
	if e.BallVY != -60 {
		t.Fatalf("vy = %v, want -60", e.BallVY)
	}
}

func TestPaddleCollisionBouncesAndSpeedsUp(t *testing.T) {
	e := newPlayingEngine(t, 5)
	e.P1Y = 50
	e.BallX, e.BallY = 4, 50
	e.BallVX, e.BallVY = -60, 0

	ev := e.Update(tickDt)
	if !ev.PaddleHit {
		t.Fatal("expected paddle hit")
	}
	if e.BallVX <= 0 {
		t.Fatalf("vx = %v, want positive after bouncing off paddle 1", e.BallVX)
	}
	if !almostEqual(speed(e), 60*constants.SPEED_INCREASE_FACTOR) {
		t.Fatalf("speed = %v, want %v", speed(e), 60*constants.SPEED_INCREASE_FACTOR)
	}

	// The ball was pushed clear of the paddle face, so the next tick must
	// not register the same collision again
	ev = e.Update(tickDt)
	if ev.PaddleHit {
		t.Fatal("ball re-collided with the same paddle face on the next tick")
	}
}

func TestBallMovingAwayNeverBounces(t *testing.T) {
	e := newPlayingEngine(t, 5)

	// Overlapping paddle 1 but moving right, away from it
	e.P1Y = 50
	e.BallX, e.BallY = 2, 50
	e.BallVX, e.BallVY = 30, 0

	ev := e.Update(tickDt)
	if ev.PaddleHit {
		t.Fatal("registered collision for a ball moving away from paddle 1")
	}
	if e.BallVX != 30 {
		t.Fatalf("vx = %v, want unchanged 30", e.BallVX)
	}

	// Mirror case on paddle 2's side
	e.P2Y = 50
	e.BallX, e.BallY = constants.FIELD_WIDTH - 2, 50
	e.BallVX = -30
	ev = e.Update(tickDt)
	if ev.PaddleHit {
		t.Fatal("registered collision for a ball moving away from paddle 2")
	}
	if e.BallVX != -30 {
		t.Fatalf("vx = %v, want unchanged -30", e.BallVX)
	}
}

func TestPaddleCollisionAddsSpin(t *testing.T) {
	e := newPlayingEngine(t, 5)
	e.P1Y = 50
	// Hit below the paddle center
	e.BallX, e.BallY = 4, 55
	e.BallVX, e.BallVY = -60, 0

	ev := e.Update(tickDt)
	if !ev.PaddleHit {
		t.Fatal("expected paddle hit")
	}
	if e.BallVY <= 0 {
		t.Fatalf("vy = %v, want positive spin from hitting below center", e.BallVY)
	}
}

func TestBallSpeedIsCapped(t *testing.T) {
	e := newPlayingEngine(t, 5)
	e.P2Y = 50
	e.BallX, e.BallY = constants.FIELD_WIDTH - 4, 50
	e.BallVX, e.BallVY = constants.MAX_BALL_SPEED, 0

	ev := e.Update(tickDt)
	if !ev.PaddleHit {
		t.Fatal("expected paddle hit")
	}
	if speed(e) > constants.MAX_BALL_SPEED+1e-9 {
		t.Fatalf("speed = %v, exceeds cap %v", speed(e), constants.MAX_BALL_SPEED)
	}
}

func TestScoringIncrementsAndServesTowardConceder(t *testing.T) {
	e := newPlayingEngine(t, 5)
	e.BallX, e.BallY = 0.4, 50
	e.BallVX, e.BallVY = -60, 0

	ev := e.Update(tickDt)
	if ev.ScoredBy != 2 {
		t.Fatalf("scored by = %d, want 2", ev.ScoredBy)
	}
	if e.ScoreP2 != 1 || e.ScoreP1 != 0 {
		t.Fatalf("score = %d-%d, want 0-1", e.ScoreP1, e.ScoreP2)
	}
	if e.BallX != constants.FIELD_WIDTH/2 || e.BallY != constants.FIELD_HEIGHT/2 {
		t.Fatalf("ball not reset to center: (%v, %v)", e.BallX, e.BallY)
	}
	// Player 1 conceded the point, so the serve goes toward player 1
	if e.BallVX >= 0 {
		t.Fatalf("vx = %v, want serve toward player 1 (negative)", e.BallVX)
	}

	e.BallX, e.BallY = constants.FIELD_WIDTH-0.4, 50
	e.BallVX, e.BallVY = 60, 0
	ev = e.Update(tickDt)
	if ev.ScoredBy != 1 {
		t.Fatalf("scored by = %d, want 1", ev.ScoredBy)
	}
	if e.BallVX <= 0 {
		t.Fatalf("vx = %v, want serve toward player 2 (positive)", e.BallVX)
	}
}

func TestWinConditionIsTerminal(t *testing.T) {
	e := newPlayingEngine(t, 1)
	e.BallX, e.BallY = 0.4, 50
	e.BallVX, e.BallVY = -60, 0

	ev := e.Update(tickDt)
	if !ev.GameOver {
		t.Fatal("expected game over event")
	}
	if e.Status != StatusFinished {
		t.Fatalf("status = %s, want finished", e.Status)
	}
	if e.Winner != "Player 2" {
		t.Fatalf("winner = %q, want Player 2", e.Winner)
	}

	// Finished is terminal: further updates never mutate scores
	s1, s2 := e.ScoreP1, e.ScoreP2
	for i := 0; i < 10; i++ {
		e.Update(tickDt)
	}
	if e.ScoreP1 != s1 || e.ScoreP2 != s2 {
		t.Fatal("scores mutated after finish")
	}
}

func TestServeTargetPolicy(t *testing.T) {
	if got := serveTarget(1); got != 2 {
		t.Fatalf("serveTarget(1) = %d, want 2", got)
	}
	if got := serveTarget(2); got != 1 {
		t.Fatalf("serveTarget(2) = %d, want 1", got)
	}
}

func TestResetBallServeDirection(t *testing.T) {
	e := NewEngine("TEST1234", 5)
	for i := 0; i < 20; i++ {
		e.ResetBall(1)
		if e.BallVX >= 0 {
			t.Fatalf("serve toward player 1 has vx = %v, want negative", e.BallVX)
		}
		e.ResetBall(2)
		if e.BallVX <= 0 {
			t.Fatalf("serve toward player 2 has vx = %v, want positive", e.BallVX)
		}
		if !almostEqual(speed(e), constants.INITIAL_BALL_SPEED) {
			t.Fatalf("serve speed = %v, want %v", speed(e), constants.INITIAL_BALL_SPEED)
		}
	}
}
