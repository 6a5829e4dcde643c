package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists completed-match records. Live game state is never written;
// a crash loses in-progress rooms by design.
type Store struct {
	db *sql.DB
}

type Match struct {
	ID           int64     `json:"id"`
	RoomCode     string    `json:"room_code"`
	Player1Score int       `json:"player1_score"`
	Player2Score int       `json:"player2_score"`
	Winner       string    `json:"winner"`
	PointsLimit  int       `json:"points_limit"`
	CreatedAt    time.Time `json:"created_at"`
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS match_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room_code TEXT NOT NULL,
		player1_score INTEGER NOT NULL,
		player2_score INTEGER NOT NULL,
		winner TEXT NOT NULL,
		points_limit INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_match_history_room_code ON match_history(room_code);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// SaveMatch writes one completed match. Called exactly once per finished
// room, by the room's game loop.
func (s *Store) SaveMatch(roomCode string, scoreP1, scoreP2 int, winner string, pointsLimit int) error {
	_, err := s.db.Exec(
		`INSERT INTO match_history (room_code, player1_score, player2_score, winner, points_limit)
		 VALUES (?, ?, ?, ?, ?)`,
		roomCode, scoreP1, scoreP2, winner, pointsLimit,
	)
	return err
}

// RecentMatches returns the newest completed matches, most recent first.
func (s *Store) RecentMatches(limit int) ([]Match, error) {
	rows, err := s.db.Query(
		`SELECT id, room_code, player1_score, player2_score, winner, points_limit, created_at
		 FROM match_history ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]Match, 0, limit)
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.Player1Score, &m.Player2Score,
			&m.Winner, &m.PointsLimit, &m.CreatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
