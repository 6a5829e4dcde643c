package main

import (
	"net/http"

	"pong-backend/config"
	"pong-backend/game"
	"pong-backend/handlers"
	"pong-backend/logger"
	"pong-backend/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg)

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log.Fatalf("open match history store: %v", err)
	}
	defer store.Close()

	gameManager := game.NewManager(store)

	wsHandler := handlers.NewWebSocketHandler(gameManager)
	matchesHandler := handlers.NewMatchesHandler(store)

	mux := http.NewServeMux()

	// WebSocket (game rooms)
	mux.Handle("/ws/game/", wsHandler)

	// Match history
	mux.Handle("/matches", matchesHandler)

	// Health check endpoint (for load balancers)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	logger.Log.Infof("Pong server listening on :%s", cfg.Port)
	logger.Log.Infof("WebSocket endpoint: /ws/game/{room_code}")
	logger.Log.Fatal(http.ListenAndServe(":"+cfg.Port, mux))
}
