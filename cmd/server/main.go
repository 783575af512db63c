package main

import (
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/memesocial/mockchat/internal/config"
	"github.com/memesocial/mockchat/internal/database"
	"github.com/memesocial/mockchat/internal/export"
	"github.com/memesocial/mockchat/internal/logging"
	"github.com/memesocial/mockchat/internal/quota"
	postgresrepo "github.com/memesocial/mockchat/internal/repository/postgres"
	"github.com/memesocial/mockchat/internal/service"
	"github.com/memesocial/mockchat/internal/transport/http/handlers"
	"github.com/memesocial/mockchat/internal/transport/http/middleware"
	"github.com/memesocial/mockchat/internal/transport/ws"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.Env)
	defer log.Sync()

	// Database
	if err := database.Migrate(cfg); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()
	log.Info("connected to database", zap.String("db", cfg.DBName))

	// Repositories
	chatRepo := postgresrepo.NewSavedChatRepo(pool)
	quotaRepo := postgresrepo.NewQuotaRepo(pool)
	settingsRepo := postgresrepo.NewSettingsRepo(pool)

	// Quota gate and export engine
	limits := quota.NewLimitsCache(settingsRepo, cfg.QuotaCacheTTL)
	gate := quota.NewGate(quotaRepo, limits)
	engine := export.NewEngine(gate, log)

	// Services
	chatService := service.NewChatService(chatRepo, log)

	// WebSocket hub for multi-tab session sync
	hub := ws.NewHub(log)
	go hub.Run()
	notifier := ws.NewHubNotifier(hub, log)
	chatService.SetNotifier(notifier)

	// Handlers
	chatHandler := handlers.NewChatHandler(chatService, log)
	exportHandler := handlers.NewExportHandler(engine, gate, log)
	exportHandler.SetNotifier(notifier)
	wsHandler := ws.NewHandler(hub, cfg.JWTSecret, log)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Protected - Saved chats
	mux.Handle("POST /api/v1/chats", auth(http.HandlerFunc(chatHandler.Create)))
	mux.Handle("GET /api/v1/chats", auth(http.HandlerFunc(chatHandler.List)))
	mux.Handle("GET /api/v1/chats/{id}", auth(http.HandlerFunc(chatHandler.Get)))
	mux.Handle("PUT /api/v1/chats/{id}", auth(http.HandlerFunc(chatHandler.Update)))
	mux.Handle("DELETE /api/v1/chats/{id}", auth(http.HandlerFunc(chatHandler.Delete)))

	// Protected - Export
	mux.Handle("POST /api/v1/export/download", auth(http.HandlerFunc(exportHandler.Download)))
	mux.Handle("POST /api/v1/export/copy", auth(http.HandlerFunc(exportHandler.Copy)))
	mux.Handle("POST /api/v1/export/bundle", auth(http.HandlerFunc(exportHandler.Bundle)))
	mux.Handle("GET /api/v1/export/quota", auth(http.HandlerFunc(exportHandler.Quota)))

	// WebSocket (token authenticated in the handshake)
	mux.HandleFunc("GET /ws", wsHandler.ServeWS)

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info("starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, middleware.CORS(mux)); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
