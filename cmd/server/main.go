package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/studio/internal/asset"
	"github.com/inamate/studio/internal/auth"
	"github.com/inamate/studio/internal/config"
	"github.com/inamate/studio/internal/db"
	"github.com/inamate/studio/internal/document"
	"github.com/inamate/studio/internal/engine"
	mw "github.com/inamate/studio/internal/middleware"
	"github.com/inamate/studio/internal/session"
	"github.com/inamate/studio/internal/template"
	"github.com/inamate/studio/internal/typeid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	templateService := template.NewService(template.NewStore(pool))
	templateHandler := template.NewHandler(templateService)

	assetHandler := asset.NewHandler(cfg.AssetDir)

	hub := session.NewHub()
	go hub.Run()

	engineOpts := []engine.Option{
		engine.WithHistoryLimit(cfg.HistoryLimit),
		engine.WithZoomRange(cfg.ZoomMin, cfg.ZoomMax),
		engine.WithCanvasSize(cfg.CanvasWidth, cfg.CanvasHeight),
		engine.WithGridSize(cfg.GridSize),
	}

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.CORSOrigins()))

	// Auth routes (public)
	r.HandleFunc("/auth/guest", authHandler.Guest).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Sample document for clients that start without a template
	r.HandleFunc("/templates/sample", func(w http.ResponseWriter, r *http.Request) {
		data, err := document.Marshal(document.NewSampleDocument())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}).Methods("GET")
	r.HandleFunc("/templates/public", templateHandler.ListPublic).Methods("GET")

	// Asset endpoints (public)
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/assets/{assetId}", assetHandler.Remove).Methods("DELETE", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/templates", templateHandler.List).Methods("GET")
	api.HandleFunc("/templates", templateHandler.Create).Methods("POST")
	api.HandleFunc("/templates/{templateId}", templateHandler.Get).Methods("GET")
	api.HandleFunc("/templates/{templateId}", templateHandler.Update).Methods("PUT")
	api.HandleFunc("/templates/{templateId}", templateHandler.Delete).Methods("DELETE")

	// WebSocket endpoint
	r.HandleFunc("/ws/edit", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, templateService, cfg.Origins(), engineOpts)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Close editing sessions before the listener goes away
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service,
	templates session.TemplateStore, origins []string, engineOpts []engine.Option) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	sessionID := typeid.NewSessionID()
	clientID := uuid.New().String()
	logger := slog.Default().With("session", sessionID, "user", userID)

	editor := session.NewEditor(userID, templates, logger, engineOpts...)
	s := session.NewSession(hub, conn, editor, sessionID, userID, clientID)

	if !hub.Register(s) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go s.WritePump(ctx)
	s.ReadPump(ctx)
}
