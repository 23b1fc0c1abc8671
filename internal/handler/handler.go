package handler

import (
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"fumibako/internal/config"
	"fumibako/internal/model"
	"fumibako/internal/store"
)

// Handler holds application dependencies
type Handler struct {
	Store     *store.Store
	Config    config.Config
	Clients   map[*websocket.Conn]bool
	ClientMu  sync.RWMutex
	Broadcast chan model.EventMessage

	upgrader websocket.Upgrader
}

// New creates a new Handler with the given dependencies
func New(st *store.Store, cfg config.Config) *Handler {
	return &Handler{
		Store:     st,
		Config:    cfg,
		Clients:   make(map[*websocket.Conn]bool),
		Broadcast: make(chan model.EventMessage, 100),
		upgrader:  newUpgrader(cfg.AllowedOrigins),
	}
}

// SetupRouter configures and returns the HTTP router
func (h *Handler) SetupRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")

	// REST API
	r.HandleFunc("/api/messages", h.GetMessages).Methods("GET")
	r.HandleFunc("/api/messages", h.CreateMessage).Methods("POST")
	r.HandleFunc("/api/messages/cleanup", h.CleanupMessages).Methods("POST")
	r.HandleFunc("/api/messages/{id}", h.DeleteMessage).Methods("DELETE")

	// WebSocket
	r.HandleFunc("/ws", h.HandleWebSocket).Methods("GET")

	return r
}
