package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Fumibako API Server",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"GET /api/messages":          "Get all messages",
			"POST /api/messages":         "Submit new message",
			"DELETE /api/messages/{id}":  "Delete specific message",
			"POST /api/messages/cleanup": "Keep only the latest messages",
			"GET /health":                "Health check",
		},
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.Store.Count()
	if err != nil {
		log.Printf("[GET /health] ❌ Storage error: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to read messages"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "healthy",
		"timestamp":      time.Now().Format(time.RFC3339),
		"messages_count": count,
	})
}
