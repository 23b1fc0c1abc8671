package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"fumibako/internal/model"
)

var validate = validator.New()

// CreateMessageRequest is the expected body of POST /api/messages
type CreateMessageRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Position string `json:"position" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

// ListResponse is the envelope of GET /api/messages
type ListResponse struct {
	Success  bool            `json:"success"`
	Messages []model.Message `json:"messages"`
	Count    int             `json:"count"`
}

// SubmitResponse is the envelope of POST /api/messages
type SubmitResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    model.Message `json:"data"`
}

// CleanupResponse is the envelope of POST /api/messages/cleanup
type CleanupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// CreateMessage handles POST /api/messages
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("[POST /api/messages] Request received from %s", r.RemoteAddr)

	// リクエストボディサイズを1MBに制限
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[POST /api/messages] ❌ Bad Request: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
		return
	}

	// 前後の空白を除去し、メールアドレスは小文字に正規化してから検証
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Position = strings.TrimSpace(req.Position)
	req.Message = strings.TrimSpace(req.Message)

	if err := validate.Struct(req); err != nil {
		log.Printf("[POST /api/messages] ❌ Validation failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "fullName, email, position and message are required, and email must be a valid address"})
		return
	}

	msg, err := h.Store.Append(model.MessageFields{
		FullName: req.FullName,
		Email:    req.Email,
		Position: req.Position,
		Message:  req.Message,
	})
	if err != nil {
		log.Printf("[POST /api/messages] ❌ Storage error: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create message"})
		return
	}

	log.Printf("[POST /api/messages] ✅ Created message: ID=%s, From=%q", msg.ID, msg.FullName)

	// WebSocket経由で他のクライアントに新着を通知
	h.Broadcast <- model.EventMessage{
		Type:      "message_created",
		ID:        msg.ID,
		Timestamp: msg.Timestamp,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitResponse{
		Success: true,
		Message: "Message submitted successfully",
		Data:    msg,
	})
}

// GetMessages handles GET /api/messages
// 保存されているメッセージを新しい順にすべて返す
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	log.Printf("[GET /api/messages] Request received from %s", r.RemoteAddr)

	messages, err := h.Store.List()
	if err != nil {
		log.Printf("[GET /api/messages] ❌ Storage error: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to load messages"})
		return
	}

	if messages == nil {
		messages = []model.Message{}
	}

	log.Printf("[GET /api/messages] ✅ Returned %d messages", len(messages))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{
		Success:  true,
		Messages: messages,
		Count:    len(messages),
	})
}

// DeleteMessage handles DELETE /api/messages/{id}
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[DELETE /api/messages/%s] Request received from %s", id, r.RemoteAddr)

	deleted, err := h.Store.Delete(id)
	if err != nil {
		log.Printf("[DELETE /api/messages/%s] ❌ Storage error: %v", id, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete message"})
		return
	}

	if !deleted {
		log.Printf("[DELETE /api/messages/%s] ❌ Not Found", id)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Message not found"})
		return
	}

	log.Printf("[DELETE /api/messages/%s] ✅ Deleted successfully", id)

	// WebSocket経由で他のクライアントに削除を通知
	h.Broadcast <- model.EventMessage{
		Type:      "message_deleted",
		ID:        id,
		Timestamp: time.Now(),
	}
	log.Printf("[WebSocket] 📢 Broadcasting delete event for message: %s", id)

	w.WriteHeader(http.StatusNoContent)
}

// CleanupMessages handles POST /api/messages/cleanup
// 最新 CleanupKeep 件だけを残して古いメッセージを破棄する
func (h *Handler) CleanupMessages(w http.ResponseWriter, r *http.Request) {
	log.Printf("[POST /api/messages/cleanup] Request received from %s", r.RemoteAddr)

	count, err := h.Store.Cleanup(h.Config.CleanupKeep)
	if err != nil {
		log.Printf("[POST /api/messages/cleanup] ❌ Storage error: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to clean up messages"})
		return
	}

	log.Printf("[POST /api/messages/cleanup] ✅ Cleanup completed, %d messages remaining", count)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CleanupResponse{
		Success: true,
		Message: fmt.Sprintf("Cleanup completed. %d messages remaining", count),
		Count:   count,
	})
}
