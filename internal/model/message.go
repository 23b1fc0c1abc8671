package model

import "time"

// Message represents a stored contact-form submission
type Message struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Position  string    `json:"position"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt string    `json:"created_at"`
}

// MessageFields holds the caller-supplied fields of a new message;
// id and timestamp are assigned by the store
type MessageFields struct {
	FullName string
	Email    string
	Position string
	Message  string
}

// EventMessage is used for WebSocket store-change notifications
type EventMessage struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}
