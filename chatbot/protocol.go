package chatbot

import "github.com/korylprince/twin-client/twin"

// ChatRequest is the request body for the backend chat endpoint
type ChatRequest struct {
	Query   string              `json:"query"`
	History []twin.HistoryEntry `json:"history"` // never nil; empty history is sent as []
}

// ChatResponse is a validated answer from the backend chat endpoint
type ChatResponse struct {
	Response string
	Sources  []string // nil when the backend sent no sources field
}

// chatResponseBody is the raw response body; Response is a pointer so a missing field can be detected
type chatResponseBody struct {
	Response *string  `json:"response"`
	Sources  []string `json:"sources"`
}

// ClientMessage is the message format from a panel client to the events socket
type ClientMessage struct {
	Message string `json:"message"`
}

// ServerMessage is the message format from the events socket to a panel client
type ServerMessage struct {
	Type    string               `json:"type"`              // "message", "status", "pending", "done", or "error"
	Message *twin.Message        `json:"message,omitempty"` // sent with "message"
	Status  *twin.StatusSnapshot `json:"status,omitempty"`  // sent with "status"
	Error   string               `json:"error,omitempty"`   // sent with "error"
}

// Message types
const (
	MessageTypeMessage = "message"
	MessageTypeStatus  = "status"
	MessageTypePending = "pending" // a submission was accepted and the backend is being asked
	MessageTypeDone    = "done"
	MessageTypeError   = "error"
)
