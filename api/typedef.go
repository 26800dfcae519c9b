package api

import (
	"sync"
	"time"

	"github.com/aldo-g/earliest-elephant/typedef"
)

// WebSocket message types
type MessageType string

const (
	// Outgoing message types (server to client)
	MessageTypeRecordSelected MessageType = "record_selected"
	MessageTypePanelClosed    MessageType = "panel_closed"
	MessageTypeSelection      MessageType = "selection"
	MessageTypeError          MessageType = "error"
	MessageTypeAck            MessageType = "ack"
	MessageTypePing           MessageType = "ping"

	// Incoming message types (client to server)
	MessageTypeClosePanel   MessageType = "close_panel"
	MessageTypeGetSelection MessageType = "get_selection"
)

// Base WebSocket message structure
type WSMessage struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"request_id,omitempty"` // For correlating responses
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// RecordSelectedData is sent whenever a map click resolves to a record.
type RecordSelectedData struct {
	Record typedef.SightingRecord `json:"record"`
	Title  string                 `json:"title"`
	Pages  int                    `json:"pages"`
}

// StatusData is served on /status.
type StatusData struct {
	Clients    int     `json:"clients"`
	Selected   string  `json:"selected,omitempty"`
	Goroutines int     `json:"goroutines"`
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Uptime     string  `json:"uptime"`
}

// API struct for WebSocket server
type API struct {
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
	handlers   map[MessageType]MessageHandler

	closeRequests chan struct{}
	done          chan struct{}
	started       time.Time

	mu       sync.RWMutex
	selected *typedef.SightingRecord
	count    int
}

// WebSocket client representation
type WSClient struct {
	conn WSConnection
	send chan WSMessage
	api  *API
	id   string
}

// Interface for WebSocket connection (for easier testing)
type WSConnection interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

// Message handler function type
type MessageHandler func(*WSClient, WSMessage) error
