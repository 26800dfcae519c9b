// Package api streams map selections to remote story panels over websocket and exposes
// metrics and process status on the same router.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/aldo-g/earliest-elephant/metrics"
	"github.com/aldo-g/earliest-elephant/typedef"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Remote panels are served from arbitrary local origins
		return true
	},
}

// NewAPI creates a hub; call Run to start dispatching.
func NewAPI() *API {
	api := &API{
		clients:       make(map[*WSClient]bool),
		broadcast:     make(chan WSMessage, 256),
		register:      make(chan *WSClient),
		unregister:    make(chan *WSClient),
		handlers:      make(map[MessageType]MessageHandler),
		closeRequests: make(chan struct{}, 1),
		done:          make(chan struct{}),
		started:       time.Now(),
	}

	api.registerHandlers()

	return api
}

// Run handles the main WebSocket hub logic until ctx is done.
func (api *API) Run(ctx context.Context) {
	defer close(api.done)
	for {
		select {
		case <-ctx.Done():
			for client := range api.clients {
				close(client.send)
				delete(api.clients, client)
			}
			api.setCount(0)
			return

		case client := <-api.register:
			api.clients[client] = true
			api.setCount(len(api.clients))

			ackMsg := WSMessage{
				Type:      MessageTypeAck,
				Data:      client.id,
				Timestamp: time.Now(),
			}
			select {
			case client.send <- ackMsg:
			default:
				close(client.send)
				delete(api.clients, client)
			}

			log.Printf("[API] Client %s connected", client.id)

		case client := <-api.unregister:
			if _, ok := api.clients[client]; ok {
				delete(api.clients, client)
				close(client.send)
				api.setCount(len(api.clients))
				log.Printf("[API] Client %s disconnected", client.id)
			}

		case message := <-api.broadcast:
			for client := range api.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(api.clients, client)
				}
			}
			api.setCount(len(api.clients))
		}
	}
}

func (api *API) setCount(n int) {
	api.mu.Lock()
	api.count = n
	api.mu.Unlock()
}

// ClientCount is the number of registered websocket clients.
func (api *API) ClientCount() int {
	api.mu.RLock()
	defer api.mu.RUnlock()
	return api.count
}

func (api *API) publish(msg WSMessage) {
	select {
	case api.broadcast <- msg:
	default:
		log.Printf("[API] Broadcast queue full, dropping %s", msg.Type)
	}
}

// RecordSelected broadcasts a selection to every connected panel.
func (api *API) RecordSelected(rec typedef.SightingRecord) {
	api.mu.Lock()
	api.selected = &rec
	api.mu.Unlock()

	metrics.RecordsPublishedTotal.Inc()
	api.publish(WSMessage{
		Type: MessageTypeRecordSelected,
		Data: RecordSelectedData{
			Record: rec,
			Title:  rec.Title(),
			Pages:  len(rec.Story),
		},
		Timestamp: time.Now(),
	})
}

// PanelClosed tells remote panels the in-app panel was dismissed.
func (api *API) PanelClosed() {
	api.mu.Lock()
	api.selected = nil
	api.mu.Unlock()

	api.publish(WSMessage{Type: MessageTypePanelClosed, Timestamp: time.Now()})
}

// CloseRequests yields a value whenever a remote client asks to close the panel.
func (api *API) CloseRequests() <-chan struct{} {
	return api.closeRequests
}

// Router wires the websocket endpoint, metrics and status.
func (api *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", api.handleWebSocket)
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/status", api.handleStatus).Methods("GET")
	return r
}

// Serve listens on addr until ctx is done.
func (api *API) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[API] WebSocket server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// handleWebSocket handles WebSocket connections
func (api *API) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] WebSocket upgrade failed: %v", err)
		return
	}

	client := &WSClient{
		conn: conn,
		send: make(chan WSMessage, 256),
		api:  api,
		id:   uuid.New().String(),
	}

	select {
	case api.register <- client:
	case <-api.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// writePump pumps messages from the hub to the websocket connection
func (c *WSClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("[API] Error writing message to client %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteJSON(WSMessage{
				Type:      MessageTypePing,
				Timestamp: time.Now(),
			}); err != nil {
				return
			}
		}
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *WSClient) readPump() {
	defer func() {
		select {
		case c.api.unregister <- c:
		case <-c.api.done:
		}
		c.conn.Close()
	}()

	for {
		var message WSMessage
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[API] WebSocket error: %v", err)
			}
			return
		}

		if err := c.handleMessage(message); err != nil {
			c.reply(WSMessage{
				Type:      MessageTypeError,
				RequestID: message.RequestID,
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
		}
	}
}

// reply sends directly to one client; a full queue drops the message.
func (c *WSClient) reply(msg WSMessage) {
	defer func() {
		// The hub may have closed send after unregistering a slow client.
		recover()
	}()
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage processes incoming messages from clients
func (c *WSClient) handleMessage(message WSMessage) error {
	handler, exists := c.api.handlers[message.Type]
	if !exists {
		return fmt.Errorf("unknown message type: %s", message.Type)
	}

	return handler(c, message)
}

func (api *API) registerHandlers() {
	api.handlers[MessageTypeClosePanel] = api.handleClosePanel
	api.handlers[MessageTypeGetSelection] = api.handleGetSelection
}

func (api *API) handleClosePanel(client *WSClient, message WSMessage) error {
	select {
	case api.closeRequests <- struct{}{}:
	default:
		// A close is already pending
	}
	return nil
}

func (api *API) handleGetSelection(client *WSClient, message WSMessage) error {
	api.mu.RLock()
	selected := api.selected
	api.mu.RUnlock()

	var data interface{}
	if selected != nil {
		data = RecordSelectedData{Record: *selected, Title: selected.Title(), Pages: len(selected.Story)}
	}
	client.reply(WSMessage{
		Type:      MessageTypeSelection,
		RequestID: message.RequestID,
		Data:      data,
		Timestamp: time.Now(),
	})
	return nil
}

func (api *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := api.status()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Printf("[API] Failed to write status: %v", err)
	}
}
