package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gorilla/websocket"

	"github.com/aldo-g/earliest-elephant/typedef"
)

type inbound struct {
	Type      MessageType     `json:"type"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
}

func startHub(c *qt.C) (*API, *httptest.Server) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewAPI()
	go hub.Run(ctx)
	srv := httptest.NewServer(hub.Router())
	c.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(c *qt.C, hub *API, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { conn.Close() })

	ack := read(c, conn)
	c.Assert(ack.Type, qt.Equals, MessageTypeAck)

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	c.Assert(hub.ClientCount(), qt.Equals, 1)
	return conn
}

func read(c *qt.C, conn *websocket.Conn) inbound {
	c.Assert(conn.SetReadDeadline(time.Now().Add(2*time.Second)), qt.IsNil)
	var msg inbound
	c.Assert(conn.ReadJSON(&msg), qt.IsNil)
	return msg
}

var jumbo = typedef.SightingRecord{
	ID: "124", DisplayName: "Canada", ElephantName: "Jumbo", ArrivalYear: 1882,
	ImageRef: "jumbo.jpg", Story: []string{"one", "two"},
}

func TestRecordSelectedBroadcast(t *testing.T) {
	c := qt.New(t)
	hub, srv := startHub(c)
	conn := dial(c, hub, srv)

	hub.RecordSelected(jumbo)
	msg := read(c, conn)
	c.Assert(msg.Type, qt.Equals, MessageTypeRecordSelected)

	var data RecordSelectedData
	c.Assert(json.Unmarshal(msg.Data, &data), qt.IsNil)
	c.Assert(data.Record, qt.DeepEquals, jumbo)
	c.Assert(data.Title, qt.Equals, "Jumbo in Canada (1882)")
	c.Assert(data.Pages, qt.Equals, 2)

	hub.PanelClosed()
	c.Assert(read(c, conn).Type, qt.Equals, MessageTypePanelClosed)
}

func TestInboundMessages(t *testing.T) {
	c := qt.New(t)
	hub, srv := startHub(c)
	conn := dial(c, hub, srv)

	c.Assert(conn.WriteJSON(WSMessage{Type: MessageTypeClosePanel}), qt.IsNil)
	select {
	case <-hub.CloseRequests():
	case <-time.After(2 * time.Second):
		c.Fatal("close_panel was not forwarded")
	}

	c.Assert(conn.WriteJSON(WSMessage{Type: MessageTypeGetSelection, RequestID: "r1"}), qt.IsNil)
	msg := read(c, conn)
	c.Assert(msg.Type, qt.Equals, MessageTypeSelection)
	c.Assert(msg.RequestID, qt.Equals, "r1")
	c.Assert(len(msg.Data), qt.Equals, 0)

	c.Assert(conn.WriteJSON(WSMessage{Type: "bogus", RequestID: "r2"}), qt.IsNil)
	msg = read(c, conn)
	c.Assert(msg.Type, qt.Equals, MessageTypeError)
	c.Assert(msg.RequestID, qt.Equals, "r2")
	c.Assert(msg.Error, qt.Equals, "unknown message type: bogus")
}

func TestStatusAndMetrics(t *testing.T) {
	c := qt.New(t)
	hub, srv := startHub(c)
	dial(c, hub, srv)
	hub.RecordSelected(jumbo)

	resp, err := http.Get(srv.URL + "/status")
	c.Assert(err, qt.IsNil)
	defer resp.Body.Close()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)

	var status StatusData
	c.Assert(json.NewDecoder(resp.Body).Decode(&status), qt.IsNil)
	c.Assert(status.Clients, qt.Equals, 1)
	c.Assert(status.Selected, qt.Equals, "124")
	c.Assert(status.Goroutines > 0, qt.IsTrue)

	mresp, err := http.Get(srv.URL + "/metrics")
	c.Assert(err, qt.IsNil)
	defer mresp.Body.Close()
	c.Assert(mresp.StatusCode, qt.Equals, http.StatusOK)
}
