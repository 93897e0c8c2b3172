package server

import (
	"sync"
	"time"

	"token-pulse/src/analysis"
	"token-pulse/src/display"
	"token-pulse/src/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // commands are small
	sendQueueSize  = 256
)

// -----------------------------------------------------------------------------
// Client Structure
// -----------------------------------------------------------------------------

// subscription selects which columns a client sees and how they are sorted.
// No columns means all of them.
type subscription struct {
	columns   []string
	field     analysis.SortField
	direction analysis.SortDirection
}

type Client struct {
	ID   string
	hub  *FastAPIServer
	conn *websocket.Conn
	send chan interface{}

	mu  sync.Mutex
	sub subscription
}

func newClient(hub *FastAPIServer, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan interface{}, sendQueueSize),
		sub: subscription{
			field:     analysis.DefaultSortField,
			direction: analysis.DefaultSortDirection,
		},
	}
}

// -----------------------------------------------------------------------------

func (c *Client) subscribe(sub subscription) {
	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
}

// -----------------------------------------------------------------------------

// view renders a snapshot for this client's subscription.
func (c *Client) view(kind string, snapshot models.MFeedSnapshot, settings models.MDisplaySettings) models.MFeedView {
	c.mu.Lock()
	sub := c.sub
	c.mu.Unlock()

	return models.MFeedView{
		Type:              kind,
		Tick:              snapshot.Tick,
		Timestamp:         snapshot.Timestamp,
		Columns:           display.RenderColumns(snapshot.Columns, sub.columns, sub.field, sub.direction, settings),
		ProcessingMetrics: snapshot.ProcessingMetrics,
	}
}

// -----------------------------------------------------------------------------
// readPump - handles incoming messages from client
// Act as a Watchdog for the connection
// -----------------------------------------------------------------------------

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
		c.hub.Logger.Debug("Client %s disconnected", c.ID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Info("WebSocket error: %v", err)
			}
			break
		}
		// Handle the message (subscribe commands)
		c.hub.HandleClientMessage(c, message)
	}
}

// -----------------------------------------------------------------------------
// writePump - sends messages to client
// -----------------------------------------------------------------------------

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Write JSON message
			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.Logger.Info("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
