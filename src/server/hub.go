package server

import (
	"encoding/json"
	"net/http"

	"token-pulse/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// directMessage is a reply for one client, delivered by the hub so it never
// races with the hub closing that client's queue.
type directMessage struct {
	client  *Client
	payload interface{}
}

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *FastAPIServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.setConnections(0)
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.setConnections(len(s.clients))
			// Send current state on connect
			s.deliver(client, client.view(models.SnapshotInitial, s.currentSnapshot(), s.Settings.Get()))

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.setConnections(len(s.clients))
			}

		case msg := <-s.direct:
			if _, ok := s.clients[msg.client]; ok {
				s.deliver(msg.client, msg.payload)
			}

		case snapshot := <-s.broadcast:
			s.stateMutex.Lock()
			s.latestState = &snapshot
			s.stateMutex.Unlock()

			settings := s.Settings.Get()
			for client := range s.clients {
				s.deliver(client, client.view(snapshot.Type, snapshot, settings))
			}
			s.setConnections(len(s.clients))
		}
	}
}

// -----------------------------------------------------------------------------

// deliver queues payload for client. A full queue means the client is too
// slow; it is dropped so the hub never blocks.
func (s *FastAPIServer) deliver(client *Client, payload interface{}) {
	select {
	case client.send <- payload:
		s.Metrics.RecordWSSend()
	default:
		delete(s.clients, client)
		close(client.send)
		s.Metrics.RecordWSDrop()
		s.Logger.Warning("Dropping slow client %s", client.ID)
	}
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) setConnections(n int) {
	s.stateMutex.Lock()
	s.connections = n
	s.stateMutex.Unlock()
	s.Metrics.SetWSClients(n)
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) currentSnapshot() models.MFeedSnapshot {
	s.stateMutex.RLock()
	latest := s.latestState
	s.stateMutex.RUnlock()

	if latest != nil {
		return *latest
	}
	return s.Feed.Snapshot()
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a snapshot for every connected client.
func (s *FastAPIServer) Broadcast(snapshot models.MFeedSnapshot) {
	select {
	case s.broadcast <- snapshot:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------

// Refresh re-sends the latest snapshot, e.g. after a settings change.
func (s *FastAPIServer) Refresh() {
	s.Broadcast(s.currentSnapshot())
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := newClient(s, conn)

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *FastAPIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		s.reply(client, models.MErrorMessage{Type: "ERROR", Error: "unknown command: " + cmd.Command})
		return
	}

	field, dir, err := parseSortParams(cmd.SortField, cmd.SortDirection)
	if err != nil {
		s.reply(client, models.MErrorMessage{Type: "ERROR", Error: err.Error()})
		return
	}

	client.subscribe(subscription{columns: cmd.Columns, field: field, direction: dir})
	s.reply(client, client.view(models.SnapshotInitial, s.currentSnapshot(), s.Settings.Get()))
}

// -----------------------------------------------------------------------------

func (s *FastAPIServer) reply(client *Client, payload interface{}) {
	select {
	case s.direct <- directMessage{client: client, payload: payload}:
	case <-s.done:
	}
}
