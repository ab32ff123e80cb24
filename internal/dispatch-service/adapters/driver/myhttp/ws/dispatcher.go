package ws

import (
	"context"
	"net/http"
	"sync"

	websocketdto "taxi-dispatch/internal/dispatch-service/core/domain/websocket_dto"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"

	"github.com/gorilla/websocket"
)

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Dispatcher tracks one connection per user id and fans events out to them.
// A reconnect replaces the previous connection.
type Dispatcher struct {
	clients map[string]*Client
	sync.RWMutex
	log mylogger.Logger
}

var _ ports.INotifyWebsocket = (*Dispatcher)(nil)

func NewDispatcher(log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// WsHandler upgrades a connection identified by the given path parameter.
// Drivers and passengers share the same dispatcher keyed by user id.
func (d *Dispatcher) WsHandler(pathParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("wsHandler")
		userId := r.PathValue(pathParam)

		if userId == "" {
			w.WriteHeader(http.StatusUnauthorized)
			log.Warn("websocket connect without user id")
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(r.Context(), conn, d, userId)
		d.AddClient(client)
		go client.ReadMessage()
		go client.WriteMessage()
	}
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if prev, ok := d.clients[client.userId]; ok {
		prev.conn.Close()
	}
	d.clients[client.userId] = client
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if current, ok := d.clients[client.userId]; ok && current == client {
		delete(d.clients, client.userId)
	}
	client.conn.Close()
}

// WriteToUser drops the event when the user has no live connection or its
// egress is full. Delivery is best-effort.
func (d *Dispatcher) WriteToUser(userId string, msg websocketdto.Event) {
	d.RLock()
	client, ok := d.clients[userId]
	d.RUnlock()

	if !ok {
		return
	}

	select {
	case client.egress <- msg:
	default:
		d.log.Action("writeToUser").Warn("egress full, event dropped")
	}
}

// CloseAll is used on shutdown.
func (d *Dispatcher) CloseAll(ctx context.Context) {
	d.Lock()
	defer d.Unlock()

	for id, client := range d.clients {
		client.conn.Close()
		delete(d.clients, id)
	}
}
