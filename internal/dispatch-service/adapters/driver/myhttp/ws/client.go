package ws

import (
	"context"
	"encoding/json"

	websocketdto "taxi-dispatch/internal/dispatch-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

type Client struct {
	ctx    context.Context
	conn   *websocket.Conn
	dis    *Dispatcher
	egress chan websocketdto.Event
	userId string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, userId string) *Client {
	return &Client{
		ctx:    ctx,
		conn:   conn,
		dis:    dis,
		egress: make(chan websocketdto.Event, 16),
		userId: userId,
	}
}

// ReadMessage drains the connection until it closes. Incoming frames carry no
// commands; the socket is push-only from the server side.
func (c *Client) ReadMessage() {
	defer c.dis.RemoveClient(c)

	c.conn.SetReadLimit(1024)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.dis.log.Action("wsRead").Error("unexpected close", err)
			}
			return
		}
	}
}

func (c *Client) WriteMessage() {
	for {
		select {
		case <-c.ctx.Done():
			c.conn.Close()
			return
		case event, ok := <-c.egress:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				c.dis.log.Action("wsWrite").Error("marshal event", err)
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.dis.log.Action("wsWrite").Error("write event", err)
				return
			}
		}
	}
}
