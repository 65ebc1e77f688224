package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	// must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
)

// Client is one websocket connection of a room player.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *ServerEnvelope

	RoomID       string
	RoomCode     string
	RoomPlayerID string
	DisplayName  string
	// RateLimitKey scopes move rate limiting; the room player id unless set otherwise.
	RateLimitKey string

	ctx context.Context
}

func newClient(hub *Hub, conn *websocket.Conn, roomID, roomCode, playerID, displayName string) *Client {
	return &Client{
		hub:          hub,
		conn:         conn,
		send:         make(chan *ServerEnvelope, 256),
		RoomID:       roomID,
		RoomCode:     roomCode,
		RoomPlayerID: playerID,
		DisplayName:  displayName,
		RateLimitKey: "player:" + playerID,
		// not tied to the upgrade request, which ends when the handler returns
		ctx: context.Background(),
	}
}

// readPump reads client envelopes and hands them to the event handler.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
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
				log.Warn().Err(err).Str("player_id", c.RoomPlayerID).Msg("websocket read error")
			}
			return
		}
		var msg ClientInMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.SendToClient(c, errorEnvelope("", "validation", "bad_json", "message is not valid JSON"))
			continue
		}
		if h := c.hub.handler(); h != nil {
			h.HandleRoomMessage(c.ctx, c, &msg)
		}
	}
}

// writePump writes queued envelopes as JSON text frames and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				log.Debug().Err(err).Str("player_id", c.RoomPlayerID).Msg("websocket write failed")
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
