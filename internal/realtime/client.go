// README: One websocket connection: read/write pumps and the outbound queue.
package realtime

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameBytes = 4096
	sendBuffer    = 32
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Frame

	// driverID is set by the registerDriver event and read only by the
	// hub's event loop and the read pump, never concurrently.
	driverID int64
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{hub: hub, conn: conn, send: make(chan Frame, sendBuffer)}
}

// Serve attaches a fresh connection to the hub and blocks until it
// closes. The write pump runs in its own goroutine; the read pump runs
// here so the HTTP handler's goroutine keeps the connection alive.
func Serve(hub *Hub, conn *websocket.Conn) {
	c := newClient(hub, conn)
	go c.writePump()
	c.readPump()
}

// deliver queues a frame, dropping it when the client cannot keep up.
// A slow phone on a bad network must not stall the hub's event loop.
func (c *Client) deliver(f Frame) {
	select {
	case c.send <- f:
	default:
		log.Printf("realtime: dropping %s frame for slow client", f.Event)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.dropClient(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: read: %v", err)
			}
			return
		}
		c.hub.handle(c, f)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func unmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("empty data")
	}
	return json.Unmarshal(raw, v)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
