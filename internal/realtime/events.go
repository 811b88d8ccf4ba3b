// README: Wire frames and event names for the websocket layer.
package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// Frame is the envelope every message crosses the socket in, both
// directions: {"event": "...", "data": {...}}.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client-to-server events.
const (
	EventRegisterDriver = "registerDriver"
	EventJoinRoom       = "joinRoom"
	EventDriverLocation = "driverLocation"
	EventChatMessage    = "chatMessage"
)

// Server-to-client events. Location updates carry the order id in the
// event name so clients subscribe per order.
const (
	EventNewAssignedOrder = "newAssignedOrder"
	EventOrderAccepted    = "orderAccepted"
)

func locationEvent(orderID int64) string {
	return fmt.Sprintf("orderLocationUpdate:%d", orderID)
}

type registerDriverData struct {
	DriverID int64 `json:"driverId"`
}

// Clients address rooms by order id; the room naming is server-internal.
type joinRoomData struct {
	OrderID int64 `json:"orderId"`
}

// driverLocationData carries no mandatory driver identity: the sender is
// normally known from its registerDriver event, and driverId is only an
// override for relays on behalf of another connection.
type driverLocationData struct {
	OrderID  *int64  `json:"orderId,omitempty"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	DriverID int64   `json:"driverId,omitempty"`
}

type locationUpdate struct {
	DriverID int64   `json:"driverId"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type chatMessageData struct {
	OrderID int64  `json:"orderId"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// chatMessageOut is the relayed chat message; the server stamps the id
// and timestamp so all room members see the same ones.
type chatMessageOut struct {
	ID      string    `json:"id"`
	OrderID int64     `json:"orderId"`
	Sender  string    `json:"sender"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
}

func driverRoom(driverID int64) string {
	return fmt.Sprintf("driver:%d", driverID)
}

func orderRoom(orderID int64) string {
	return fmt.Sprintf("order-%d", orderID)
}

func mustFrame(event string, data any) Frame {
	raw, err := json.Marshal(data)
	if err != nil {
		// All outbound payloads are plain structs; a marshal failure is a
		// programming error.
		panic(err)
	}
	return Frame{Event: event, Data: raw}
}
