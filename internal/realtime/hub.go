// README: Room-based broadcast hub; the single event loop owns all membership state.
package realtime

import (
	"context"
	"log"

	"github.com/google/uuid"

	"courier/internal/modules/order"
	"courier/internal/types"
)

// Presence is the slice of the driver registry the hub feeds.
type Presence interface {
	Update(driverID int64, pos types.Point)
	Remove(driverID int64)
}

type joinReq struct {
	client *Client
	room   string
}

type broadcast struct {
	room  string
	frame Frame
}

// Hub routes frames between connected clients. All room membership is
// owned by the Run loop; the public methods only push onto channels, so
// they are safe from any goroutine.
type Hub struct {
	presence Presence

	rooms map[string]map[*Client]struct{}

	join       chan joinReq
	disconnect chan *Client
	broadcasts chan broadcast
	// done is closed when Run exits so senders never block against a
	// stopped event loop during shutdown.
	done chan struct{}
}

func NewHub(presence Presence) *Hub {
	return &Hub{
		presence:   presence,
		rooms:      make(map[string]map[*Client]struct{}),
		join:       make(chan joinReq),
		disconnect: make(chan *Client),
		broadcasts: make(chan broadcast, 64),
		done:       make(chan struct{}),
	}
}

// Run processes membership changes and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-h.join:
			members, ok := h.rooms[req.room]
			if !ok {
				members = make(map[*Client]struct{})
				h.rooms[req.room] = members
			}
			members[req.client] = struct{}{}
		case c := <-h.disconnect:
			for room, members := range h.rooms {
				delete(members, c)
				if len(members) == 0 {
					delete(h.rooms, room)
				}
			}
		case b := <-h.broadcasts:
			for c := range h.rooms[b.room] {
				c.deliver(b.frame)
			}
		}
	}
}

func (h *Hub) Join(c *Client, room string) {
	select {
	case h.join <- joinReq{client: c, room: room}:
	case <-h.done:
	}
}

func (h *Hub) Broadcast(room string, frame Frame) {
	select {
	case h.broadcasts <- broadcast{room: room, frame: frame}:
	case <-h.done:
	}
}

// OrderAssigned pushes the new order into the winning driver's room.
func (h *Hub) OrderAssigned(driverID int64, notice order.AssignedNotice) {
	h.Broadcast(driverRoom(driverID), mustFrame(EventNewAssignedOrder, notice))
}

// OrderAccepted tells everyone watching the order that a driver took it.
func (h *Hub) OrderAccepted(orderID int64) {
	h.Broadcast(orderRoom(orderID), mustFrame(EventOrderAccepted, map[string]int64{"orderId": orderID}))
}

// handle dispatches one inbound frame from a client. Malformed frames
// are logged and dropped; a bad message from one client must never take
// the hub down.
func (h *Hub) handle(c *Client, f Frame) {
	switch f.Event {
	case EventRegisterDriver:
		var data registerDriverData
		if err := unmarshal(f.Data, &data); err != nil || data.DriverID == 0 {
			log.Printf("realtime: bad %s frame: %v", f.Event, err)
			return
		}
		c.driverID = data.DriverID
		h.Join(c, driverRoom(data.DriverID))

	case EventJoinRoom:
		var data joinRoomData
		if err := unmarshal(f.Data, &data); err != nil || data.OrderID == 0 {
			log.Printf("realtime: bad %s frame: %v", f.Event, err)
			return
		}
		h.Join(c, orderRoom(data.OrderID))

	case EventDriverLocation:
		var data driverLocationData
		if err := unmarshal(f.Data, &data); err != nil {
			log.Printf("realtime: bad %s frame: %v", f.Event, err)
			return
		}
		driverID := data.DriverID
		if driverID == 0 {
			driverID = c.driverID
		}
		if driverID == 0 {
			log.Printf("realtime: %s frame from unregistered connection", f.Event)
			return
		}
		h.presence.Update(driverID, types.Point{Lat: data.Lat, Lng: data.Lng})
		// Customers tracking a specific delivery get the position relayed
		// into that order's room.
		if data.OrderID != nil {
			h.Broadcast(orderRoom(*data.OrderID), mustFrame(locationEvent(*data.OrderID), locationUpdate{
				DriverID: driverID,
				Lat:      data.Lat,
				Lng:      data.Lng,
			}))
		}

	case EventChatMessage:
		var data chatMessageData
		if err := unmarshal(f.Data, &data); err != nil || data.OrderID == 0 || data.Message == "" {
			log.Printf("realtime: bad %s frame: %v", f.Event, err)
			return
		}
		h.Broadcast(orderRoom(data.OrderID), mustFrame(EventChatMessage, chatMessageOut{
			ID:      uuid.NewString(),
			OrderID: data.OrderID,
			Sender:  data.Sender,
			Message: data.Message,
			SentAt:  nowUTC(),
		}))

	default:
		log.Printf("realtime: unknown event %q", f.Event)
	}
}

// dropClient is called by the read pump when a connection dies.
func (h *Hub) dropClient(c *Client) {
	if c.driverID != 0 {
		h.presence.Remove(c.driverID)
	}
	select {
	case h.disconnect <- c:
	case <-h.done:
	}
}
