package chat

import (
	"time"

	"go.uber.org/zap"
)

// RoomEvents receives room lifecycle transitions: RoomOpened when a room
// gains its first member, RoomEmptied exactly once when its member set
// becomes empty. The room-id issuance collaborator implements this to
// release ids; implementations must not call back into the hub.
type RoomEvents interface {
	RoomOpened(roomID string)
	RoomEmptied(roomID string)
}

// Hub orchestrates connection lifecycle and message fan-out against the
// registry. All sends to peers happen outside the registry lock, against
// snapshots the registry takes atomically.
type Hub struct {
	reg    *Registry
	events []RoomEvents
	clock  func() time.Time
}

func NewHub(reg *Registry, events ...RoomEvents) *Hub {
	return &Hub{reg: reg, events: events, clock: time.Now}
}

// Join runs the join protocol: displace any prior connection bound to the
// username, install the new binding, then announce the join to the room
// (skipped on a reconnect, where only the transport changed).
func (h *Hub) Join(conn Conn, room, user string) {
	res := h.reg.Bind(conn, room, user)

	if res.Displaced != nil {
		h.SendError(res.Displaced, "You have been disconnected due to a new connection.", 409)
		if err := res.Displaced.Close(); err != nil {
			zap.L().Debug("chat.displace_close", zap.Error(err))
		}
		zap.L().Info("chat.reconnect",
			zap.String("user", user), zap.String("room", room))
	}
	if res.EmptiedRoom != "" {
		h.notifyEmptied(res.EmptiedRoom)
	}
	if res.RoomOpened {
		h.notifyOpened(room)
	}

	if res.Reconnect {
		return
	}

	zap.L().Info("chat.join", zap.String("user", user), zap.String("room", room))
	h.Broadcast(room, infoMessage{
		Type:      "info",
		Event:     "join",
		User:      user,
		Timestamp: h.clock().Unix(),
	}, conn)
	if err := conn.SendJSON(infoMessage{Type: "info", Event: "joined", Room: room}); err != nil {
		zap.L().Debug("chat.join_confirm", zap.String("conn", conn.ID()), zap.Error(err))
	}
}

// HandleInbound processes one raw payload from conn: binding check, rate
// admission, validation, then dispatch. Rate budget is consumed before
// validation, so malformed messages still count against the window.
func (h *Hub) HandleInbound(conn Conn, raw []byte) {
	room, user, ok := h.reg.Lookup(conn)
	if !ok {
		h.SendError(conn, "Not in any room", 400)
		return
	}

	if !h.reg.Admit(conn, h.clock()) {
		h.SendError(conn, "Rate limit exceeded. Please wait before sending more messages.", 429)
		return
	}

	in, err := ValidatePayload(raw)
	if err != nil {
		h.SendError(conn, err.Error(), 400)
		return
	}

	switch in.Kind {
	case KindLeave:
		h.leave(conn, room, user)
	case KindChat:
		zap.L().Info("chat.message", zap.String("room", room), zap.String("user", user))
		h.Broadcast(room, chatMessage{
			Type:      "chat",
			User:      user,
			Message:   in.Text,
			Timestamp: h.clock().Unix(),
		}, nil)
	case KindFile:
		zap.L().Info("chat.file",
			zap.String("room", room), zap.String("user", user),
			zap.String("fileType", in.FileType))
		h.Broadcast(room, fileMessage{
			Type:      "file",
			User:      user,
			FileType:  in.FileType,
			Data:      in.FileData,
			Timestamp: h.clock().Unix(),
		}, nil)
	}
}

// leave removes conn from its room and announces the departure to the
// remaining members. The leaver has already been removed, so it receives
// nothing further.
func (h *Hub) leave(conn Conn, room, user string) {
	_, _, emptied, ok := h.reg.Unbind(conn)
	if !ok {
		return
	}
	zap.L().Info("chat.leave", zap.String("user", user), zap.String("room", room))
	if emptied {
		h.notifyEmptied(room)
	}
	h.Broadcast(room, infoMessage{
		Type:      "info",
		Event:     "leave",
		User:      user,
		Timestamp: h.clock().Unix(),
	}, nil)
}

// ConnectionClosed runs the abrupt-close protocol: purge all registry state
// for conn without announcing anything to the room. A connection already
// displaced or departed is a no-op.
func (h *Hub) ConnectionClosed(conn Conn) {
	room, user, emptied, ok := h.reg.Unbind(conn)
	if !ok {
		return
	}
	zap.L().Info("chat.closed", zap.String("user", user), zap.String("room", room))
	if emptied {
		h.notifyEmptied(room)
	}
}

// Broadcast fans v out to every member of room except exclude. Delivery is
// best-effort and fire-and-forget; an unknown room is logged and dropped.
func (h *Hub) Broadcast(room string, v any, exclude Conn) {
	if room == "" {
		zap.L().Error("chat.broadcast_no_room")
		return
	}
	members := h.reg.Members(room)
	if members == nil {
		zap.L().Warn("chat.broadcast_unknown_room", zap.String("room", room))
		return
	}
	for _, c := range members {
		if c == exclude {
			continue
		}
		if err := c.SendJSON(v); err != nil {
			zap.L().Debug("chat.send", zap.String("conn", c.ID()), zap.Error(err))
		}
	}
}

// BroadcastUserList sends the room's current username roster to every member.
func (h *Hub) BroadcastUserList(room string) {
	users := h.reg.Users(room)
	if users == nil {
		zap.L().Warn("chat.user_list_unknown_room", zap.String("room", room))
		return
	}
	h.Broadcast(room, userListMessage{Type: "info", Event: "user_list", Users: users}, nil)
}

// SendError reports a typed error envelope to exactly one connection.
func (h *Hub) SendError(conn Conn, message string, code int) {
	zap.L().Warn("chat.client_error",
		zap.String("conn", conn.ID()), zap.Int("code", code), zap.String("message", message))
	if err := conn.SendJSON(errorMessage{Type: "error", Message: message, Code: code}); err != nil {
		zap.L().Debug("chat.error_send", zap.String("conn", conn.ID()), zap.Error(err))
	}
}

func (h *Hub) notifyOpened(room string) {
	for _, e := range h.events {
		e.RoomOpened(room)
	}
}

func (h *Hub) notifyEmptied(room string) {
	zap.L().Info("chat.room_empty", zap.String("room", room))
	for _, e := range h.events {
		e.RoomEmptied(room)
	}
}
