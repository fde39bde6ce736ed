package chat

import (
	"sync"
	"time"

	"github.com/samber/lo"
)

// Registry is the single shared state store: room membership, connection-user
// bindings and rate windows. Every operation takes the one registry lock, so
// each appears atomic to concurrent callers. The registry performs no I/O;
// callers send to the returned connections after the lock is released.
//
// Invariants kept outside any single operation:
//   - connRoom[c] == r  iff  c is a member of rooms[r]
//   - userConn and connUser are mutual inverses over bound usernames
//   - a connection belongs to at most one room
//   - every member connection has a rate window
//   - rooms never holds an empty member set
type Registry struct {
	mu       sync.Mutex
	rooms    map[string]map[Conn]struct{}
	connRoom map[Conn]string
	connUser map[Conn]string
	userConn map[string]Conn
	rate     map[Conn]*RateWindow

	rateLimit int
}

func NewRegistry(rateLimit int) *Registry {
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}
	return &Registry{
		rooms:     make(map[string]map[Conn]struct{}),
		connRoom:  make(map[Conn]string),
		connUser:  make(map[Conn]string),
		userConn:  make(map[string]Conn),
		rate:      make(map[Conn]*RateWindow),
		rateLimit: rateLimit,
	}
}

// BindResult reports what a Bind changed beyond installing the new binding.
type BindResult struct {
	// Displaced is the prior holder of the username, already purged from the
	// registry. The caller owes it a 409 envelope and a forced close.
	Displaced Conn
	// Reconnect is true when the username was already bound; the join must
	// not be announced to the room.
	Reconnect bool
	// RoomOpened is true when conn is the room's first member.
	RoomOpened bool
	// EmptiedRoom names the room the displaced connection left empty, if any.
	EmptiedRoom string
}

// Bind installs conn as user in room, displacing any prior connection bound
// to the same username first.
func (r *Registry) Bind(conn Conn, room, user string) BindResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res BindResult
	if old, ok := r.userConn[user]; ok {
		res.Displaced = old
		res.Reconnect = true
		res.EmptiedRoom = r.drop(old)
	}

	set, ok := r.rooms[room]
	if !ok {
		set = make(map[Conn]struct{})
		r.rooms[room] = set
		res.RoomOpened = true
	}
	set[conn] = struct{}{}
	r.connRoom[conn] = room
	r.connUser[conn] = user
	r.userConn[user] = conn
	r.rate[conn] = newRateWindow(r.rateLimit)

	// A displacement within the same room is not a lifecycle transition.
	if res.EmptiedRoom == room && res.RoomOpened {
		res.EmptiedRoom = ""
		res.RoomOpened = false
	}
	return res
}

// Unbind removes every trace of conn. emptied is true when conn was the last
// member of its room.
func (r *Registry) Unbind(conn Conn) (room, user string, emptied, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok = r.connRoom[conn]
	if !ok {
		return "", "", false, false
	}
	user = r.connUser[conn]
	emptied = r.drop(conn) != ""
	return room, user, emptied, true
}

// Lookup returns conn's current binding.
func (r *Registry) Lookup(conn Conn) (room, user string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok = r.connRoom[conn]
	if !ok {
		return "", "", false
	}
	return room, r.connUser[conn], true
}

// LookupUser returns the live connection bound to user, if any.
func (r *Registry) LookupUser(user string) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.userConn[user]
	return conn, ok
}

// Members returns a snapshot of room's member set, nil if the room is
// unknown. The snapshot order is not a contract.
func (r *Registry) Members(room string) []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.rooms[room]
	if !ok {
		return nil
	}
	return lo.Keys(set)
}

// Users returns the usernames bound in room, nil if the room is unknown.
func (r *Registry) Users(room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.rooms[room]
	if !ok {
		return nil
	}
	return lo.Map(lo.Keys(set), func(c Conn, _ int) string {
		return r.connUser[c]
	})
}

// Admit runs the rate-window admission check for conn. Connections without a
// window (never bound, or already unbound) are never admitted.
func (r *Registry) Admit(conn Conn, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.rate[conn]
	if !ok {
		return false
	}
	return w.Admit(now)
}

// drop removes conn from every map; the caller holds the lock. Returns the
// room conn left empty, "" otherwise.
func (r *Registry) drop(conn Conn) string {
	room, ok := r.connRoom[conn]
	if !ok {
		return ""
	}
	user := r.connUser[conn]
	delete(r.connRoom, conn)
	delete(r.connUser, conn)
	delete(r.rate, conn)
	if r.userConn[user] == conn {
		delete(r.userConn, user)
	}
	if set, ok := r.rooms[room]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.rooms, room)
			return room
		}
	}
	return ""
}
