package chat

// Conn is a non-owning handle to a live transport session. The transport
// layer owns the socket; the registry only keys on the handle. Implementations
// must be comparable (pointer types) and keep ID stable for the connection's
// lifetime.
type Conn interface {
	// ID is minted at accept time and unique per connection.
	ID() string
	// SendJSON delivers one envelope, best-effort.
	SendJSON(v any) error
	// Close forcibly tears the transport down.
	Close() error
}
