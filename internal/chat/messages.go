package chat

// Outbound envelope DTOs. Field sets mirror what the web client expects;
// timestamps are unix seconds.

// infoMessage covers the "join", "joined" and "leave" events. "joined" is a
// direct confirmation and carries the room instead of a user or timestamp.
type infoMessage struct {
	Type      string `json:"type"`
	Event     string `json:"event"`
	User      string `json:"user,omitempty"`
	Room      string `json:"room,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type userListMessage struct {
	Type  string   `json:"type"`
	Event string   `json:"event"`
	Users []string `json:"users"`
}

type chatMessage struct {
	Type      string `json:"type"`
	User      string `json:"user"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type fileMessage struct {
	Type      string `json:"type"`
	User      string `json:"user"`
	FileType  string `json:"fileType"`
	Data      string `json:"data"` // still base64, forwarded as received
	Timestamp int64  `json:"timestamp"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
