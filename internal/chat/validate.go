package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	// MaxMessageLength is the chat text ceiling in bytes.
	MaxMessageLength = 1000
	// MaxFileSize is the ceiling on the base64 text of a file payload.
	MaxFileSize = 50 * 1024 * 1024
)

// base64 alphabet plus padding and the line breaks browser encoders emit
var base64Re = regexp.MustCompile(`^[A-Za-z0-9+/=\r\n]+$`)

type InboundKind int

const (
	KindChat InboundKind = iota
	KindFile
	KindLeave
)

// Inbound is the validated form of one client payload. Kind selects which of
// the variant fields are meaningful.
type Inbound struct {
	Kind     InboundKind
	Text     string // KindChat
	FileType string // KindFile
	FileData string // KindFile, still base64
	Room     string // KindLeave, echoed context only
	User     string // KindLeave
}

// ValidatePayload classifies raw into a typed envelope. A payload that does
// not parse as a JSON object is treated as a bare chat message whose text is
// the raw payload. The returned error text is client-facing and accompanies a
// 400 error envelope. No registry access, no side effects.
func ValidatePayload(raw []byte) (Inbound, error) {
	var fields map[string]json.RawMessage
	isJSON := json.Unmarshal(raw, &fields) == nil

	kind := "chat"
	if isJSON {
		if t, ok := stringField(fields, "type"); ok {
			kind = t
		}
	}

	switch kind {
	case "chat":
		text := string(raw)
		if isJSON {
			if m, ok := stringField(fields, "message"); ok {
				text = m
			}
		}
		if len(text) == 0 || len(text) > MaxMessageLength {
			return Inbound{}, fmt.Errorf("Message must be 1-%d characters", MaxMessageLength)
		}
		if !utf8.ValidString(text) {
			return Inbound{}, errors.New("Message is not valid UTF-8")
		}
		return Inbound{Kind: KindChat, Text: text}, nil

	case "file":
		fileType, ok := stringField(fields, "fileType")
		if !ok || fileType == "" {
			return Inbound{}, errors.New("Invalid file message format")
		}
		data, ok := stringField(fields, "data")
		if !ok {
			return Inbound{}, errors.New("Invalid file message format")
		}
		if data == "" || len(data) > MaxFileSize {
			return Inbound{}, errors.New("File is empty or too large")
		}
		if !base64Re.MatchString(data) {
			return Inbound{}, errors.New("Invalid base64 data")
		}
		return Inbound{Kind: KindFile, FileType: fileType, FileData: data}, nil

	case "leave":
		room, _ := stringField(fields, "room")
		user, _ := stringField(fields, "user")
		if room == "" || user == "" {
			return Inbound{}, errors.New("Room and username are required for leave message")
		}
		return Inbound{Kind: KindLeave, Room: room, User: user}, nil
	}

	return Inbound{}, fmt.Errorf("Unknown message type: %s", kind)
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
