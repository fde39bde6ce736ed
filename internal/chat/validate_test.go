package chat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePayload_BareTextIsChat(t *testing.T) {
	req := require.New(t)

	in, err := ValidatePayload([]byte("hello there"))
	req.NoError(err)
	req.Equal(KindChat, in.Kind)
	req.Equal("hello there", in.Text)
}

func TestValidatePayload_JSONChatUsesMessageField(t *testing.T) {
	req := require.New(t)

	in, err := ValidatePayload([]byte(`{"type":"chat","message":"hello"}`))
	req.NoError(err)
	req.Equal(KindChat, in.Kind)
	req.Equal("hello", in.Text)
}

func TestValidatePayload_JSONWithoutMessageFallsBackToRaw(t *testing.T) {
	req := require.New(t)

	// A JSON object without a message field is a chat whose text is the
	// whole raw payload.
	raw := `{"foo":"bar"}`
	in, err := ValidatePayload([]byte(raw))
	req.NoError(err)
	req.Equal(KindChat, in.Kind)
	req.Equal(raw, in.Text)
}

func TestValidatePayload_ChatLengthBoundaries(t *testing.T) {
	req := require.New(t)

	in, err := ValidatePayload([]byte(strings.Repeat("a", MaxMessageLength)))
	req.NoError(err)
	req.Len(in.Text, MaxMessageLength)

	_, err = ValidatePayload([]byte(strings.Repeat("a", MaxMessageLength+1)))
	req.EqualError(err, "Message must be 1-1000 characters")

	_, err = ValidatePayload([]byte(`{"type":"chat","message":""}`))
	req.EqualError(err, "Message must be 1-1000 characters")
}

func TestValidatePayload_ChatRejectsInvalidUTF8(t *testing.T) {
	req := require.New(t)

	_, err := ValidatePayload([]byte{0xff, 0xfe, 0xfd})
	req.EqualError(err, "Message is not valid UTF-8")
}

func TestValidatePayload_FileHappyPath(t *testing.T) {
	req := require.New(t)

	in, err := ValidatePayload([]byte(`{"type":"file","fileType":"image/png","data":"aGVsbG8=\r\n"}`))
	req.NoError(err)
	req.Equal(KindFile, in.Kind)
	req.Equal("image/png", in.FileType)
	req.Equal("aGVsbG8=\r\n", in.FileData)
}

func TestValidatePayload_FileSizeBoundaries(t *testing.T) {
	req := require.New(t)

	payload := func(n int) []byte {
		return fmt.Appendf(nil, `{"type":"file","fileType":"bin","data":"%s"}`, strings.Repeat("A", n))
	}

	in, err := ValidatePayload(payload(MaxFileSize))
	req.NoError(err)
	req.Len(in.FileData, MaxFileSize)

	_, err = ValidatePayload(payload(MaxFileSize + 1))
	req.EqualError(err, "File is empty or too large")

	_, err = ValidatePayload([]byte(`{"type":"file","fileType":"bin","data":""}`))
	req.EqualError(err, "File is empty or too large")
}

func TestValidatePayload_FileRejectsNonBase64(t *testing.T) {
	req := require.New(t)

	_, err := ValidatePayload([]byte(`{"type":"file","fileType":"bin","data":"abc*def"}`))
	req.EqualError(err, "Invalid base64 data")
}

func TestValidatePayload_FileRequiresTypeAndData(t *testing.T) {
	req := require.New(t)

	_, err := ValidatePayload([]byte(`{"type":"file","data":"aGVsbG8="}`))
	req.EqualError(err, "Invalid file message format")

	_, err = ValidatePayload([]byte(`{"type":"file","fileType":"bin"}`))
	req.EqualError(err, "Invalid file message format")
}

func TestValidatePayload_Leave(t *testing.T) {
	req := require.New(t)

	in, err := ValidatePayload([]byte(`{"type":"leave","room":"R1","user":"alice"}`))
	req.NoError(err)
	req.Equal(KindLeave, in.Kind)
	req.Equal("R1", in.Room)
	req.Equal("alice", in.User)

	_, err = ValidatePayload([]byte(`{"type":"leave","room":"R1"}`))
	req.EqualError(err, "Room and username are required for leave message")
}

func TestValidatePayload_UnknownType(t *testing.T) {
	req := require.New(t)

	_, err := ValidatePayload([]byte(`{"type":"poke"}`))
	req.EqualError(err, "Unknown message type: poke")
}
