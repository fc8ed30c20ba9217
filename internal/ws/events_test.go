package ws

import (
	"encoding/json"
	"testing"
	"time"

	"chat_app/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSendMessagePayloadSenderObject(t *testing.T) {
	req := require.New(t)

	raw := []byte(`{"event":"send-message","data":{"text":"hi","clientKey":"k1","sender":{"id":"u1","username":"alice","email":"alice@example.com"}}}`)

	var envelope Envelope
	req.NoError(json.Unmarshal(raw, &envelope))
	req.Equal(EventSendMessage, envelope.Event)

	var payload SendMessagePayload
	req.NoError(json.Unmarshal(envelope.Data, &payload))
	req.Equal("hi", payload.Text)
	req.Equal("k1", payload.ClientKey)
	req.Equal("u1", payload.Sender.ID)
	req.Equal("alice", payload.Sender.Username)
	req.Equal("alice@example.com", payload.Sender.Email)
}

// Старые клиенты передают sender простой строкой
func TestSendMessagePayloadSenderLegacyString(t *testing.T) {
	req := require.New(t)

	var payload SendMessagePayload
	req.NoError(json.Unmarshal([]byte(`{"text":"hi","sender":"alice"}`), &payload))
	req.Equal("alice", payload.Sender.ID)
	req.Equal("alice", payload.Sender.Username)
	req.Empty(payload.Sender.Email)
}

func TestEncodeMessageEvent(t *testing.T) {
	req := require.New(t)

	text := "hello"
	sender := domain.Sender{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	message := &domain.Message{
		ID:        42,
		SenderID:  sender.ID,
		Text:      &text,
		CreatedAt: time.Now(),
		Sender:    sender,
	}

	payload, err := encodeMessageEvent(message)
	req.NoError(err)

	var envelope Envelope
	req.NoError(json.Unmarshal(payload, &envelope))
	req.Equal(EventReceiveMessage, envelope.Event)

	var decoded domain.Message
	req.NoError(json.Unmarshal(envelope.Data, &decoded))
	req.Equal(int64(42), decoded.ID)
	req.Equal("hello", *decoded.Text)
	req.Equal("alice", decoded.Sender.Username)
	req.Nil(decoded.FileURL)
}

func TestEncodeCountEvent(t *testing.T) {
	req := require.New(t)

	payload, err := encodeCountEvent(3)
	req.NoError(err)

	var envelope Envelope
	req.NoError(json.Unmarshal(payload, &envelope))
	req.Equal(EventOnlineCount, envelope.Event)

	var count int
	req.NoError(json.Unmarshal(envelope.Data, &count))
	req.Equal(3, count)
}

func TestEncodeErrorEvent(t *testing.T) {
	req := require.New(t)

	payload, err := encodeErrorEvent("something broke")
	req.NoError(err)

	var envelope Envelope
	req.NoError(json.Unmarshal(payload, &envelope))
	req.Equal(EventError, envelope.Event)

	var errPayload ErrorPayload
	req.NoError(json.Unmarshal(envelope.Data, &errPayload))
	req.Equal("something broke", errPayload.Message)
}
