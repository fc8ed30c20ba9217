package ws

import (
	"encoding/json"
	"fmt"

	"chat_app/internal/domain"
)

const (
	// Клиент -> сервер
	EventSendMessage = "send-message"
	EventUserOnline  = "user-online"

	// Сервер -> клиент
	EventReceiveMessage = "receive-message"
	EventOnlineCount    = "onlineCount"
	EventError          = "error"
)

// Envelope - единый формат кадра реалтайм-канала
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type SendMessagePayload struct {
	Text      string    `json:"text"`
	ClientKey string    `json:"clientKey,omitempty"`
	Sender    SenderRef `json:"sender,omitempty"`
}

type UserOnlinePayload struct {
	UserID string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// SenderRef принимает sender в обеих исторических формах: строкой (id или
// username старых клиентов) либо объектом {id, username, email}. Нормализация
// происходит здесь, на границе, и не протекает в бизнес-логику.
type SenderRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *SenderRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	if data[0] == '"' {
		var legacy string
		if err := json.Unmarshal(data, &legacy); err != nil {
			return err
		}
		s.ID = legacy
		s.Username = legacy
		return nil
	}

	type senderRef SenderRef
	var ref senderRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return err
	}
	*s = SenderRef(ref)
	return nil
}

func encodeEnvelope(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

func encodeMessageEvent(message *domain.Message) ([]byte, error) {
	return encodeEnvelope(EventReceiveMessage, message)
}

func encodeCountEvent(count int) ([]byte, error) {
	return encodeEnvelope(EventOnlineCount, count)
}

func encodeErrorEvent(msg string) ([]byte, error) {
	return encodeEnvelope(EventError, ErrorPayload{Message: msg})
}
