package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message - каноническое сообщение чата. После сохранения неизменяемо.
// Либо текстовое (Text заполнен), либо файловое (File* заполнены) - строго одно из двух.
type Message struct {
	ID        int64     `json:"id"`
	SenderID  uuid.UUID `json:"senderId"`
	Text      *string   `json:"text"`
	FileURL   *string   `json:"fileUrl,omitempty"`
	FileName  *string   `json:"fileName,omitempty"`
	FileType  *string   `json:"fileType,omitempty"`
	FileSize  *int64    `json:"fileSize,omitempty"`
	ClientKey *string   `json:"clientKey,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Sender    Sender    `json:"sender"`
}

// FileMeta описывает файловую нагрузку сообщения до сохранения
type FileMeta struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

func (m *Message) IsFile() bool {
	return m.FileURL != nil
}

// SameContent сравнивает содержимое двух сообщений (для сверки оптимистичных копий)
func (m *Message) SameContent(other *Message) bool {
	if m.IsFile() != other.IsFile() {
		return false
	}
	if m.IsFile() {
		return other.FileName != nil && m.FileName != nil && *m.FileName == *other.FileName
	}
	if m.Text == nil || other.Text == nil {
		return m.Text == other.Text
	}
	return *m.Text == *other.Text
}
