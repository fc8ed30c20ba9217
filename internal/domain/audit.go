package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID          int64                  `json:"id"`
	EventTime   time.Time              `json:"event_time"`
	ActorUserID *uuid.UUID             `json:"actor_user_id,omitempty"`
	ActorRole   string                 `json:"actor_role"`
	EventType   string                 `json:"event_type"`
	Payload     map[string]interface{} `json:"payload"`
}

const (
	ActorRoleUser   = "user"
	ActorRoleAdmin  = "admin"
	ActorRoleSystem = "system"
)

const (
	EventTypeUserRegistered = "USER_REGISTERED"
	EventTypeUserLogin      = "USER_LOGIN"
	EventTypeMessageSent    = "MESSAGE_SENT"
	EventTypeFileUploaded   = "FILE_UPLOADED"
	EventTypeAvatarUpdated  = "AVATAR_UPDATED"
)
