package model

import (
	"time"

	"github.com/google/uuid"
)

type MessageSource string

const (
	MessageSourceUser      = MessageSource("user")
	MessageSourceAssistant = MessageSource("assistant")
)

type Message struct {
	Source    MessageSource
	Body      string
	CreatedAt time.Time
}

// Chat is the message log of one mounted chat view. Messages are append-only.
type Chat struct {
	ChatID    uuid.UUID
	OwnerID   uuid.UUID
	Messages  []Message
	CreatedAt time.Time
}
