package models

import (
	"time"

	"github.com/goccy/go-json"
)

type EventType string

const (
	EventTypeHello             EventType = "hello"
	EventTypeNotify            EventType = "notify"
	EventTypeUpdateExamination EventType = "update_examination"
	EventTypePong              EventType = "pong"
)

// Event is the message fanned out to every connection of a user group.
type Event struct {
	Type      EventType       `json:"type"`
	Message   string          `json:"message"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

// ClientCommand is an inbound websocket message.
type ClientCommand struct {
	Type string `json:"type"`
}
