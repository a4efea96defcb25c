package model

import "encoding/json"

// EventType identifies the type of a realtime event
type EventType string

const (
	// Broadcast events
	EventUserOnline  EventType = "userOnline"
	EventUserOffline EventType = "userOffline"

	// Per-connection events
	EventMessage   EventType = "message"
	EventChatError EventType = "chatError"

	// Inbound events
	EventPrivateMessage EventType = "privateMessage"
)

// Event is the wire envelope for all realtime traffic
type Event struct {
	Type EventType `json:"event"`
	Data any       `json:"data,omitempty"`
}

// InboundEvent is an event as read off a connection, with the payload
// left raw until the type is known
type InboundEvent struct {
	Type EventType       `json:"event"`
	Data json.RawMessage `json:"data"`
}

// UserOnlinePayload is broadcast when a user's connection becomes active
type UserOnlinePayload struct {
	UserID UserID `json:"userId"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// UserOfflinePayload is broadcast when a user disconnects
type UserOfflinePayload struct {
	UserID UserID `json:"userId"`
}

// PrivateMessagePayload is the inbound send request from a connection
type PrivateMessagePayload struct {
	To      UserID `json:"to"`
	Message string `json:"message"`
}

// NewUserOnlineEvent builds the broadcast event for a user coming online
func NewUserOnlineEvent(u *User) Event {
	return Event{Type: EventUserOnline, Data: UserOnlinePayload{
		UserID: u.ID,
		Name:   u.Name,
		Role:   u.Role,
	}}
}

// NewUserOfflineEvent builds the broadcast event for a user going offline
func NewUserOfflineEvent(id UserID) Event {
	return Event{Type: EventUserOffline, Data: UserOfflinePayload{UserID: id}}
}

// NewMessageEvent wraps a persisted message for delivery
func NewMessageEvent(m *Message) Event {
	return Event{Type: EventMessage, Data: m}
}

// NewChatErrorEvent wraps a human-readable error string for the sender
func NewChatErrorEvent(text string) Event {
	return Event{Type: EventChatError, Data: text}
}
