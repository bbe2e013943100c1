package models

import "time"

// Message is an inbound contact message held by the upstream API.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId,omitempty"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Message        string    `json:"message"`
	Read           bool      `json:"read,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
}

// ContactInput is the public contact-form submission payload.
type ContactInput struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=1"`
}
