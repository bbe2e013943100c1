package models

import "time"

// Product is a catalog entry managed from the admin back-office.
// The upstream API is the source of truth; this is the shape the
// gateway exposes to its own clients.
type Product struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	PostedDate string    `json:"postedDate,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required,min=1"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}
