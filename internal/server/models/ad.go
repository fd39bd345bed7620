// Package models holds the records stored by the API server.
package models

import "time"

// Ad is a donated item. OwnerID is empty when the owner was deleted.
type Ad struct {
	ID          string    `json:"id"`
	Gender      string    `json:"gender"`
	BodyPart    string    `json:"bodyPart"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsGiven     bool      `json:"isGiven"`
	Photo       string    `json:"photo"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
