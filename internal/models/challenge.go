package models

import (
	"time"
)

// Challenge is a user-defined or community-shared target duration
type Challenge struct {
	// ID is the unique identifier, shared by a personal challenge and its public mirror
	ID string `json:"id" firestore:"-"`

	// Title is the display name of the challenge
	Title string `json:"title" firestore:"title"`

	// DurationMinutes is the target length of the challenge
	DurationMinutes int `json:"durationMinutes" firestore:"durationMinutes"`

	// IsCompleted is the personal completion flag
	IsCompleted bool `json:"isCompleted" firestore:"isCompleted"`

	// IsPublic indicates the challenge has been shared to the public collection
	IsPublic bool `json:"isPublic" firestore:"isPublic"`

	// CreatedAt is when the challenge was created
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`

	// UsersCompletedCount is the shared counter on a public challenge
	UsersCompletedCount int `json:"usersCompletedCount" firestore:"usersCompletedCount"`

	// OwnerID is the user who authored the challenge
	OwnerID string `json:"ownerId,omitempty" firestore:"ownerId"`
}

// Clone returns a copy of the challenge
func (c *Challenge) Clone() *Challenge {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
