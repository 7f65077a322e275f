package model

import "time"

// Event is a public listing entry (show, release party, open session).
type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Image       *string   `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventKind filters the public event listing.
type EventKind string

const (
	EventKindUpcoming EventKind = "upcoming"
	EventKindPast     EventKind = "past"
	EventKindAll      EventKind = "all"
)

// EventRequest is the create/update payload for an event.
type EventRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
	Description string  `json:"description" binding:"required"`
	Image       *string `json:"image"`
}
