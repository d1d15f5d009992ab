// Package model defines the core domain types for the activities portal.
package model

// Activity represents an extracurricular activity students can sign up for.
type Activity struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Schedule        string        `json:"schedule"`
	MaxParticipants int           `json:"max_participants"`
	Participants    []Participant `json:"participants"`
}

// Participant is a registrant on an activity. The email doubles as the
// participant's identifier within that activity.
type Participant struct {
	Email string `json:"email"`
}

// SpotsLeft returns the remaining capacity, never negative. A roster that
// somehow carries more participants than capacity is reported as full
// rather than as a negative count.
func (a *Activity) SpotsLeft() int {
	left := a.MaxParticipants - len(a.Participants)
	if left < 0 {
		return 0
	}
	return left
}

// IsFull returns true when no spots remain.
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// MessageResponse is the success envelope returned by mutating endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// DetailResponse is the error envelope returned by all API endpoints.
type DetailResponse struct {
	Detail string `json:"detail"`
}
