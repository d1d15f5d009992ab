// Package repository provides persistence for activities and their
// participant rosters. Two implementations exist: a PostgreSQL-backed one
// using pgx directly (no ORM) and an in-memory one used for local
// development and tests.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mergington/activities/internal/model"
)

// ErrActivityNotFound is returned when the requested activity does not exist.
var ErrActivityNotFound = errors.New("activity not found")

// ErrParticipantNotFound is returned when the email is not registered on
// the activity.
var ErrParticipantNotFound = errors.New("participant not found")

// ErrAlreadyRegistered is returned when the same email signs up twice for
// one activity.
var ErrAlreadyRegistered = errors.New("email already registered for this activity")

// ErrActivityFull is returned when an activity has no remaining capacity.
var ErrActivityFull = errors.New("activity is fully booked")

// ActivityRepository is the persistence contract consumed by the service
// layer.
type ActivityRepository interface {
	// List returns all activities with their participants, in creation
	// order. Participant order within an activity is registration order.
	List(ctx context.Context) ([]model.Activity, error)

	// Get returns a single activity or ErrActivityNotFound.
	Get(ctx context.Context, id string) (*model.Activity, error)

	// Create inserts a new activity with an empty roster.
	Create(ctx context.Context, activity model.Activity) error

	// AddParticipant registers the email on the activity. Returns
	// ErrActivityNotFound, ErrAlreadyRegistered or ErrActivityFull.
	AddParticipant(ctx context.Context, activityID, email string) error

	// RemoveParticipant removes the email from the activity. Returns
	// ErrActivityNotFound or ErrParticipantNotFound.
	RemoveParticipant(ctx context.Context, activityID, email string) error
}

// SeedIfEmpty populates a repository that has no activities yet with the
// sample roster, participants included. Used to bootstrap a fresh
// postgres database; an already-populated store is left untouched.
func SeedIfEmpty(ctx context.Context, repo ActivityRepository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("check existing activities: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, a := range SampleActivities() {
		participants := a.Participants
		a.Participants = nil
		if err := repo.Create(ctx, a); err != nil {
			return fmt.Errorf("seed activity %s: %w", a.ID, err)
		}
		for _, p := range participants {
			if err := repo.AddParticipant(ctx, a.ID, p.Email); err != nil {
				return fmt.Errorf("seed participant %s: %w", p.Email, err)
			}
		}
	}
	return nil
}
