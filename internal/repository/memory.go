package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/mergington/activities/internal/model"
)

// MemoryRepository is a mutex-guarded in-memory ActivityRepository. It backs
// local development (seeded with SampleActivities) and the test suite.
type MemoryRepository struct {
	mu         sync.RWMutex
	order      []string
	activities map[string]*model.Activity
}

// NewMemoryRepository constructs a MemoryRepository holding the given
// activities in the given order.
func NewMemoryRepository(seed ...model.Activity) *MemoryRepository {
	r := &MemoryRepository{activities: make(map[string]*model.Activity)}
	for _, a := range seed {
		a := a
		r.order = append(r.order, a.ID)
		r.activities[a.ID] = &a
	}
	return r
}

// SampleActivities returns the development seed roster.
func SampleActivities() []model.Activity {
	return []model.Activity{
		{
			ID:              "chess-club",
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants: []model.Participant{
				{Email: "michael@mergington.edu"},
				{Email: "daniel@mergington.edu"},
			},
		},
		{
			ID:              "programming-class",
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants: []model.Participant{
				{Email: "emma@mergington.edu"},
				{Email: "sophia@mergington.edu"},
			},
		},
		{
			ID:              "gym-class",
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants: []model.Participant{
				{Email: "john@mergington.edu"},
				{Email: "olivia@mergington.edu"},
			},
		},
		{
			ID:              "soccer-team",
			Name:            "Soccer Team",
			Description:     "Join the school soccer team and compete in local leagues",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 22,
			Participants: []model.Participant{
				{Email: "alex@mergington.edu"},
				{Email: "noah@mergington.edu"},
			},
		},
		{
			ID:              "basketball-club",
			Name:            "Basketball Club",
			Description:     "Practice basketball skills and play friendly matches",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants: []model.Participant{
				{Email: "james@mergington.edu"},
			},
		},
		{
			ID:              "art-club",
			Name:            "Art Club",
			Description:     "Explore drawing, painting and other visual arts",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []model.Participant{},
		},
		{
			ID:              "drama-club",
			Name:            "Drama Club",
			Description:     "Act, direct and produce school theater performances",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []model.Participant{},
		},
		{
			ID:              "math-club",
			Name:            "Math Club",
			Description:     "Solve challenging problems and prepare for competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 10,
			Participants:    []model.Participant{},
		},
		{
			ID:              "debate-team",
			Name:            "Debate Team",
			Description:     "Develop public speaking and argumentation skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []model.Participant{},
		},
	}
}

func (r *MemoryRepository) List(_ context.Context) ([]model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Activity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyActivity(r.activities[id]))
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[id]
	if !ok {
		return nil, ErrActivityNotFound
	}
	cp := copyActivity(a)
	return &cp, nil
}

func (r *MemoryRepository) Create(_ context.Context, activity model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.activities[activity.ID]; ok {
		return fmt.Errorf("activity %q already exists", activity.ID)
	}
	r.order = append(r.order, activity.ID)
	r.activities[activity.ID] = &activity
	return nil
}

func (r *MemoryRepository) AddParticipant(_ context.Context, activityID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[activityID]
	if !ok {
		return ErrActivityNotFound
	}
	for _, p := range a.Participants {
		if p.Email == email {
			return ErrAlreadyRegistered
		}
	}
	if len(a.Participants) >= a.MaxParticipants {
		return ErrActivityFull
	}
	a.Participants = append(a.Participants, model.Participant{Email: email})
	return nil
}

func (r *MemoryRepository) RemoveParticipant(_ context.Context, activityID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[activityID]
	if !ok {
		return ErrActivityNotFound
	}
	for i, p := range a.Participants {
		if p.Email == email {
			a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
			return nil
		}
	}
	return ErrParticipantNotFound
}

// copyActivity returns a deep copy so callers cannot mutate repository state
// through a returned snapshot.
func copyActivity(a *model.Activity) model.Activity {
	cp := *a
	cp.Participants = make([]model.Participant, len(a.Participants))
	copy(cp.Participants, a.Participants)
	return cp
}
