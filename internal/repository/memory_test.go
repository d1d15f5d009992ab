package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/mergington/activities/internal/model"
)

func seedRepo() *MemoryRepository {
	return NewMemoryRepository(
		model.Activity{ID: "chess-club", Name: "Chess Club", MaxParticipants: 2,
			Participants: []model.Participant{{Email: "michael@mergington.edu"}}},
		model.Activity{ID: "art-club", Name: "Art Club", MaxParticipants: 15,
			Participants: []model.Participant{}},
	)
}

func TestListPreservesOrder(t *testing.T) {
	repo := seedRepo()

	activities, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(activities))
	}
	if activities[0].ID != "chess-club" || activities[1].ID != "art-club" {
		t.Errorf("order = %s, %s", activities[0].ID, activities[1].ID)
	}
}

func TestListReturnsCopies(t *testing.T) {
	repo := seedRepo()
	ctx := context.Background()

	activities, _ := repo.List(ctx)
	activities[0].Participants[0].Email = "tampered@evil.com"

	fresh, _ := repo.Get(ctx, "chess-club")
	if fresh.Participants[0].Email != "michael@mergington.edu" {
		t.Error("mutating a snapshot leaked into repository state")
	}
}

func TestAddParticipant(t *testing.T) {
	repo := seedRepo()
	ctx := context.Background()

	if err := repo.AddParticipant(ctx, "chess-club", "daniel@mergington.edu"); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}

	a, _ := repo.Get(ctx, "chess-club")
	if len(a.Participants) != 2 || a.Participants[1].Email != "daniel@mergington.edu" {
		t.Errorf("roster = %+v", a.Participants)
	}

	if err := repo.AddParticipant(ctx, "chess-club", "daniel@mergington.edu"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("duplicate signup err = %v", err)
	}
	if err := repo.AddParticipant(ctx, "chess-club", "third@mergington.edu"); !errors.Is(err, ErrActivityFull) {
		t.Errorf("full activity err = %v", err)
	}
	if err := repo.AddParticipant(ctx, "ghost", "x@y.com"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("unknown activity err = %v", err)
	}
}

func TestRemoveParticipant(t *testing.T) {
	repo := seedRepo()
	ctx := context.Background()

	if err := repo.RemoveParticipant(ctx, "chess-club", "michael@mergington.edu"); err != nil {
		t.Fatalf("RemoveParticipant: %v", err)
	}
	a, _ := repo.Get(ctx, "chess-club")
	if len(a.Participants) != 0 {
		t.Errorf("roster = %+v", a.Participants)
	}

	if err := repo.RemoveParticipant(ctx, "chess-club", "michael@mergington.edu"); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("missing participant err = %v", err)
	}
	if err := repo.RemoveParticipant(ctx, "ghost", "x@y.com"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("unknown activity err = %v", err)
	}

	// Removal frees the spot for a new signup.
	if err := repo.AddParticipant(ctx, "chess-club", "michael@mergington.edu"); err != nil {
		t.Errorf("re-signup after removal: %v", err)
	}
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	repo := seedRepo()
	err := repo.Create(context.Background(), model.Activity{ID: "chess-club", Name: "Chess Club"})
	if err == nil {
		t.Error("expected error for duplicate activity id")
	}
}

func TestSeedIfEmpty(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := SeedIfEmpty(ctx, repo); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}

	activities, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := SampleActivities()
	if len(activities) != len(want) {
		t.Fatalf("got %d activities, want %d", len(activities), len(want))
	}
	for i, a := range activities {
		if a.ID != want[i].ID {
			t.Errorf("activity %d = %s, want %s", i, a.ID, want[i].ID)
		}
		if len(a.Participants) != len(want[i].Participants) {
			t.Errorf("activity %s: %d participants, want %d",
				a.ID, len(a.Participants), len(want[i].Participants))
		}
	}

	// Seeding an already-populated store is a no-op, not a duplicate insert.
	if err := SeedIfEmpty(ctx, repo); err != nil {
		t.Fatalf("second SeedIfEmpty: %v", err)
	}
	again, _ := repo.List(ctx)
	if len(again) != len(want) {
		t.Errorf("got %d activities after reseed, want %d", len(again), len(want))
	}
}

func TestSeedIfEmptyLeavesExistingDataAlone(t *testing.T) {
	repo := seedRepo()
	ctx := context.Background()

	if err := SeedIfEmpty(ctx, repo); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}
	activities, _ := repo.List(ctx)
	if len(activities) != 2 {
		t.Errorf("got %d activities, want the original 2", len(activities))
	}
}
