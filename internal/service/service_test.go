package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
)

func newService() *ActivityService {
	repo := repository.NewMemoryRepository(
		model.Activity{ID: "chess-club", Name: "Chess Club", MaxParticipants: 2,
			Participants: []model.Participant{{Email: "michael@mergington.edu"}}},
	)
	return NewActivityService(repo)
}

func TestSignup(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	msg, err := svc.Signup(ctx, "chess-club", "  Daniel@Mergington.EDU ")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	// Email is normalised before registration and reporting.
	if msg != "Signed up daniel@mergington.edu for Chess Club" {
		t.Errorf("message = %q", msg)
	}

	if _, err := svc.Signup(ctx, "chess-club", "daniel@mergington.edu"); !errors.Is(err, repository.ErrAlreadyRegistered) {
		t.Errorf("duplicate err = %v", err)
	}
	if _, err := svc.Signup(ctx, "chess-club", "third@mergington.edu"); !errors.Is(err, repository.ErrActivityFull) {
		t.Errorf("full err = %v", err)
	}
	if _, err := svc.Signup(ctx, "ghost", "x@y.com"); !errors.Is(err, repository.ErrActivityNotFound) {
		t.Errorf("unknown activity err = %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "chess-club", ""); err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("empty email err = %v", err)
	}
	if _, err := svc.Signup(ctx, "chess-club", "not-an-email"); err == nil {
		t.Error("expected error for malformed email")
	}
	if _, err := svc.Signup(ctx, "", "x@y.com"); err == nil {
		t.Error("expected error for empty activity id")
	}
}

func TestUnregister(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	msg, err := svc.Unregister(ctx, "chess-club", "michael@mergington.edu")
	if err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if msg != "Removed michael@mergington.edu from Chess Club" {
		t.Errorf("message = %q", msg)
	}

	if _, err := svc.Unregister(ctx, "chess-club", "michael@mergington.edu"); !errors.Is(err, repository.ErrParticipantNotFound) {
		t.Errorf("missing participant err = %v", err)
	}
	if _, err := svc.Unregister(ctx, "ghost", "michael@mergington.edu"); !errors.Is(err, repository.ErrActivityNotFound) {
		t.Errorf("unknown activity err = %v", err)
	}
}

func TestUnregisterThenSignupAgain(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Unregister(ctx, "chess-club", "michael@mergington.edu"); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if _, err := svc.Signup(ctx, "chess-club", "michael@mergington.edu"); err != nil {
		t.Errorf("re-signup after unregister: %v", err)
	}
}
