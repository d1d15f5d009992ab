// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
)

// ActivityService orchestrates roster operations.
type ActivityService struct {
	repo repository.ActivityRepository
}

// NewActivityService constructs an ActivityService with its dependencies.
func NewActivityService(repo repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// ListActivities returns all activities with their rosters.
func (s *ActivityService) ListActivities(ctx context.Context) ([]model.Activity, error) {
	return s.repo.List(ctx)
}

// Signup validates the request, registers the email and returns the
// confirmation message.
func (s *ActivityService) Signup(ctx context.Context, activityID, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	if !isValidEmail(email) {
		return "", fmt.Errorf("email is not a valid email address")
	}
	if activityID == "" {
		return "", fmt.Errorf("activity id is required")
	}

	activity, err := s.repo.Get(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return "", repository.ErrActivityNotFound
		}
		return "", fmt.Errorf("get activity: %w", err)
	}

	if err := s.repo.AddParticipant(ctx, activityID, email); err != nil {
		// Surface domain errors directly so handlers can set correct HTTP status.
		if errors.Is(err, repository.ErrActivityNotFound) ||
			errors.Is(err, repository.ErrAlreadyRegistered) ||
			errors.Is(err, repository.ErrActivityFull) {
			return "", err
		}
		return "", fmt.Errorf("add participant: %w", err)
	}
	return fmt.Sprintf("Signed up %s for %s", email, activity.Name), nil
}

// ListParticipants returns the roster for one activity.
func (s *ActivityService) ListParticipants(ctx context.Context, activityID string) ([]model.Participant, error) {
	activity, err := s.repo.Get(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return nil, repository.ErrActivityNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return activity.Participants, nil
}

// Unregister validates the request, removes the registration and returns
// the confirmation message.
func (s *ActivityService) Unregister(ctx context.Context, activityID, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	if activityID == "" {
		return "", fmt.Errorf("activity id is required")
	}

	activity, err := s.repo.Get(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return "", repository.ErrActivityNotFound
		}
		return "", fmt.Errorf("get activity: %w", err)
	}

	if err := s.repo.RemoveParticipant(ctx, activityID, email); err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) ||
			errors.Is(err, repository.ErrParticipantNotFound) {
			return "", err
		}
		return "", fmt.Errorf("remove participant: %w", err)
	}
	return fmt.Sprintf("Removed %s from %s", email, activity.Name), nil
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
