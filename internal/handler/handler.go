// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
	"github.com/mergington/activities/internal/service"
)

// ActivityHandler holds all HTTP handlers for the activities API.
type ActivityHandler struct {
	svc *service.ActivityService
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// Routes returns the API subrouter mounted at /api/activities.
func (h *ActivityHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListActivities)
	r.Get("/{id}/participants", h.ListParticipants)
	r.Post("/{id}/signup", h.Signup)
	r.Delete("/{id}/participants/{email}", h.Unregister)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.DetailResponse{Detail: detail})
}

// pathParam returns a chi URL parameter decoded. chi matches against the
// raw path only when the request URL carried percent-encoding that does
// not round-trip; only then does the param still need unescaping.
// Unescaping unconditionally would double-decode emails whose literal
// text contains a percent triplet.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath != "" {
		if u, err := url.PathUnescape(v); err == nil {
			return u
		}
	}
	return v
}

// ListActivities handles GET /api/activities
// Returns a JSON array of all activities with nested participants.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.ListActivities(r.Context())
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	// Return empty arrays rather than null for better client compatibility.
	if activities == nil {
		activities = []model.Activity{}
	}
	for i := range activities {
		if activities[i].Participants == nil {
			activities[i].Participants = []model.Participant{}
		}
	}

	writeJSON(w, http.StatusOK, activities)
}

// ListParticipants handles GET /api/activities/{id}/participants
// Returns the activity's roster as a JSON array of {email} objects.
func (h *ActivityHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	participants, err := h.svc.ListParticipants(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			writeDetail(w, http.StatusNotFound, "Activity not found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "failed to list participants")
		return
	}

	if participants == nil {
		participants = []model.Participant{}
	}
	writeJSON(w, http.StatusOK, participants)
}

// Signup handles POST /api/activities/{id}/signup?email={email}
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	email := r.URL.Query().Get("email")

	msg, err := h.svc.Signup(r.Context(), id, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrActivityNotFound):
			writeDetail(w, http.StatusNotFound, "Activity not found")
		case errors.Is(err, repository.ErrAlreadyRegistered):
			writeDetail(w, http.StatusBadRequest, "Student is already signed up for this activity")
		case errors.Is(err, repository.ErrActivityFull):
			writeDetail(w, http.StatusBadRequest, "Activity is full")
		default:
			writeDetail(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

// Unregister handles DELETE /api/activities/{id}/participants/{email}
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	email := pathParam(r, "email")

	msg, err := h.svc.Unregister(r.Context(), id, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrActivityNotFound):
			writeDetail(w, http.StatusNotFound, "Activity not found")
		case errors.Is(err, repository.ErrParticipantNotFound):
			writeDetail(w, http.StatusNotFound, "Participant not found")
		default:
			writeDetail(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
