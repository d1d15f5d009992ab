package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mergington/activities/internal/client"
	"github.com/mergington/activities/internal/model"
)

// RosterAPI is the slice of the activities client the controller needs.
// *client.Client satisfies it; tests substitute a stub.
type RosterAPI interface {
	FetchRoster(ctx context.Context) ([]model.Activity, error)
	Signup(ctx context.Context, activityID, email string) (string, error)
	Unregister(ctx context.Context, activityID, email string) (string, error)
}

// Controller wires browser requests to the API client. Every page it
// serves is rendered from a fresh fetch, so the displayed roster is always
// a pure function of the latest snapshot; mutations redirect back to the
// index, which is the refresh.
type Controller struct {
	api      RosterAPI
	renderer *Renderer
	flash    *FlashStore
	log      zerolog.Logger
}

// NewController constructs a Controller.
func NewController(api RosterAPI, renderer *Renderer, flash *FlashStore, log zerolog.Logger) *Controller {
	return &Controller{api: api, renderer: renderer, flash: flash, log: log}
}

// Routes returns the UI router mounted at the site root.
func (c *Controller) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleIndex)
	r.Post("/signup", c.handleSignup)
	r.Get("/unregister", c.handleConfirmUnregister)
	r.Post("/unregister", c.handleUnregister)
	return r
}

// handleIndex fetches the roster and renders the page. A fetch failure
// degrades to a static error message in the roster region; any pending
// flash message still renders, so a mutation's own outcome report survives
// a failed refresh.
func (c *Controller) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := Page{}

	roster, err := c.api.FetchRoster(r.Context())
	if err != nil {
		c.log.Error().Err(err).Msg("roster fetch failed")
		page.FetchFailed = true
	} else {
		page.Roster = roster
	}

	// Consume before rendering: it may write the session cookie.
	page.Flash, page.Form = c.flash.Consume(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.renderer.RenderRoster(w, page); err != nil {
		c.log.Error().Err(err).Msg("render failed")
	}
}

// handleSignup reads the form, invokes the signup mutation and redirects to
// the index, which re-fetches and re-renders. The form is retained only on
// failure.
func (c *Controller) handleSignup(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	activityID := r.PostFormValue("activity")

	if email == "" || activityID == "" {
		c.flash.PostOutcome(w, r,
			Flash{Kind: FlashError, Text: "Please provide an email and select an activity."},
			&FormState{Email: email, ActivityID: activityID})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	msg, err := c.api.Signup(r.Context(), activityID, email)
	if err != nil {
		c.log.Warn().Err(err).Str("activity", activityID).Msg("signup failed")
		c.flash.PostOutcome(w, r,
			Flash{Kind: FlashError, Text: mutationDetail(err, "Failed to sign up. Please try again.")},
			&FormState{Email: email, ActivityID: activityID})
	} else {
		c.flash.PostOutcome(w, r, Flash{Kind: FlashSuccess, Text: msg}, nil)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleConfirmUnregister renders the confirmation gate. It issues no
// backend request; cancelling is just the link back to the index, so a
// declined confirmation leaves every roster untouched.
func (c *Controller) handleConfirmUnregister(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := ConfirmPage{
		ActivityID:   q.Get("activity"),
		ActivityName: q.Get("name"),
		Email:        q.Get("email"),
	}
	if page.ActivityID == "" || page.Email == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if page.ActivityName == "" {
		page.ActivityName = page.ActivityID
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.renderer.RenderConfirm(w, page); err != nil {
		c.log.Error().Err(err).Msg("render failed")
	}
}

// handleUnregister invokes the unregister mutation after the confirmation
// gate and redirects to the index for the refresh.
func (c *Controller) handleUnregister(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	activityID := r.PostFormValue("activity")

	if email == "" || activityID == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	msg, err := c.api.Unregister(r.Context(), activityID, email)
	if err != nil {
		c.log.Warn().Err(err).Str("activity", activityID).Msg("unregister failed")
		c.flash.PostOutcome(w, r,
			Flash{Kind: FlashError, Text: mutationDetail(err, "Failed to unregister. Please try again.")}, nil)
	} else {
		c.flash.PostOutcome(w, r, Flash{Kind: FlashSuccess, Text: msg}, nil)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// mutationDetail extracts the displayable detail from a client error.
func mutationDetail(err error, fallback string) string {
	var merr *client.MutationError
	if errors.As(err, &merr) && merr.Detail != "" {
		return merr.Detail
	}
	return fallback
}
