// Package web is the user-facing half of the portal: it renders the
// activities page from a roster snapshot, carries flash feedback across
// redirects, and wires form submissions to the API client.
package web

import (
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/mergington/activities/internal/model"
)

// Page is the input to RenderRoster. The output is a pure function of it:
// rendering the same Page twice produces identical bytes.
type Page struct {
	Roster      []model.Activity
	FetchFailed bool
	Flash       *Flash
	Form        FormState
}

// FormState re-fills the signup form after a failed submission.
type FormState struct {
	Email      string
	ActivityID string
}

// ConfirmPage is the input to RenderConfirm.
type ConfirmPage struct {
	ActivityID   string
	ActivityName string
	Email        string
}

// Renderer converts roster snapshots into full HTML pages. Every render
// replaces the whole document, so there is no incremental patching and no
// handler state to leak between renders.
type Renderer struct {
	tpl *template.Template
}

// NewRenderer parses the page templates.
func NewRenderer() *Renderer {
	tpl := template.Must(template.New("roster").Parse(rosterHTML))
	template.Must(tpl.New("confirm").Parse(confirmHTML))
	return &Renderer{tpl: tpl}
}

// view-model types handed to the templates. Removal URLs are built with
// url.Values so ids and emails are query-encoded before the template
// HTML-escapes them; user-controlled data never reaches the markup raw.
type pageData struct {
	FetchFailed bool
	Flash       *Flash
	Form        FormState
	Cards       []activityCard
}

type activityCard struct {
	ID           string
	Name         string
	Description  string
	Schedule     string
	SpotsLeft    int
	Participants []participantEntry
}

type participantEntry struct {
	Email     string
	RemoveURL string
}

// RenderRoster writes the activities page for the given snapshot.
func (r *Renderer) RenderRoster(w io.Writer, p Page) error {
	data := pageData{
		FetchFailed: p.FetchFailed,
		Flash:       p.Flash,
		Form:        p.Form,
		Cards:       buildCards(p.Roster),
	}
	if err := r.tpl.ExecuteTemplate(w, "roster", data); err != nil {
		return fmt.Errorf("render roster: %w", err)
	}
	return nil
}

// RenderConfirm writes the unregister confirmation page.
func (r *Renderer) RenderConfirm(w io.Writer, p ConfirmPage) error {
	if err := r.tpl.ExecuteTemplate(w, "confirm", p); err != nil {
		return fmt.Errorf("render confirm: %w", err)
	}
	return nil
}

func buildCards(roster []model.Activity) []activityCard {
	cards := make([]activityCard, 0, len(roster))
	for i := range roster {
		a := &roster[i]
		card := activityCard{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Schedule:    a.Schedule,
			SpotsLeft:   a.SpotsLeft(),
		}
		// A missing participants list renders as an empty roster.
		for _, p := range a.Participants {
			card.Participants = append(card.Participants, participantEntry{
				Email:     p.Email,
				RemoveURL: removeURL(a, p.Email),
			})
		}
		cards = append(cards, card)
	}
	return cards
}

func removeURL(a *model.Activity, email string) string {
	q := url.Values{
		"activity": {a.ID},
		"name":     {a.Name},
		"email":    {email},
	}
	return "/unregister?" + q.Encode()
}

const rosterHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Mergington High School Activities</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f5f7; color: #1d1d1f; }
  header { background: #1a365d; color: #fff; padding: 24px; text-align: center; }
  main { max-width: 1100px; margin: 0 auto; padding: 24px; display: grid; grid-template-columns: 2fr 1fr; gap: 24px; }
  section { background: #fff; border-radius: 10px; padding: 20px; box-shadow: 0 1px 4px rgba(0,0,0,0.08); }
  h3 { margin-bottom: 16px; }
  .activity-card { border: 1px solid #e2e8f0; border-radius: 8px; padding: 16px; margin-bottom: 16px; }
  .activity-card h4 { margin-bottom: 8px; }
  .activity-card p { margin-bottom: 6px; font-size: 14px; }
  .participants-container { margin-top: 12px; border-top: 1px solid #e2e8f0; padding-top: 10px; }
  .participants-list { list-style: none; }
  .participants-list li { display: flex; justify-content: space-between; align-items: center; padding: 4px 0; font-size: 14px; }
  .delete-btn { color: #c53030; text-decoration: none; font-weight: 700; padding: 0 6px; }
  .info { color: #718096; font-style: italic; font-size: 14px; }
  .error { color: #c53030; }
  #message { padding: 10px; border-radius: 6px; margin-bottom: 14px; font-size: 14px; }
  #message.success { background: #c6f6d5; color: #22543d; }
  #message.error { background: #fed7d7; color: #822727; }
  #message.hidden { display: none; }
  form label { display: block; margin: 10px 0 4px; font-size: 14px; }
  form input, form select { width: 100%; padding: 8px; border: 1px solid #cbd5e0; border-radius: 6px; }
  form button { margin-top: 14px; width: 100%; padding: 10px; background: #2b6cb0; color: #fff; border: none; border-radius: 6px; cursor: pointer; }
</style>
</head>
<body>
<header>
  <h1>Mergington High School</h1>
  <p>Extracurricular Activities</p>
</header>
<main>
  <section id="activities-container">
    <h3>Available Activities</h3>
    <div id="activities-list">
{{- if .FetchFailed}}
      <p class="error">Failed to load activities. Please try again later.</p>
{{- else}}
{{- range .Cards}}
      <div class="activity-card">
        <h4>{{.Name}}</h4>
        <p>{{.Description}}</p>
{{- if .Schedule}}
        <p><strong>Schedule:</strong> {{.Schedule}}</p>
{{- end}}
        <p><strong>Availability:</strong> {{.SpotsLeft}} spots left</p>
        <div class="participants-container">
          <h5>Participants ({{len .Participants}})</h5>
{{- if .Participants}}
          <ul class="participants-list">
{{- range .Participants}}
            <li><span class="participant-email">{{.Email}}</span><a class="delete-btn" href="{{.RemoveURL}}" title="Unregister">&#10006;</a></li>
{{- end}}
          </ul>
{{- else}}
          <p class="info">No participants yet. Be the first to sign up!</p>
{{- end}}
        </div>
      </div>
{{- end}}
{{- end}}
    </div>
  </section>
  <section id="signup-container">
    <h3>Sign Up for an Activity</h3>
{{- with .Flash}}
    <div id="message" class="{{.Kind}}">{{.Text}}</div>
{{- end}}
    <form id="signup-form" method="post" action="/signup">
      <label for="email">Student Email:</label>
      <input type="email" id="email" name="email" required value="{{.Form.Email}}">
      <label for="activity">Select Activity:</label>
      <select id="activity" name="activity" required>
        <option value="">-- Select an activity --</option>
{{- range .Cards}}
        <option value="{{.ID}}"{{if eq .ID $.Form.ActivityID}} selected{{end}}>{{.Name}}</option>
{{- end}}
      </select>
      <button type="submit">Sign Up</button>
    </form>
  </section>
</main>
<script>
  (function () {
    var msg = document.getElementById('message');
    if (msg) {
      setTimeout(function () { msg.classList.add('hidden'); }, 5000);
    }
  })();
</script>
</body>
</html>
`

const confirmHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Confirm Unregistration</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f5f7; color: #1d1d1f; }
  .confirm-box { max-width: 480px; margin: 80px auto; background: #fff; border-radius: 10px; padding: 28px; box-shadow: 0 1px 4px rgba(0,0,0,0.08); }
  .confirm-box h3 { margin-bottom: 14px; }
  .confirm-box p { margin-bottom: 20px; }
  .confirm-box button { padding: 10px 16px; background: #c53030; color: #fff; border: none; border-radius: 6px; cursor: pointer; }
  .cancel { margin-left: 14px; color: #2b6cb0; text-decoration: none; }
</style>
</head>
<body>
<div class="confirm-box">
  <h3>Confirm Unregistration</h3>
  <p>Are you sure you want to remove <strong>{{.Email}}</strong> from <strong>{{.ActivityName}}</strong>?</p>
  <form method="post" action="/unregister">
    <input type="hidden" name="activity" value="{{.ActivityID}}">
    <input type="hidden" name="email" value="{{.Email}}">
    <button type="submit">Yes, remove</button>
    <a class="cancel" href="/">Cancel</a>
  </form>
</div>
</body>
</html>
`
