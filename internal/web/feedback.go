package web

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// FlashKind is the visual state of the message surface.
type FlashKind string

const (
	// FlashSuccess marks a completed mutation.
	FlashSuccess FlashKind = "success"
	// FlashError marks a failed mutation or invalid submission.
	FlashError FlashKind = "error"
)

// Flash is one transient message shown above the signup form.
type Flash struct {
	Kind FlashKind
	Text string
}

const (
	keyFlashKind    = "flash_kind"
	keyFlashText    = "flash_text"
	keyFlashShown   = "flash_shown"
	keyFormEmail    = "form_email"
	keyFormActivity = "form_activity"
)

// FlashStore keeps the single message surface in a cookie session so it
// survives the post-mutation redirect. A message becomes visible on the
// first render after the mutation and stays visible on re-renders for the
// configured TTL from that moment; posting a new outcome supersedes a
// pending one, and its own TTL governs from then on. Hiding is idempotent.
type FlashStore struct {
	store *sessions.CookieStore
	name  string
	ttl   time.Duration
	now   func() time.Time
}

// NewFlashStore constructs a FlashStore with the given cookie secret and
// visibility window.
func NewFlashStore(secret []byte, ttl time.Duration) *FlashStore {
	cs := sessions.NewCookieStore(secret)
	cs.Options.Path = "/"
	cs.Options.HttpOnly = true
	cs.Options.SameSite = http.SameSiteLaxMode
	return &FlashStore{store: cs, name: "activities_session", ttl: ttl, now: time.Now}
}

// PostOutcome records a mutation's result, replacing any pending message.
// A non-nil form retains the submitted values for the next render (failed
// signup keeps the user's input); a nil form clears them (successful
// signup resets the form).
func (s *FlashStore) PostOutcome(w http.ResponseWriter, r *http.Request, flash Flash, form *FormState) {
	sess, _ := s.store.Get(r, s.name)
	sess.Values[keyFlashKind] = string(flash.Kind)
	sess.Values[keyFlashText] = flash.Text
	sess.Values[keyFlashShown] = int64(0)
	if form != nil {
		sess.Values[keyFormEmail] = form.Email
		sess.Values[keyFormActivity] = form.ActivityID
	} else {
		delete(sess.Values, keyFormEmail)
		delete(sess.Values, keyFormActivity)
	}
	_ = sess.Save(r, w)
}

// Consume returns the message to show on this render (nil when hidden) and
// pops any retained form state. The first render of a message stamps the
// start of its visibility window.
func (s *FlashStore) Consume(w http.ResponseWriter, r *http.Request) (*Flash, FormState) {
	sess, _ := s.store.Get(r, s.name)

	var form FormState
	if v, ok := sess.Values[keyFormEmail].(string); ok {
		form.Email = v
	}
	if v, ok := sess.Values[keyFormActivity].(string); ok {
		form.ActivityID = v
	}
	delete(sess.Values, keyFormEmail)
	delete(sess.Values, keyFormActivity)

	var flash *Flash
	kind, okKind := sess.Values[keyFlashKind].(string)
	text, okText := sess.Values[keyFlashText].(string)
	if okKind && okText {
		shown, _ := sess.Values[keyFlashShown].(int64)
		now := s.now()
		switch {
		case shown == 0:
			sess.Values[keyFlashShown] = now.UnixNano()
			flash = &Flash{Kind: FlashKind(kind), Text: text}
		case now.Sub(time.Unix(0, shown)) < s.ttl:
			flash = &Flash{Kind: FlashKind(kind), Text: text}
		default:
			delete(sess.Values, keyFlashKind)
			delete(sess.Values, keyFlashText)
			delete(sess.Values, keyFlashShown)
		}
	}

	_ = sess.Save(r, w)
	return flash, form
}
