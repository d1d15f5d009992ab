package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mergington/activities/internal/client"
	"github.com/mergington/activities/internal/model"
)

type stubAPI struct {
	roster   []model.Activity
	fetchErr error

	signupMsg string
	signupErr error
	unregMsg  string
	unregErr  error

	fetchCalls  int
	signupCalls int
	unregCalls  int

	lastActivity string
	lastEmail    string
}

func (s *stubAPI) FetchRoster(ctx context.Context) ([]model.Activity, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.roster, nil
}

func (s *stubAPI) Signup(ctx context.Context, activityID, email string) (string, error) {
	s.signupCalls++
	s.lastActivity, s.lastEmail = activityID, email
	return s.signupMsg, s.signupErr
}

func (s *stubAPI) Unregister(ctx context.Context, activityID, email string) (string, error) {
	s.unregCalls++
	s.lastActivity, s.lastEmail = activityID, email
	return s.unregMsg, s.unregErr
}

func newTestServer(t *testing.T, api *stubAPI) (*httptest.Server, *http.Client) {
	t.Helper()
	flash := NewFlashStore([]byte("test-secret-0123456789abcdef"), 5*time.Second)
	ctrl := NewController(api, NewRenderer(), flash, zerolog.Nop())
	srv := httptest.NewServer(ctrl.Routes())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, hc *http.Client, u string) string {
	t.Helper()
	resp, err := hc.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", u, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func postForm(t *testing.T, hc *http.Client, u string, form url.Values) string {
	t.Helper()
	resp, err := hc.PostForm(u, form)
	if err != nil {
		t.Fatalf("POST %s: %v", u, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestIndexRendersRoster(t *testing.T) {
	api := &stubAPI{roster: sampleRoster()}
	srv, hc := newTestServer(t, api)

	body := get(t, hc, srv.URL+"/")
	if !strings.Contains(body, "Chess Club") || !strings.Contains(body, "Yoga") {
		t.Error("roster cards missing from index")
	}
	if api.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want 1", api.fetchCalls)
	}
}

func TestIndexFetchFailure(t *testing.T) {
	api := &stubAPI{fetchErr: &client.FetchError{Err: errors.New("connection refused")}}
	srv, hc := newTestServer(t, api)

	body := get(t, hc, srv.URL+"/")
	if !strings.Contains(body, "Failed to load activities. Please try again later.") {
		t.Error("missing fallback message on fetch failure")
	}
}

func TestSignupSuccessRefreshesAndClearsForm(t *testing.T) {
	api := &stubAPI{roster: sampleRoster(), signupMsg: "Signed up sam@mergington.edu for Yoga"}
	srv, hc := newTestServer(t, api)

	// The 303 redirect is followed to GET /, which is the refresh.
	body := postForm(t, hc, srv.URL+"/signup", url.Values{
		"email":    {"sam@mergington.edu"},
		"activity": {"yoga"},
	})

	if api.signupCalls != 1 || api.lastActivity != "yoga" || api.lastEmail != "sam@mergington.edu" {
		t.Fatalf("signup not invoked correctly: %+v", api)
	}
	if api.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want 1 (the post-mutation refresh)", api.fetchCalls)
	}
	if !strings.Contains(body, "Signed up sam@mergington.edu for Yoga") {
		t.Error("success message not shown after refresh")
	}
	if !strings.Contains(body, `required value=""`) {
		t.Error("email input not cleared after successful signup")
	}
}

func TestSignupFailureShowsDetailAndRetainsForm(t *testing.T) {
	api := &stubAPI{
		roster:    sampleRoster(),
		signupErr: &client.MutationError{Op: "signup", Status: 400, Detail: "Activity is full"},
	}
	srv, hc := newTestServer(t, api)

	body := postForm(t, hc, srv.URL+"/signup", url.Values{
		"email":    {"sam@mergington.edu"},
		"activity": {"chess-club"},
	})

	if !strings.Contains(body, "Activity is full") {
		t.Error("server detail not surfaced")
	}
	if !strings.Contains(body, `required value="sam@mergington.edu"`) {
		t.Error("failed signup should keep the entered email")
	}
	if !strings.Contains(body, `<option value="chess-club" selected>`) {
		t.Error("failed signup should keep the selected activity")
	}
}

func TestSignupMissingFieldsSkipsMutation(t *testing.T) {
	api := &stubAPI{roster: sampleRoster()}
	srv, hc := newTestServer(t, api)

	body := postForm(t, hc, srv.URL+"/signup", url.Values{"email": {""}, "activity": {"yoga"}})

	if api.signupCalls != 0 {
		t.Errorf("signupCalls = %d, want 0", api.signupCalls)
	}
	if !strings.Contains(body, "Please provide an email and select an activity.") {
		t.Error("missing validation message")
	}
}

func TestConfirmPageIssuesNoRequests(t *testing.T) {
	api := &stubAPI{roster: sampleRoster()}
	srv, hc := newTestServer(t, api)

	q := url.Values{
		"activity": {"chess-club"},
		"name":     {"Chess Club"},
		"email":    {"michael@mergington.edu"},
	}
	body := get(t, hc, srv.URL+"/unregister?"+q.Encode())

	if api.fetchCalls != 0 || api.unregCalls != 0 || api.signupCalls != 0 {
		t.Errorf("confirmation page made backend requests: %+v", api)
	}
	if !strings.Contains(body, "michael@mergington.edu") || !strings.Contains(body, "Chess Club") {
		t.Error("confirmation must name the email and activity")
	}
}

func TestUnregisterConfirmedFlow(t *testing.T) {
	api := &stubAPI{roster: sampleRoster(), unregMsg: "Removed michael@mergington.edu from Chess Club"}
	srv, hc := newTestServer(t, api)

	body := postForm(t, hc, srv.URL+"/unregister", url.Values{
		"activity": {"chess-club"},
		"email":    {"michael@mergington.edu"},
	})

	if api.unregCalls != 1 || api.lastActivity != "chess-club" {
		t.Fatalf("unregister not invoked correctly: %+v", api)
	}
	if api.fetchCalls != 1 {
		t.Errorf("fetchCalls = %d, want 1 (the post-mutation refresh)", api.fetchCalls)
	}
	if !strings.Contains(body, "Removed michael@mergington.edu from Chess Club") {
		t.Error("success message not shown after refresh")
	}
}

func TestUnregisterFailureSurfacesDetail(t *testing.T) {
	api := &stubAPI{
		roster:   sampleRoster(),
		unregErr: &client.MutationError{Op: "unregister", Status: 404, Detail: "Participant not found"},
	}
	srv, hc := newTestServer(t, api)

	body := postForm(t, hc, srv.URL+"/unregister", url.Values{
		"activity": {"chess-club"},
		"email":    {"ghost@mergington.edu"},
	})

	if !strings.Contains(body, "Participant not found") {
		t.Error("server detail not surfaced")
	}
	if !strings.Contains(body, `class="error"`) {
		t.Error("failure must render as an error flash")
	}
}
