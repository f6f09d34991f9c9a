package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jhnmartin/join-gradient/internal/domain"
)

// newOfficeRndTestServer serves both the token exchange and the events API
// on one mux, mirroring how the adapter is configured with two URLs
func newOfficeRndTestServer(t *testing.T, events http.HandlerFunc) (*httptest.Server, *int) {
	t.Helper()
	tokenExchanges := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenExchanges++
		if err := r.ParseForm(); err != nil {
			t.Errorf("token request is not form-encoded: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("client_id") != "cid" || r.PostForm.Get("client_secret") != "csecret" {
			t.Errorf("credentials = %q / %q", r.PostForm.Get("client_id"), r.PostForm.Get("client_secret"))
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	})
	mux.HandleFunc("/api/v1/organizations/acme/events", events)
	mux.HandleFunc("/api/v1/organizations/acme/events/", events)

	return httptest.NewServer(mux), &tokenExchanges
}

func newOfficeRndTestClient(srv *httptest.Server) *HTTPOfficeRndClient {
	return NewHTTPOfficeRndClient(OfficeRndConfig{
		AuthURL:      srv.URL + "/oauth/token",
		BaseURL:      srv.URL + "/api/v1",
		ClientID:     "cid",
		ClientSecret: "csecret",
		OrgSlug:      "acme",
		Scopes:       "officernd.api.read officernd.api.write",
	})
}

func TestOfficeRndCreateEvent(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv, exchanges := newOfficeRndTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode([]map[string]string{{"_id": "cw-1", "title": "Launch Party"}})
	})
	defer srv.Close()

	start := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	c := newOfficeRndTestClient(srv)
	created, err := c.CreateEvent(context.Background(), &domain.CoworkingEvent{
		Title:    "Launch Party",
		OfficeID: "office-1",
		Start:    &start,
		End:      &end,
		Timezone: "America/Chicago",
		Where:    "Main Hall",
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if *exchanges != 1 {
		t.Errorf("token exchanges = %d, want 1", *exchanges)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["title"] != "Launch Party" || gotBody["office"] != "office-1" {
		t.Errorf("payload = %v", gotBody)
	}
	if gotBody["start"] != "2025-06-10T23:00:00.000Z" {
		t.Errorf("start = %v", gotBody["start"])
	}
	if created.ID != "cw-1" {
		t.Errorf("created.ID = %q", created.ID)
	}
}

func TestOfficeRndCreateEvent_ObjectResponse(t *testing.T) {
	srv, _ := newOfficeRndTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"_id": "cw-2"})
	})
	defer srv.Close()

	c := newOfficeRndTestClient(srv)
	created, err := c.CreateEvent(context.Background(), &domain.CoworkingEvent{Title: "x"})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if created.ID != "cw-2" {
		t.Errorf("created.ID = %q", created.ID)
	}
}

func TestOfficeRndUpdateEvent(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv, _ := newOfficeRndTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	c := newOfficeRndTestClient(srv)
	if err := c.UpdateEvent(context.Background(), "cw-1", "New Title", "New Venue"); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	if gotPath != "PUT /api/v1/organizations/acme/events/cw-1" {
		t.Errorf("request = %q", gotPath)
	}
	if gotBody["title"] != "New Title" || gotBody["where"] != "New Venue" {
		t.Errorf("payload = %v", gotBody)
	}
	if len(gotBody) != 2 {
		t.Errorf("update must send only title and where, got %v", gotBody)
	}
}

func TestOfficeRndDeleteEvent(t *testing.T) {
	var gotPath string
	srv, _ := newOfficeRndTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	c := newOfficeRndTestClient(srv)
	if err := c.DeleteEvent(context.Background(), "cw-1"); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if gotPath != "DELETE /api/v1/organizations/acme/events/cw-1" {
		t.Errorf("request = %q", gotPath)
	}
}

func TestOfficeRndFreshTokenPerCall(t *testing.T) {
	srv, exchanges := newOfficeRndTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	c := newOfficeRndTestClient(srv)
	_ = c.DeleteEvent(context.Background(), "cw-1")
	_ = c.DeleteEvent(context.Background(), "cw-2")

	if *exchanges != 2 {
		t.Errorf("token exchanges = %d, want one per call", *exchanges)
	}
}

func TestOfficeRndTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad credentials"))
	}))
	defer srv.Close()

	c := NewHTTPOfficeRndClient(OfficeRndConfig{
		AuthURL: srv.URL,
		BaseURL: srv.URL,
		OrgSlug: "acme",
	})

	err := c.DeleteEvent(context.Background(), "cw-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Platform != "officernd" || apiErr.Status != http.StatusUnauthorized {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
