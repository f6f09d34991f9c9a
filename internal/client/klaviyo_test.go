package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newKlaviyoTestClient(srv *httptest.Server) *HTTPKlaviyoClient {
	return NewHTTPKlaviyoClient(KlaviyoConfig{
		BaseURL:  srv.URL,
		APIKey:   "pk_test",
		Revision: "2025-04-15",
	})
}

func TestKlaviyoImportProfile(t *testing.T) {
	var gotPath, gotAuth, gotRevision, gotContentType string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRevision = r.Header.Get("revision")
		gotContentType = r.Header.Get("content-type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"type": "profile", "id": "prof-1"},
		})
	}))
	defer srv.Close()

	c := newKlaviyoTestClient(srv)
	profileID, err := c.ImportProfile(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}

	if gotPath != "POST /api/profile-import" {
		t.Errorf("request = %q", gotPath)
	}
	if gotAuth != "Klaviyo-API-Key pk_test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotRevision != "2025-04-15" {
		t.Errorf("revision = %q", gotRevision)
	}
	if gotContentType != "application/vnd.api+json" {
		t.Errorf("content-type = %q", gotContentType)
	}

	data := gotBody["data"].(map[string]interface{})
	attrs := data["attributes"].(map[string]interface{})
	if attrs["email"] != "new@example.com" {
		t.Errorf("email = %v", attrs["email"])
	}
	subs := attrs["subscriptions"].(map[string]interface{})
	emailMarketing := subs["email"].(map[string]interface{})["marketing"].(map[string]interface{})
	if emailMarketing["consent"] != "SUBSCRIBED" {
		t.Errorf("consent = %v", emailMarketing["consent"])
	}

	if profileID != "prof-1" {
		t.Errorf("profileID = %q", profileID)
	}
}

func TestKlaviyoAddToList(t *testing.T) {
	var gotPath string
	var gotBody struct {
		Data []klaviyoProfileRef `json:"data"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newKlaviyoTestClient(srv)
	if err := c.AddToList(context.Background(), "list-1", "prof-1"); err != nil {
		t.Fatalf("AddToList failed: %v", err)
	}

	if gotPath != "POST /api/lists/list-1/relationships/profiles" {
		t.Errorf("request = %q", gotPath)
	}
	if len(gotBody.Data) != 1 || gotBody.Data[0].ID != "prof-1" || gotBody.Data[0].Type != "profile" {
		t.Errorf("payload = %+v", gotBody.Data)
	}
}

func TestKlaviyoRemoveFromList(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newKlaviyoTestClient(srv)
	if err := c.RemoveFromList(context.Background(), "list-1", "prof-1"); err != nil {
		t.Fatalf("RemoveFromList failed: %v", err)
	}
	if gotPath != "DELETE /api/lists/list-1/relationships/profiles" {
		t.Errorf("request = %q", gotPath)
	}
}

func TestKlaviyoFindProfileByEmail(t *testing.T) {
	var gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"type": "profile", "id": "prof-9"}},
		})
	}))
	defer srv.Close()

	c := newKlaviyoTestClient(srv)
	profileID, err := c.FindProfileByEmail(context.Background(), "gone@example.com")
	if err != nil {
		t.Fatalf("FindProfileByEmail failed: %v", err)
	}

	if gotFilter != `equals(email,"gone@example.com")` {
		t.Errorf("filter = %q", gotFilter)
	}
	if profileID != "prof-9" {
		t.Errorf("profileID = %q", profileID)
	}
}

func TestKlaviyoFindProfileByEmail_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer srv.Close()

	c := newKlaviyoTestClient(srv)
	profileID, err := c.FindProfileByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("zero matches must not be an error: %v", err)
	}
	if profileID != "" {
		t.Errorf("profileID = %q, want empty", profileID)
	}
}

func TestKlaviyoNon2xxBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid key"))
	}))
	defer srv.Close()

	c := newKlaviyoTestClient(srv)
	_, err := c.ImportProfile(context.Background(), "a@b.c")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Platform != "klaviyo" || apiErr.Status != http.StatusForbidden {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
