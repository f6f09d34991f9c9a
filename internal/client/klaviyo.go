package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const klaviyoPlatform = "klaviyo"

// KlaviyoClient is the marketing platform adapter. FindProfileByEmail
// returns the empty string when no profile matches; zero matches are not an
// error.
type KlaviyoClient interface {
	// ImportProfile upserts a subscribed profile and returns its id
	ImportProfile(ctx context.Context, email string) (string, error)
	AddToList(ctx context.Context, listID, profileID string) error
	RemoveFromList(ctx context.Context, listID, profileID string) error
	FindProfileByEmail(ctx context.Context, email string) (string, error)
}

// KlaviyoConfig holds the marketing adapter settings
type KlaviyoConfig struct {
	BaseURL  string
	APIKey   string
	Revision string
	Timeout  time.Duration
}

// HTTPKlaviyoClient implements KlaviyoClient against the Klaviyo JSON:API
type HTTPKlaviyoClient struct {
	cfg        KlaviyoConfig
	httpClient *http.Client
	now        func() time.Time
}

// NewHTTPKlaviyoClient creates a new Klaviyo adapter
func NewHTTPKlaviyoClient(cfg KlaviyoConfig) *HTTPKlaviyoClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if cfg.Revision == "" {
		cfg.Revision = "2025-04-15"
	}
	return &HTTPKlaviyoClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

type klaviyoProfileRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ImportProfile upserts a profile with email/sms marketing consent
func (c *HTTPKlaviyoClient) ImportProfile(ctx context.Context, email string) (string, error) {
	consent := map[string]interface{}{
		"consent":           "SUBSCRIBED",
		"consent_timestamp": c.now().UTC().Format(time.RFC3339),
		"method":            "API",
	}

	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "profile",
			"attributes": map[string]interface{}{
				"email": email,
				"subscriptions": map[string]interface{}{
					"email": map[string]interface{}{
						"marketing": mergeConsent(consent, "can_receive_email_marketing"),
					},
					"sms": map[string]interface{}{
						"marketing":     mergeConsent(consent, "can_receive_sms_marketing"),
						"transactional": mergeConsent(consent, "can_receive_sms_transactional"),
					},
				},
			},
		},
	}

	body, err := c.do(ctx, http.MethodPost, c.cfg.BaseURL+"/api/profile-import", payload)
	if err != nil {
		return "", err
	}

	profileID := decodeProfileID(body)
	if profileID == "" {
		return "", fmt.Errorf("klaviyo profile import returned no profile id")
	}
	return profileID, nil
}

// AddToList attaches a profile to a list
func (c *HTTPKlaviyoClient) AddToList(ctx context.Context, listID, profileID string) error {
	endpoint := fmt.Sprintf("%s/api/lists/%s/relationships/profiles", c.cfg.BaseURL, listID)
	_, err := c.do(ctx, http.MethodPost, endpoint, map[string]interface{}{
		"data": []klaviyoProfileRef{{Type: "profile", ID: profileID}},
	})
	return err
}

// RemoveFromList detaches a profile from a list
func (c *HTTPKlaviyoClient) RemoveFromList(ctx context.Context, listID, profileID string) error {
	endpoint := fmt.Sprintf("%s/api/lists/%s/relationships/profiles", c.cfg.BaseURL, listID)
	_, err := c.do(ctx, http.MethodDelete, endpoint, map[string]interface{}{
		"data": []klaviyoProfileRef{{Type: "profile", ID: profileID}},
	})
	return err
}

// FindProfileByEmail resolves a profile id via the equals(email, ...) filter
func (c *HTTPKlaviyoClient) FindProfileByEmail(ctx context.Context, email string) (string, error) {
	filter := fmt.Sprintf(`equals(email,"%s")`, email)
	endpoint := fmt.Sprintf("%s/api/profiles/?filter=%s", c.cfg.BaseURL, url.QueryEscape(filter))

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	return decodeProfileID(body), nil
}

func (c *HTTPKlaviyoClient) do(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Klaviyo-API-Key "+c.cfg.APIKey)
	req.Header.Set("accept", "application/vnd.api+json")
	req.Header.Set("revision", c.cfg.Revision)
	if payload != nil {
		req.Header.Set("content-type", "application/vnd.api+json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("klaviyo request failed: %w", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return nil, newAPIError(klaviyoPlatform, resp)
	}

	return io.ReadAll(resp.Body)
}

// decodeProfileID pulls the first profile id out of a JSON:API body; the
// data member is an object on some endpoints and an array on others
func decodeProfileID(body []byte) string {
	var many struct {
		Data []klaviyoProfileRef `json:"data"`
	}
	if err := json.Unmarshal(body, &many); err == nil && len(many.Data) > 0 {
		return many.Data[0].ID
	}

	var one struct {
		Data klaviyoProfileRef `json:"data"`
	}
	if err := json.Unmarshal(body, &one); err == nil {
		return one.Data.ID
	}
	return ""
}

func mergeConsent(base map[string]interface{}, flag string) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out[flag] = true
	return out
}
