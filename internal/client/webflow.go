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

	"github.com/jhnmartin/join-gradient/internal/domain"
)

const webflowPlatform = "webflow"

// WebflowClient is the CMS adapter. FindBySourceID returns (nil, nil) when
// no item carries the source id; zero matches are not an error.
type WebflowClient interface {
	// CreateItem creates a collection item; live selects the live endpoint
	// instead of a draft creation
	CreateItem(ctx context.Context, fields domain.FieldBag, live bool) (*domain.CmsItem, error)
	// PatchItem updates an existing item. asDraft is the isDraft flag sent
	// with the payload; live selects the /live endpoint.
	PatchItem(ctx context.Context, itemID string, fields domain.FieldBag, asDraft, live bool) (*domain.CmsItem, error)
	DeleteItem(ctx context.Context, itemID string) error
	FindBySourceID(ctx context.Context, sourceID string) (*domain.CmsItem, error)
	PublishItems(ctx context.Context, itemIDs []string) error
	PublishSite(ctx context.Context) error
}

// WebflowConfig holds the CMS adapter settings
type WebflowConfig struct {
	BaseURL      string
	AccessToken  string
	CollectionID string
	SiteID       string
	Timeout      time.Duration
}

// HTTPWebflowClient implements WebflowClient against the Webflow v2 API
type HTTPWebflowClient struct {
	cfg        WebflowConfig
	httpClient *http.Client
}

// NewHTTPWebflowClient creates a new Webflow adapter
func NewHTTPWebflowClient(cfg WebflowConfig) *HTTPWebflowClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPWebflowClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type wfItem struct {
	ID         string          `json:"id"`
	IsDraft    bool            `json:"isDraft"`
	IsArchived bool            `json:"isArchived"`
	FieldData  domain.FieldBag `json:"fieldData"`
}

func (i *wfItem) toDomain() *domain.CmsItem {
	return &domain.CmsItem{
		ID:         i.ID,
		IsDraft:    i.IsDraft,
		IsArchived: i.IsArchived,
		FieldData:  i.FieldData,
	}
}

type wfItemList struct {
	Items []wfItem `json:"items"`
}

// CreateItem creates a collection item as draft, or directly live
func (c *HTTPWebflowClient) CreateItem(ctx context.Context, fields domain.FieldBag, live bool) (*domain.CmsItem, error) {
	endpoint := fmt.Sprintf("%s/collections/%s/items", c.cfg.BaseURL, c.cfg.CollectionID)
	if live {
		endpoint += "/live"
	}

	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"isArchived": false,
				"isDraft":    !live,
				"fieldData":  fields,
			},
		},
	}

	body, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}
	return decodeItem(body)
}

// PatchItem updates the draft or live representation of an item
func (c *HTTPWebflowClient) PatchItem(ctx context.Context, itemID string, fields domain.FieldBag, asDraft, live bool) (*domain.CmsItem, error) {
	endpoint := fmt.Sprintf("%s/collections/%s/items/%s", c.cfg.BaseURL, c.cfg.CollectionID, itemID)
	if live {
		endpoint += "/live"
	}

	payload := map[string]interface{}{
		"isArchived": false,
		"isDraft":    asDraft,
		"fieldData":  fields,
	}

	body, err := c.do(ctx, http.MethodPatch, endpoint, payload)
	if err != nil {
		return nil, err
	}
	return decodeItem(body)
}

// DeleteItem deletes a collection item
func (c *HTTPWebflowClient) DeleteItem(ctx context.Context, itemID string) error {
	endpoint := fmt.Sprintf("%s/collections/%s/items/%s", c.cfg.BaseURL, c.cfg.CollectionID, itemID)
	_, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	return err
}

// FindBySourceID searches the collection for the item whose swoogo field
// equals sourceID, using the structured filter query parameter
func (c *HTTPWebflowClient) FindBySourceID(ctx context.Context, sourceID string) (*domain.CmsItem, error) {
	filter, err := json.Marshal(map[string]string{
		"field":    "swoogo",
		"operator": "equals",
		"value":    sourceID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/collections/%s/items?filter=%s",
		c.cfg.BaseURL, c.cfg.CollectionID, url.QueryEscape(string(filter)))

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var list wfItemList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	if len(list.Items) == 0 {
		return nil, nil
	}
	return list.Items[0].toDomain(), nil
}

// PublishItems publishes staged items to the live site
func (c *HTTPWebflowClient) PublishItems(ctx context.Context, itemIDs []string) error {
	endpoint := fmt.Sprintf("%s/collections/%s/items/publish", c.cfg.BaseURL, c.cfg.CollectionID)
	_, err := c.do(ctx, http.MethodPost, endpoint, map[string]interface{}{
		"itemIds": itemIDs,
	})
	return err
}

// PublishSite triggers a full site publish so statically-rendered pages pick
// up deletions
func (c *HTTPWebflowClient) PublishSite(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/sites/%s/publish", c.cfg.BaseURL, c.cfg.SiteID)
	_, err := c.do(ctx, http.MethodPost, endpoint, map[string]interface{}{})
	return err
}

func (c *HTTPWebflowClient) do(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
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
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webflow request failed: %w", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return nil, newAPIError(webflowPlatform, resp)
	}

	return io.ReadAll(resp.Body)
}

// decodeItem decodes either a bare item or an {items: [...]} envelope; the
// bulk create endpoint wraps, the single-item endpoints do not
func decodeItem(body []byte) (*domain.CmsItem, error) {
	var list wfItemList
	if err := json.Unmarshal(body, &list); err == nil && len(list.Items) > 0 {
		return list.Items[0].toDomain(), nil
	}

	var single wfItem
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("failed to decode item response: %w", err)
	}
	return single.toDomain(), nil
}
