// Package appwrite implements docstore.Store against the Appwrite
// databases REST API. Only the subset of the API the application uses is
// covered: document CRUD and equality-filtered, unpaginated listing.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"iftargather/internal/docstore"
)

// Config holds the Appwrite connection settings.
type Config struct {
	// Endpoint is the API origin including the version prefix,
	// e.g. "https://cloud.appwrite.io/v1".
	Endpoint   string
	ProjectID  string
	APIKey     string
	DatabaseID string
}

type client struct {
	http *http.Client
	cfg  Config
}

// New returns a docstore.Store backed by an Appwrite project. A nil
// httpClient falls back to http.DefaultClient.
func New(cfg Config, httpClient *http.Client) docstore.Store {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")
	return &client{http: httpClient, cfg: cfg}
}

func (c *client) collectionURL(collection string) string {
	return fmt.Sprintf("%s/databases/%s/collections/%s/documents",
		c.cfg.Endpoint, url.PathEscape(c.cfg.DatabaseID), url.PathEscape(collection))
}

func (c *client) documentURL(collection, id string) string {
	return c.collectionURL(collection) + "/" + url.PathEscape(id)
}

func (c *client) do(ctx context.Context, method, rawURL string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.cfg.ProjectID)
	req.Header.Set("X-Appwrite-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("appwrite request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return docstore.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("appwrite returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode appwrite response: %w", err)
		}
	}
	return nil
}

func (c *client) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*docstore.Document, error) {
	if id == "" {
		id = docstore.AutoID
	}
	body := map[string]any{"documentId": id, "data": data}
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, c.collectionURL(collection), body, &raw); err != nil {
		return nil, err
	}
	return decodeDocument(raw), nil
}

func (c *client) GetDocument(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodGet, c.documentURL(collection, id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeDocument(raw), nil
}

func (c *client) ListDocuments(ctx context.Context, collection string, filters ...docstore.Filter) ([]*docstore.Document, error) {
	listURL := c.collectionURL(collection)
	if len(filters) > 0 {
		q := url.Values{}
		for _, f := range filters {
			q.Add("queries[]", encodeQuery(f))
		}
		listURL += "?" + q.Encode()
	}
	var raw struct {
		Total     int              `json:"total"`
		Documents []map[string]any `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, listURL, nil, &raw); err != nil {
		return nil, err
	}
	docs := make([]*docstore.Document, 0, len(raw.Documents))
	for _, d := range raw.Documents {
		docs = append(docs, decodeDocument(d))
	}
	return docs, nil
}

func (c *client) UpdateDocument(ctx context.Context, collection, id string, patch map[string]any) (*docstore.Document, error) {
	body := map[string]any{"data": patch}
	var raw map[string]any
	if err := c.do(ctx, http.MethodPatch, c.documentURL(collection, id), body, &raw); err != nil {
		return nil, err
	}
	return decodeDocument(raw), nil
}

func (c *client) DeleteDocument(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, c.documentURL(collection, id), nil, nil)
}

// encodeQuery renders a filter in the Appwrite query string syntax,
// e.g. equal("hostId", ["user-1"]).
func encodeQuery(f docstore.Filter) string {
	value, err := json.Marshal(f.Value)
	if err != nil {
		value = []byte(`""`)
	}
	return fmt.Sprintf("%s(%q, [%s])", f.Op, f.Field, value)
}

// decodeDocument splits the Appwrite system fields ($id, $createdAt, ...)
// from the document payload.
func decodeDocument(raw map[string]any) *docstore.Document {
	doc := &docstore.Document{
		Data: make(map[string]any, len(raw)),
	}
	for k, v := range raw {
		if strings.HasPrefix(k, "$") {
			switch k {
			case "$id":
				doc.ID, _ = v.(string)
			case "$createdAt":
				if s, ok := v.(string); ok {
					if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
						doc.CreatedAt = ts
					}
				}
			}
			continue
		}
		doc.Data[k] = v
	}
	return doc
}
