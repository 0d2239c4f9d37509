// Package database implements the remote database client: a thin wrapper over
// the provider's PostgREST query interface for the `users` and `prescriptions`
// tables. There are no transactions and no retries; every call is a single
// bounded HTTP request.
package database

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"rx-vault/config"
	"rx-vault/database/model"
	"rx-vault/util/common"

	json "github.com/goccy/go-json"
)

// maxErrDetail caps how much of a provider error body is surfaced to the user.
const maxErrDetail = 180

// Client issues filtered selects and inserts against the remote tables.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewClient builds a database client from the loaded configuration. The HTTP
// client enforces the configured database timeout on every call.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.SupabaseURL + "/rest/v1",
		apiKey:  cfg.ServiceRoleKey,
		hc:      &http.Client{Timeout: cfg.DBTimeout},
	}
}

// GetUserByEmail returns the user with the given email, or nil when no such
// row exists.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := url.Values{}
	query.Set("select", "id,email,username,age,password_hash")
	query.Set("email", "eq."+email)
	query.Set("limit", "1")

	var users []model.User
	if err := c.get(ctx, "/users", query, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// CreateUser inserts a new user row and fills in the assigned id.
func (c *Client) CreateUser(ctx context.Context, user *model.User) error {
	var inserted []model.User
	if err := c.post(ctx, "/users", user, &inserted); err != nil {
		return err
	}
	if len(inserted) == 0 {
		return common.NewError("database returned no row for the inserted user")
	}
	user.Id = inserted[0].Id
	return nil
}

// CreatePrescription inserts a new prescription row referencing its owner.
func (c *Client) CreatePrescription(ctx context.Context, p *model.Prescription) error {
	var inserted []model.Prescription
	if err := c.post(ctx, "/prescriptions", p, &inserted); err != nil {
		return err
	}
	if len(inserted) > 0 {
		p.Id = inserted[0].Id
		p.CreatedAt = inserted[0].CreatedAt
	}
	return nil
}

// ListPrescriptions returns every prescription ordered by prescription date
// descending, each joined with its uploader's username, email and age.
func (c *Client) ListPrescriptions(ctx context.Context) ([]model.PrescriptionItem, error) {
	query := url.Values{}
	query.Set("select", "id,prescription_date,image_url,created_at,users(username,email,age)")
	query.Set("order", "prescription_date.desc")

	var items []model.PrescriptionItem
	if err := c.get(ctx, "/prescriptions", query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return common.NewErrorf("database request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return common.NewErrorf("database response read failed: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return common.NewErrorf("database request failed (%d): %s", resp.StatusCode, errDetail(data))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// errDetail extracts a short human-readable message from a provider error
// body, preferring the JSON `message`/`error` fields over the raw text.
func errDetail(body []byte) string {
	detail := strings.TrimSpace(string(body))

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg, ok := payload["message"].(string); ok && msg != "" {
			detail = msg
		} else if msg, ok := payload["error"].(string); ok && msg != "" {
			detail = msg
		}
	}

	if detail == "" {
		return "unexpected database error"
	}
	if len(detail) > maxErrDetail {
		detail = detail[:maxErrDetail]
	}
	return detail
}
