// Package storage implements the remote object storage client. Uploads are
// proxied to the provider's storage HTTP API with non-overwriting semantics,
// and public read URLs are derived from the storage key.
package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"rx-vault/config"

	json "github.com/goccy/go-json"
)

// maxErrDetail caps how much of a provider error body is surfaced to the user.
const maxErrDetail = 180

// ErrorKind distinguishes the three ways an upload can fail.
type ErrorKind int

const (
	// ErrTimeout means the provider did not answer within the configured
	// storage timeout.
	ErrTimeout ErrorKind = iota + 1
	// ErrRejected means the provider answered with an HTTP error status.
	ErrRejected
	// ErrUnreachable means the provider could not be reached at all.
	ErrUnreachable
)

// Error is an upload failure with its kind and, for rejections, the HTTP
// status and a short provider-supplied detail.
type Error struct {
	Kind   ErrorKind
	Status int
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrTimeout:
		return "Upload timed out while connecting to storage."
	case ErrRejected:
		return "Storage rejected upload (" + strconv.Itoa(e.Status) + "): " + e.Detail
	default:
		return "Could not connect to storage. Check network and SUPABASE_URL."
	}
}

// Client uploads objects to a single bucket and builds their public URLs.
type Client struct {
	baseURL string
	apiKey  string
	bucket  string
	hc      *http.Client
}

// NewClient builds a storage client from the loaded configuration. The HTTP
// client enforces the configured storage timeout on every call.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.SupabaseURL,
		apiKey:  cfg.ServiceRoleKey,
		bucket:  cfg.Bucket,
		hc:      &http.Client{Timeout: cfg.StorageTimeout},
	}
}

// Upload writes the object under key with the given content type. The call
// carries `x-upsert: false`, so an existing key fails instead of being
// overwritten. Failures are returned as *Error with their kind set.
func (c *Client) Upload(ctx context.Context, key string, contentType string, data []byte) error {
	uploadURL := c.baseURL + "/storage/v1/object/" + c.bucket + "/" + escapeKey(key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.hc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &Error{Kind: ErrTimeout}
		}
		return &Error{Kind: ErrUnreachable}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &Error{Kind: ErrRejected, Status: resp.StatusCode, Detail: errDetail(body)}
	}
	return nil
}

// PublicURL returns the public read URL for a storage key.
func (c *Client) PublicURL(key string) string {
	return c.baseURL + "/storage/v1/object/public/" + c.bucket + "/" + escapeKey(key)
}

// escapeKey percent-encodes each segment of a storage key, keeping the '/'
// separators intact.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
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
		return "Unexpected storage error."
	}
	if len(detail) > maxErrDetail {
		detail = detail[:maxErrDetail]
	}
	return detail
}
