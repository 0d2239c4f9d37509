package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rx-vault/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) *config.Config {
	return &config.Config{
		SupabaseURL:    url,
		ServiceRoleKey: "service-role-key",
		Bucket:         "prescriptions",
		StorageTimeout: 2 * time.Second,
	}
}

func TestUploadSuccess(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotAPIKey, gotUpsert, gotType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		gotUpsert = r.Header.Get("x-upsert")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	err := client.Upload(context.Background(), "7/token_x y.png", "image/png", []byte("fake png"))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/storage/v1/object/prescriptions/7/token_x%20y.png", gotPath)
	assert.Equal(t, "Bearer service-role-key", gotAuth)
	assert.Equal(t, "service-role-key", gotAPIKey)
	assert.Equal(t, "false", gotUpsert)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, []byte("fake png"), gotBody)
}

func TestUploadRejectedExtractsProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"The resource already exists"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	err := client.Upload(context.Background(), "7/token_x.png", "image/png", []byte("data"))
	require.Error(t, err)

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ErrRejected, serr.Kind)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "The resource already exists", serr.Detail)
	assert.Equal(t, "Storage rejected upload (409): The resource already exists", err.Error())
}

func TestUploadRejectedTruncatesLongBody(t *testing.T) {
	long := strings.Repeat("x", 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(long))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	err := client.Upload(context.Background(), "7/token_x.png", "image/png", []byte("data"))

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Len(t, serr.Detail, 180)
}

func TestUploadRejectedEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	err := client.Upload(context.Background(), "7/token_x.png", "image/png", []byte("data"))

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "Unexpected storage error.", serr.Detail)
}

func TestUploadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.StorageTimeout = 50 * time.Millisecond
	client := NewClient(cfg)

	err := client.Upload(context.Background(), "7/token_x.png", "image/png", []byte("data"))
	require.Error(t, err)

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ErrTimeout, serr.Kind)
	assert.Equal(t, "Upload timed out while connecting to storage.", err.Error())
}

func TestUploadUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(testConfig(url))
	err := client.Upload(context.Background(), "7/token_x.png", "image/png", []byte("data"))
	require.Error(t, err)

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ErrUnreachable, serr.Kind)
	assert.Equal(t, "Could not connect to storage. Check network and SUPABASE_URL.", err.Error())
}

func TestPublicURL(t *testing.T) {
	client := NewClient(testConfig("https://example.supabase.co"))

	assert.Equal(t,
		"https://example.supabase.co/storage/v1/object/public/prescriptions/7/token_x.png",
		client.PublicURL("7/token_x.png"))
	assert.Equal(t,
		"https://example.supabase.co/storage/v1/object/public/prescriptions/7/a%20b.png",
		client.PublicURL("7/a b.png"))
}
