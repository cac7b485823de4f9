package docstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateReadsLocationHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Location", "/documents/doc-42")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig(server.URL))
	id, err := client.Create(context.Background(), []byte(`{}`))
	assert.NoError(t, err)
	assert.Equal(t, "doc-42", id)
}

func TestCreateWithoutLocationFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig(server.URL))
	_, err := client.Create(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, ErrNoDocumentID)
}

func TestReplaceSendsFullBody(t *testing.T) {
	var gotPath string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig(server.URL))
	err := client.Replace(context.Background(), "doc-42", []byte(`{"students":[]}`))
	assert.NoError(t, err)
	assert.Equal(t, "/doc-42", gotPath)
	assert.JSONEq(t, `{"students":[]}`, string(gotBody))
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/doc-42":
			w.Write([]byte(`{"students":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(DefaultConfig(server.URL))

	body, err := client.Fetch(context.Background(), "doc-42")
	assert.NoError(t, err)
	assert.JSONEq(t, `{"students":[]}`, string(body))

	_, err = client.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestServerErrorsSurfaceAsRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(DefaultConfig(server.URL))

	_, err := client.Create(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, ErrRemoteFailure)

	err = client.Replace(context.Background(), "doc-42", []byte(`{}`))
	assert.ErrorIs(t, err, ErrRemoteFailure)

	_, err = client.Fetch(context.Background(), "doc-42")
	assert.ErrorIs(t, err, ErrRemoteFailure)
}

func TestBearerTokenHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(server.URL)
	cfg.APIKey = "secret-key"
	client := NewClient(cfg)

	_, err := client.Fetch(context.Background(), "doc-42")
	assert.NoError(t, err)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}
