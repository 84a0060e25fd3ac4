package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newImageClient(url string) *ImageClient {
	return &ImageClient{
		APIURL: url,
		APIKey: "test-key",
		HTTP:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestImageClientGenerate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "test-key", r.Header.Get("Api-Key"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "A cat", r.PostFormValue("text"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output_url": "https://example.com/image.jpg"}`))
	}))
	defer srv.Close()

	url, err := newImageClient(srv.URL).Generate(context.Background(), "A cat")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/image.jpg", url)
}

func TestImageClientHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newImageClient(srv.URL).Generate(context.Background(), "A cat")
	require.ErrorIs(t, err, ErrAPIResponse)
}

func TestImageClientDecodeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Not JSON"))
	}))
	defer srv.Close()

	_, err := newImageClient(srv.URL).Generate(context.Background(), "A cat")
	require.ErrorIs(t, err, ErrResponseDecode)
}

func TestImageClientMissingOutputURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something_else": true}`))
	}))
	defer srv.Close()

	_, err := newImageClient(srv.URL).Generate(context.Background(), "A cat")
	require.ErrorIs(t, err, ErrResponseDecode)
}

func TestImageClientUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newImageClient(srv.URL).Generate(context.Background(), "A cat")
	require.ErrorIs(t, err, ErrAPIResponse)
}
