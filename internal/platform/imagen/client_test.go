package imagen_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/specialist-portraits/internal/config"
	"github.com/phrazzld/specialist-portraits/internal/generation"
	"github.com/phrazzld/specialist-portraits/internal/platform/imagen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// newTestLogger creates a logger for testing
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testConfig(baseURL string) config.ImagenConfig {
	return config.ImagenConfig{
		ProjectID:         "test-project",
		Location:          "us-central1",
		Model:             config.DefaultModel,
		BaseURL:           baseURL,
		SampleCount:       1,
		AspectRatio:       "1:1",
		SafetyFilterLevel: "block_some",
		PersonGeneration:  "allow_adult",
	}
}

// countingTokenSource hands out numbered tokens so tests can observe refreshes.
type countingTokenSource struct {
	calls atomic.Int32
	err   error
}

func (s *countingTokenSource) Token() (*oauth2.Token, error) {
	n := s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: "token-" + string(rune('0'+n)), TokenType: "Bearer"}, nil
}

func newClient(t *testing.T, srv *httptest.Server, tokens oauth2.TokenSource) *imagen.Client {
	t.Helper()
	c, err := imagen.NewClient(newTestLogger(), tokens, testConfig(srv.URL), imagen.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	image := []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'g'}

	var mu sync.Mutex
	var gotBody map[string]any
	var gotAuth, gotPath, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions": []map[string]string{
				{"bytesBase64Encoded": base64.StdEncoding.EncodeToString(image), "mimeType": "image/png"},
			},
		})
	}))
	defer srv.Close()

	tokens := &countingTokenSource{}
	c := newClient(t, srv, tokens)

	got, err := c.Generate(context.Background(), "a portrait")
	require.NoError(t, err)
	assert.Equal(t, image, got)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/v1/projects/test-project/locations/us-central1/publishers/google/models/imagegeneration@005:predict", gotPath)
	assert.Equal(t, "Bearer token-1", gotAuth)
	assert.Equal(t, "application/json", gotContentType)

	expected := map[string]any{
		"instances": []any{map[string]any{"prompt": "a portrait"}},
		"parameters": map[string]any{
			"sampleCount":       float64(1),
			"aspectRatio":       "1:1",
			"safetyFilterLevel": "block_some",
			"personGeneration":  "allow_adult",
		},
	}
	assert.Equal(t, expected, gotBody)
}

func TestGenerateFetchesTokenPerRequest(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var auths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auths = append(auths, r.Header.Get("Authorization"))
		mu.Unlock()
		_, _ = io.WriteString(w, `{"predictions":[{"bytesBase64Encoded":"aGk="}]}`)
	}))
	defer srv.Close()

	c := newClient(t, srv, &countingTokenSource{})
	for i := 0; i < 2; i++ {
		_, err := c.Generate(context.Background(), "p")
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Bearer token-1", "Bearer token-2"}, auths)
}

func TestGenerateFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "non-OK status", status: http.StatusForbidden, body: `{"error":{"message":"denied"}}`, wantErr: generation.ErrUnexpectedStatus},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: generation.ErrUnexpectedStatus},
		{name: "zero predictions", status: http.StatusOK, body: `{"predictions":[]}`, wantErr: generation.ErrNoPredictions},
		{name: "missing predictions", status: http.StatusOK, body: `{}`, wantErr: generation.ErrNoPredictions},
		{name: "malformed JSON", status: http.StatusOK, body: `{"predictions":`, wantErr: generation.ErrInvalidResponse},
		{name: "bad base64", status: http.StatusOK, body: `{"predictions":[{"bytesBase64Encoded":"!!!"}]}`, wantErr: generation.ErrInvalidResponse},
		{name: "empty payload", status: http.StatusOK, body: `{"predictions":[{"mimeType":"image/png"}]}`, wantErr: generation.ErrInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := newClient(t, srv, &countingTokenSource{})
			got, err := c.Generate(context.Background(), "a portrait")

			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestGenerateStatusErrorCarriesBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, "quota exceeded\n")
	}))
	defer srv.Close()

	c := newClient(t, srv, &countingTokenSource{})
	_, err := c.Generate(context.Background(), "a portrait")

	var statusErr *imagen.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Equal(t, "quota exceeded", statusErr.Body)
	assert.Contains(t, err.Error(), "429 - quota exceeded")
}

func TestGenerateTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newClient(t, srv, &countingTokenSource{})
	srv.Close()

	_, err := c.Generate(context.Background(), "a portrait")
	assert.ErrorIs(t, err, generation.ErrTransport)
}

func TestGenerateTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(srv.URL)
	cfg.RequestTimeout = 50 * time.Millisecond
	c, err := imagen.NewClient(newTestLogger(), &countingTokenSource{}, cfg, imagen.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "a portrait")
	assert.ErrorIs(t, err, generation.ErrTransport)
}

func TestGenerateCredentialError(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := newClient(t, srv, &countingTokenSource{err: errors.New("no credentials")})
	_, err := c.Generate(context.Background(), "a portrait")

	assert.ErrorIs(t, err, generation.ErrCredentials)
	assert.Zero(t, hits.Load(), "no request should be sent without a token")
}

func TestGenerateEmptyPrompt(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := newClient(t, srv, &countingTokenSource{})
	_, err := c.Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, generation.ErrEmptyPrompt)
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	tokens := imagen.StaticTokenSource("t")

	_, err := imagen.NewClient(nil, tokens, testConfig(""))
	assert.EqualError(t, err, "logger cannot be nil")

	_, err = imagen.NewClient(newTestLogger(), nil, testConfig(""))
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	for _, mutate := range []func(*config.ImagenConfig){
		func(c *config.ImagenConfig) { c.ProjectID = "" },
		func(c *config.ImagenConfig) { c.Location = "" },
		func(c *config.ImagenConfig) { c.Model = "" },
	} {
		cfg := testConfig("")
		mutate(&cfg)
		_, err := imagen.NewClient(newTestLogger(), tokens, cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	}
}

func TestPredictURLDefault(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")
	cfg.Location = "europe-west4"

	got, err := imagen.PredictURL(cfg)
	require.NoError(t, err)
	assert.Equal(t,
		"https://europe-west4-aiplatform.googleapis.com/v1/projects/test-project/locations/europe-west4/publishers/google/models/imagegeneration@005:predict",
		got)
}

func TestStaticTokenSource(t *testing.T) {
	t.Parallel()

	tok, err := imagen.StaticTokenSource("abc").Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.Type())
}
