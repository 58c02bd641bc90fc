package imagen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/specialist-portraits/internal/config"
	"github.com/phrazzld/specialist-portraits/internal/generation"
	"golang.org/x/oauth2"
)

// Response size limits. Error bodies are only kept for logging.
const (
	maxResponseBytes  = 64 << 20
	maxErrorBodyBytes = 64 << 10
)

// Client implements generation.ImageGenerator against the Vertex AI Imagen
// :predict endpoint.
type Client struct {
	// logger is used for structured logging
	logger *slog.Logger

	// tokens supplies the bearer credential for every request
	tokens oauth2.TokenSource

	// httpClient performs the requests
	httpClient *http.Client

	// endpoint is the fully qualified predict URL
	endpoint string

	// params are sent unchanged with every prompt
	params Parameters

	// timeout bounds a single request; zero means no per-request bound
	timeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new Client with the provided dependencies.
//
// Parameters:
//   - logger: A structured logger for operation logging
//   - tokens: Source of bearer tokens, refreshed by the source as needed
//   - cfg: Imagen configuration containing project, region, model and parameters
//
// Returns:
//   - A properly initialized Client or an error wrapping generation.ErrInvalidConfig
func NewClient(logger *slog.Logger, tokens oauth2.TokenSource, cfg config.ImagenConfig, opts ...Option) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if tokens == nil {
		return nil, fmt.Errorf("%w: token source cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("%w: project ID cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Location == "" {
		return nil, fmt.Errorf("%w: location cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model cannot be empty", generation.ErrInvalidConfig)
	}

	endpoint, err := PredictURL(cfg)
	if err != nil {
		return nil, err
	}

	sampleCount := cfg.SampleCount
	if sampleCount < 1 {
		sampleCount = 1
	}

	c := &Client{
		logger:     logger.With("component", "imagen_client", "model", cfg.Model),
		tokens:     tokens,
		httpClient: http.DefaultClient,
		endpoint:   endpoint,
		params: Parameters{
			SampleCount:       sampleCount,
			AspectRatio:       orDefault(cfg.AspectRatio, "1:1"),
			SafetyFilterLevel: orDefault(cfg.SafetyFilterLevel, "block_some"),
			PersonGeneration:  orDefault(cfg.PersonGeneration, "allow_adult"),
		},
		timeout: cfg.RequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// PredictURL returns the versioned predict endpoint for cfg.
func PredictURL(cfg config.ImagenConfig) (string, error) {
	base := cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s-aiplatform.googleapis.com", cfg.Location)
	}
	if _, err := url.Parse(base); err != nil {
		return "", fmt.Errorf("%w: invalid base URL %q: %v", generation.ErrInvalidConfig, base, err)
	}

	return fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		strings.TrimRight(base, "/"),
		url.PathEscape(cfg.ProjectID),
		url.PathEscape(cfg.Location),
		cfg.Model,
	), nil
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate sends prompt to the service and returns the decoded bytes of the
// first prediction.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, generation.ErrEmptyPrompt
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(predictRequest{
		Instances:  []instance{{Prompt: prompt}},
		Parameters: c.params,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", generation.ErrGenerationFailed, err)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrCredentials, err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", generation.ErrCredentials)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", generation.ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)

	c.logger.DebugContext(ctx, "Calling image service",
		"prompt_length", len(prompt),
		"sample_count", c.params.SampleCount)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(errBody))}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", generation.ErrTransport, err)
	}

	var parsed predictResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	if len(parsed.Predictions) == 0 {
		return nil, generation.ErrNoPredictions
	}

	encoded := parsed.Predictions[0].BytesBase64Encoded
	if encoded == "" {
		return nil, fmt.Errorf("%w: prediction has no image data", generation.ErrInvalidResponse)
	}
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image data: %v", generation.ErrInvalidResponse, err)
	}

	c.logger.InfoContext(ctx, "Image service call successful",
		"image_bytes", len(image),
		"predictions", len(parsed.Predictions),
		"duration_ms", time.Since(start).Milliseconds())

	return image, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
