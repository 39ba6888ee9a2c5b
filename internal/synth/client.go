// Package synth talks to the speech synthesis service that turns phoneme
// strings into audio.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// API endpoints and paths.
const (
	apiSynthesizePhonemes = "/v1/synthesize/phonemes"
	apiHealth             = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
	contentTypeWAV    = "audio/wav"
)

const (
	defaultSpeed = 1.0
	maxSpeed     = 4.0
)

// Error messages.
const (
	errFmtUnexpectedContentType = "unexpected content type: expected audio/wav, got %s"
	errFmtServiceErrorWithCode  = "synthesis service error (%s): %s (code: %s)"
	errFmtServiceNonOKStatus    = "synthesis service returned non-OK status: %s, body: %s"
)

var (
	// ErrPhonemesEmpty indicates a request without phonemes.
	ErrPhonemesEmpty = errors.New("phonemes cannot be empty")
	// ErrVoiceEmpty indicates a request without a voice.
	ErrVoiceEmpty = errors.New("voice cannot be empty")
	// ErrSpeedRange indicates a speed outside (0, 4].
	ErrSpeedRange = errors.New("speed must be in (0, 4]")
	// ErrEmptyAudio indicates a successful response without audio.
	ErrEmptyAudio = errors.New("received empty audio data")
	// ErrUnexpectedContentType indicates a response that is not WAV audio.
	ErrUnexpectedContentType = errors.New("unexpected content type")
)

// HTTPClient is a client for the speech synthesis HTTP service.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// Request is the JSON payload for a synthesis call.
type Request struct {
	// Phonemes is the post-processed phoneme string for one chunk.
	Phonemes string `json:"phonemes"`

	// Voice selects the style vector on the service side.
	Voice string `json:"voice"`

	// Speed scales the speaking rate. Zero means 1.0.
	Speed float64 `json:"speed"`
}

// ErrorResponse is the structured error body returned by the service.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewHTTPClient creates a client for the service at baseURL
// (e.g. "http://localhost:8880"). timeout applies to every request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ValidateSpeed checks that speed lies in (0, 4].
func ValidateSpeed(speed float64) error {
	if speed <= 0 || speed > maxSpeed {
		return fmt.Errorf("%w: got %f", ErrSpeedRange, speed)
	}

	return nil
}

// Synthesize sends one phoneme string and returns the WAV audio.
func (c *HTTPClient) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if req.Phonemes == "" {
		return nil, ErrPhonemesEmpty
	}

	if req.Voice == "" {
		return nil, ErrVoiceEmpty
	}

	if req.Speed == 0 {
		req.Speed = defaultSpeed
	}

	speedErr := ValidateSpeed(req.Speed)
	if speedErr != nil {
		return nil, speedErr
	}

	requestBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+apiSynthesizePhonemes,
		bytes.NewReader(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeWAV)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to synthesis service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	contentType := resp.Header.Get(headerContentType)
	if contentType != contentTypeWAV {
		return nil, fmt.Errorf("%w: "+errFmtUnexpectedContentType, ErrUnexpectedContentType, contentType)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

// HealthCheck verifies that the synthesis service is up.
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiHealth, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed for service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %s", resp.Status)
	}

	return nil
}

// parseErrorResponse decodes a structured error, falling back to the raw body.
func parseErrorResponse(resp *http.Response) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf(errFmtServiceNonOKStatus, resp.Status, readErr.Error())
	}

	var errorResp ErrorResponse

	err := json.Unmarshal(body, &errorResp)
	if err == nil && errorResp.Detail != "" {
		return fmt.Errorf(errFmtServiceErrorWithCode, resp.Status, errorResp.Detail, errorResp.ErrorCode)
	}

	return fmt.Errorf(errFmtServiceNonOKStatus, resp.Status, string(body))
}
