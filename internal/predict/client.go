// Package predict is a thin client for the external free-text expense
// prediction API. The client does no parsing or inference itself; it sends
// the text, normalizes the response shape, and converts ordinary
// transport/API failures into a typed failure result so callers branch on
// Success instead of catching errors. Programming errors (bad request
// construction, undecodable payloads) still propagate as Go errors.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	predictPath    = "/predict"
	defaultTimeout = 15 * time.Second
)

type (
	// Result is the structured guess extracted from one text. Absent
	// fields are null, mirroring the API's wire shape. Confidence 0 is
	// the sentinel for "parsing failed, show an empty form".
	Result struct {
		Amount      *string `json:"amount"`
		Date        *string `json:"date"`
		Entity      *string `json:"entity"`
		Category    string  `json:"category"`
		Confidence  float64 `json:"confidence"`
		Description string  `json:"description"`
	}

	// Response is the envelope for a single-text prediction.
	Response struct {
		Success bool   `json:"success"`
		Data    Result `json:"data"`
		Error   string `json:"error,omitempty"`
	}

	// BatchResponse is the envelope for a multi-text prediction.
	BatchResponse struct {
		Success bool     `json:"success"`
		Data    []Result `json:"data"`
		Error   string   `json:"error,omitempty"`
	}
)

// Client talks to the prediction API. It holds a single in-flight slot:
// issuing a new call cancels the one still pending, so two overlapping
// requests can never race to overwrite the displayed guess.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu       sync.Mutex
	inflight context.CancelFunc
	calls    uint64
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Predict sends one free-form text. Network and API failures come back as
// a failure Response whose Data placeholder echoes the input, never as a
// Go error.
func (c *Client) Predict(ctx context.Context, text string) (Response, error) {
	body, err := c.post(ctx, map[string]string{"text": text})
	if err != nil {
		return fallbackResponse(text, err), nil
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return Response{}, fmt.Errorf("decode prediction response: %w", err)
	}
	if !resp.Success {
		return fallbackResponse(text, fmt.Errorf("prediction API: %s", apiError(resp.Error))), nil
	}

	resp.Data = normalize(resp.Data, text)
	return resp, nil
}

// PredictBatch sends several texts in one request. The failure placeholder
// mirrors the input shape: an empty sequence instead of a single result.
func (c *Client) PredictBatch(ctx context.Context, texts []string) (BatchResponse, error) {
	body, err := c.post(ctx, map[string][]string{"texts": texts})
	if err != nil {
		return BatchResponse{Success: false, Data: []Result{}, Error: err.Error()}, nil
	}

	var resp BatchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return BatchResponse{}, fmt.Errorf("decode prediction response: %w", err)
	}
	if !resp.Success {
		return BatchResponse{
			Success: false,
			Data:    []Result{},
			Error:   apiError(resp.Error),
		}, nil
	}

	for i, text := range texts {
		if i < len(resp.Data) {
			resp.Data[i] = normalize(resp.Data[i], text)
		}
	}
	return resp, nil
}

// post issues the request inside the client's single in-flight slot and
// returns the response body. Transport failures and non-2xx statuses are
// reported as errors for the callers above to fold into failure results.
func (c *Client) post(ctx context.Context, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode prediction request: %w", err)
	}

	ctx, cancel, call := c.claimSlot(ctx)
	defer c.releaseSlot(cancel, call)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+predictPath, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read prediction response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error string `json:"error"`
		}
		if jerr := json.Unmarshal(body, &envelope); jerr == nil && envelope.Error != "" {
			return nil, fmt.Errorf("prediction API (status %d): %s", resp.StatusCode, envelope.Error)
		}
		return nil, fmt.Errorf("prediction API: unexpected status %d", resp.StatusCode)
	}

	return body, nil
}

// claimSlot cancels whatever request is still pending and installs this
// one as the single in-flight call.
func (c *Client) claimSlot(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.inflight != nil {
		c.inflight()
	}
	c.inflight = cancel
	c.calls++
	call := c.calls
	c.mu.Unlock()
	return ctx, cancel, call
}

func (c *Client) releaseSlot(cancel context.CancelFunc, call uint64) {
	c.mu.Lock()
	// Only clear the slot if it is still ours; a newer call may have
	// replaced it already.
	if c.calls == call {
		c.inflight = nil
	}
	c.mu.Unlock()
	cancel()
}

// normalize fills the defaults the caller-facing contract promises: a
// best-guess category of "Other" when the API had none, and a description
// that echoes the input when no entity text came back.
func normalize(r Result, text string) Result {
	if r.Category == "" {
		r.Category = "Other"
	}
	if r.Description == "" {
		r.Description = text
	}
	return r
}

func fallbackResponse(text string, err error) Response {
	return Response{
		Success: false,
		Data: Result{
			Amount:      nil,
			Date:        nil,
			Entity:      nil,
			Category:    "Unknown",
			Confidence:  0,
			Description: text,
		},
		Error: err.Error(),
	}
}

func apiError(msg string) string {
	if msg == "" {
		return "request failed"
	}
	return msg
}
