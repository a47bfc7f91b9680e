package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// doRequest posts body to OpenRouter. Retryable answers are attempted again
// up to maxRetries times; it returns the number of attempts made.
func (c *OpenRouterClient) doRequest(ctx context.Context, path string, body *openRouterRequest) (*openRouterResponse, int, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	var (
		orResp   *openRouterResponse
		attempts int
	)
	err = retry.Do(
		func() error {
			attempts++
			resp, err := c.post(ctx, path, bodyBytes)
			if err != nil {
				return err
			}
			orResp = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)+1),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(c.retryDelay/2),
		retry.RetryIf(shouldRetry),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, attempts, err
	}
	return orResp, attempts, nil
}

func (c *OpenRouterClient) post(ctx context.Context, path string, body []byte) (*openRouterResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", "https://github.com/navigationiq/navigator")
	req.Header.Set("X-Title", "Navigator")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: OpenRouterName, StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var orResp openRouterResponse
	if err := json.Unmarshal(respBody, &orResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if orResp.Error != nil {
		return nil, responseError(orResp.Error)
	}
	return &orResp, nil
}

// responseError maps an error carried in a 200 body onto a StatusError when
// the code is numeric, so overloaded models still read as unavailable.
func responseError(e *openRouterError) error {
	code := fmt.Sprintf("%v", e.Code)
	switch code {
	case "503", "overloaded":
		return &StatusError{Provider: OpenRouterName, StatusCode: http.StatusServiceUnavailable, Message: e.Message}
	case "502", "500":
		return &StatusError{Provider: OpenRouterName, StatusCode: http.StatusBadGateway, Message: e.Message}
	case "429", "rate_limit_exceeded":
		return &StatusError{Provider: OpenRouterName, StatusCode: http.StatusTooManyRequests, Message: e.Message}
	}
	return fmt.Errorf("OpenRouter API error: %s", e.Message)
}

// shouldRetry reports whether err is a transient failure.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return false
}
