package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

// ---------------------------------------------------------------------------
// Member directory adapter – resolves member identities against the
// platform's identity service
// ---------------------------------------------------------------------------

// MemberDirectoryConfig holds configuration for the directory adapter.
type MemberDirectoryConfig struct {
	// BaseURL is the base URL of the identity service.
	BaseURL string
	// TimeoutSeconds is the HTTP client timeout.
	TimeoutSeconds int
	// MaxRetries is the maximum number of retry attempts on transient failures.
	MaxRetries int
	// RetryBackoffMs is the base backoff duration in milliseconds between retries.
	RetryBackoffMs int
}

// DefaultMemberDirectoryConfig returns sensible defaults for development.
func DefaultMemberDirectoryConfig() MemberDirectoryConfig {
	return MemberDirectoryConfig{
		BaseURL:        "http://localhost:8081",
		TimeoutSeconds: 5,
		MaxRetries:     3,
		RetryBackoffMs: 200,
	}
}

// MemberDirectoryAdapter implements port.MemberDirectory against the
// identity service's REST API. With a nil http.Client it falls back to
// accepting every non-empty member id, which keeps local development and
// tests independent of the identity service.
type MemberDirectoryAdapter struct {
	config MemberDirectoryConfig
	client *http.Client
}

// NewMemberDirectoryAdapter creates a new adapter. Pass a nil client to use
// the development fallback.
func NewMemberDirectoryAdapter(config MemberDirectoryConfig, client *http.Client) *MemberDirectoryAdapter {
	return &MemberDirectoryAdapter{
		config: config,
		client: client,
	}
}

// Exists reports whether the member id is registered with the platform.
func (a *MemberDirectoryAdapter) Exists(ctx context.Context, memberID string) (bool, error) {
	if memberID == "" {
		return false, fmt.Errorf("member ID is required")
	}

	if a.client == nil {
		return true, nil
	}

	return a.lookupWithRetry(ctx, memberID)
}

// lookupWithRetry calls the identity service with exponential backoff.
func (a *MemberDirectoryAdapter) lookupWithRetry(ctx context.Context, memberID string) (bool, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(a.config.RetryBackoffMs) * time.Millisecond * (1 << uint(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(backoff) / 2))
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		exists, err := a.lookup(ctx, memberID)
		if err == nil {
			return exists, nil
		}
		lastErr = err
	}

	return false, fmt.Errorf("exhausted %d retries: %w", a.config.MaxRetries, lastErr)
}

func (a *MemberDirectoryAdapter) lookup(ctx context.Context, memberID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s", a.config.BaseURL, url.PathEscape(memberID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("call identity service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return false, fmt.Errorf("decode identity response: %w", err)
		}
		return body.ID != "", nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}
}
