package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
)

// Config carries per-tenant credentials for one provider back-end. Clients
// are constructed with it explicitly; there are no process-global provider
// singletons.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

func newClient(cfg Config) client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpClient,
		logger:  logger,
	}
}

// do sends one JSON request and returns status, raw request body and raw
// response body. Transport-level failures (dial, deadline) classify as
// provider unavailability.
func (c client) do(ctx context.Context, method, path string, payload any) (int, []byte, []byte, error) {
	var requestBody []byte
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, nil, err
		}
		requestBody = encoded
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, requestBody, nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return 0, requestBody, nil, domainerrors.Unavailablef("provider call failed: %v", err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, requestBody, nil, domainerrors.Unavailablef("provider response read failed: %v", err)
	}
	return response.StatusCode, requestBody, responseBody, nil
}

type apiMessage struct {
	Message string `json:"message"`
}

func errorMessage(status int, body []byte) string {
	var message apiMessage
	if err := json.Unmarshal(body, &message); err == nil && message.Message != "" {
		return message.Message
	}
	return http.StatusText(status)
}

// releaseGone recognizes the "hold already gone" answers a Release must
// tolerate: the cancel is idempotent and a second call is not an error.
func releaseGone(status int, body []byte) bool {
	if status == http.StatusNotFound || status == http.StatusGone {
		return true
	}
	message := strings.ToLower(errorMessage(status, body))
	return strings.Contains(message, "already released") ||
		strings.Contains(message, "already canceled")
}
