package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader заголовок для ключа идемпотентности резерва
const IdempotencyKeyHeader = "Idempotency-Key"

// Client реализует доступ к удаленному REST API RifaApp.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     domain.TokenSource
	logger     *zap.Logger
}

// NewClient создает новый Client. tokens может быть nil для анонимного доступа.
func NewClient(baseURL string, timeout time.Duration, tokens domain.TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		logger: logger,
	}
}

// Ping проверяет доступность API
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/raffles", nil)
	if err != nil {
		return fmt.Errorf("api client: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api client: failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("api client: unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// do выполняет запрос к API: добавляет bearer токен, нормализует ошибки
// и декодирует успешный ответ в out (если out != nil)
func (c *Client) do(ctx context.Context, method, path string, body, out any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api client: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api client: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.logger.Warn("failed to read session token", zap.Error(err))
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error(), cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.handleErrorResponse(ctx, method, path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api client: failed to decode response from %s %s: %w", method, path, err)
	}

	return nil
}

// handleErrorResponse применяет политику 401/403 и извлекает сообщение об ошибке
func (c *Client) handleErrorResponse(ctx context.Context, method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    extractMessage(raw),
	}
	if apiErr.Message == "" {
		apiErr.Message = DefaultErrorMessage
	}

	// 401: токен больше не действителен, сбрасываем сессию
	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
		if err := c.tokens.ClearToken(ctx); err != nil {
			c.logger.Error("failed to clear session token", zap.Error(err))
		}
	}

	c.logger.Debug("api request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message),
	)

	return apiErr
}

// extractMessage достает message (строка или массив строк), затем error
func extractMessage(raw []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if len(body.Message) > 0 {
		var single string
		if err := json.Unmarshal(body.Message, &single); err == nil && single != "" {
			return single
		}
		var list []string
		if err := json.Unmarshal(body.Message, &list); err == nil && len(list) > 0 {
			return strings.Join(list, ", ")
		}
	}

	return body.Error
}
