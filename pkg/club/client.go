package club

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

const refreshPath = "/auth/refresh"

// APIError — ошибка API, собранная из конверта {success, message, errors}.
type APIError struct {
	Status  int      // HTTP-статус ответа
	Message string   // Сообщение сервера
	Errors  []string // Детали ошибок по полям, если есть
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// IsUnauthorized сообщает, является ли ошибка ответом 401.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// envelope — конверт всех ответов сервера.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// Client — HTTP-клиент API клуба. Все запросы идут с cookie (пара
// токенов живёт в HttpOnly cookie), ответы разворачиваются из конверта.
//
// На первый 401 любого запроса, кроме самого запроса обновления,
// выполняется ровно одна попытка обновить пару токенов и ровно один
// повтор исходного запроса. Повторный 401 или неуспешное обновление
// ведут к централизованному сбросу сессии: подсказка профиля
// стирается и вызывается обработчик истечения сессии. Других политик
// повторов нет.
type Client struct {
	baseURL string
	http    *http.Client
	hints   HintStore
	log     *slog.Logger

	mu               sync.Mutex
	onSessionExpired func()
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет HTTP-транспорт. Переданному клиенту
// выставляется cookie jar, если его нет.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHintStore задает хранилище подсказки профиля.
func WithHintStore(hints HintStore) Option {
	return func(c *Client) { c.hints = hints }
}

// WithLogger задает логгер клиента.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient создает клиента API. baseURL указывает на корень API,
// например https://club369.example/api/v1.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	const op = "club.NewClient"

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hints:   NewMemoryHintStore(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// SetSessionExpiredHook задает обработчик истечения сессии.
// Его вызывает только каскад обновления токенов.
func (c *Client) SetSessionExpiredHook(hook func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSessionExpired = hook
}

// Hints возвращает хранилище подсказки профиля.
func (c *Client) Hints() HintStore {
	return c.hints
}

// do выполняет один логический запрос: при первом 401 пробует
// обновить токены и повторяет запрос ровно один раз.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	err := c.send(ctx, method, path, body, out)
	apiErr, ok := asAPIError(err)
	if !ok || !apiErr.IsUnauthorized() || path == refreshPath {
		return err
	}

	// Одна попытка обновления на логический запрос.
	if refreshErr := c.send(ctx, http.MethodPost, refreshPath, nil, nil); refreshErr != nil {
		c.log.Debug("token refresh failed", slog.Any("err", refreshErr))
		c.sessionExpired()
		return err
	}

	replayErr := c.send(ctx, method, path, body, out)
	if replayApiErr, ok := asAPIError(replayErr); ok && replayApiErr.IsUnauthorized() {
		// Второй 401 после обновления — сессия мертва, больше не повторяем.
		c.sessionExpired()
	}
	return replayErr
}

// send выполняет один HTTP-запрос и разворачивает конверт.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	const op = "club.Client.send"

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return &APIError{Status: resp.StatusCode, Message: "unexpected server response"}
		}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Errors:  env.Errors,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// sessionExpired — централизованный путь истечения сессии: подсказка
// профиля стирается, затем вызывается обработчик.
func (c *Client) sessionExpired() {
	if err := c.hints.Clear(); err != nil {
		c.log.Warn("failed to clear profile hint", slog.Any("err", err))
	}
	c.mu.Lock()
	hook := c.onSessionExpired
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func asAPIError(err error) (*APIError, bool) {
	if err == nil {
		return nil, false
	}
	apiErr, ok := err.(*APIError)
	return apiErr, ok
}
