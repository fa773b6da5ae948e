package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultCompleteTimeout = 60 * time.Second

// Client — клиент текстового советника поверх Ollama chat API.
//
// Конфигурация через окружение:
//   - OLLAMA_URL   — базовый URL (default: http://localhost:11434)
//   - OLLAMA_MODEL — имя модели (default: deepseek-r1:8b)
type Client struct {
	baseURL string
	model   string
	httpc   *http.Client
}

// NewClient создаёт клиента из переменных окружения.
func NewClient() *Client {
	baseURL := os.Getenv("OLLAMA_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "deepseek-r1:8b"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpc:   &http.Client{Timeout: defaultCompleteTimeout},
	}
}

// NewClientWith создаёт клиента с явными параметрами. Используется в тестах.
func NewClientWith(baseURL, model string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultCompleteTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), model: model, httpc: httpc}
}

// chatRequest — тело запроса /api/chat.
type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse — тело ответа /api/chat (без stream).
type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Complete отправляет prompt советнику и возвращает текст ответа,
// обрезанный по краям. Вызывающий обязан переживать любой текст,
// включая значения вне ожидаемого словаря.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Stream:  false,
		Options: map[string]any{"temperature": temperature},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrOracleUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrOracleUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrOracleUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrOracleUnavailable, resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrOracleUnavailable, err)
	}

	return strings.TrimSpace(parsed.Message.Content), nil
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
