package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultLookupTimeout = 10 * time.Second

// PriceClient — клиент сервиса цен конкурентов.
//
// Сервис отвечает JSON-объектом {"price": 42.5} на
// GET <base>/price?product=<identifier>. Отсутствие цены — не ошибка:
// Lookup возвращает (nil, nil), и правило конкурентной цены не срабатывает.
//
// Конфигурация через окружение: COMPETITOR_PRICE_URL (пусто — советник
// выключен, Lookup всегда возвращает nil).
type PriceClient struct {
	baseURL string
	httpc   *http.Client
}

// NewPriceClient создаёт клиента из переменных окружения.
func NewPriceClient() *PriceClient {
	return &PriceClient{
		baseURL: strings.TrimRight(os.Getenv("COMPETITOR_PRICE_URL"), "/"),
		httpc:   &http.Client{Timeout: defaultLookupTimeout},
	}
}

// NewPriceClientWith создаёт клиента с явными параметрами. Для тестов.
func NewPriceClientWith(baseURL string, httpc *http.Client) *PriceClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultLookupTimeout}
	}
	return &PriceClient{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

// priceResponse — тело ответа сервиса цен.
type priceResponse struct {
	Price *float64 `json:"price"`
}

// Lookup возвращает цену конкурента для идентификатора товара.
// Nil без ошибки — цена не найдена либо советник не сконфигурирован.
func (c *PriceClient) Lookup(ctx context.Context, identifier string) (*float64, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	reqURL := c.baseURL + "/price?product=" + url.QueryEscape(identifier)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrOracleUnavailable, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrOracleUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrOracleUnavailable, err)
	}

	var parsed priceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", ErrOracleUnavailable, err)
	}

	if parsed.Price != nil && *parsed.Price <= 0 {
		return nil, nil
	}
	return parsed.Price, nil
}
