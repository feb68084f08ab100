// Package wildberries implementa el adaptador del marketplace Wildberries.
// API: https://openapi.wildberries.ru/ (token en header Authorization).
package wildberries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizio/bizio-api/internal/application/ports"
)

var _ ports.MarketplaceAdapter = (*Client)(nil)

// Client cliente HTTP del API de pedidos de Wildberries.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient construye el adaptador.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://suppliers-api.wildberries.ru"
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identificador estable del marketplace.
func (c *Client) Name() string { return "wildberries" }

type wbOrder struct {
	OrderID     int64           `json:"orderId"`
	DateCreated time.Time       `json:"dateCreated"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	UserInfo    struct {
		UserID int64  `json:"userId"`
		Name   string `json:"fio"`
		Phone  string `json:"phone"`
	} `json:"userInfo"`
	Items []struct {
		Article  string          `json:"article"` // SKU del vendedor
		Subject  string          `json:"subject"`
		Quantity decimal.Decimal `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
	} `json:"items"`
}

type wbOrdersResponse struct {
	Orders []wbOrder `json:"orders"`
}

// FetchOrders trae los pedidos creados desde `since` (GET /api/v3/orders).
func (c *Client) FetchOrders(ctx context.Context, since time.Time) ([]ports.MarketplaceOrder, error) {
	params := url.Values{}
	params.Set("dateFrom", fmt.Sprintf("%d", since.Unix()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v3/orders?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("wildberries: crear request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wildberries: fetch orders: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wildberries: fetch orders: status %d", resp.StatusCode)
	}

	var body wbOrdersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("wildberries: decodificar respuesta: %w", err)
	}

	out := make([]ports.MarketplaceOrder, 0, len(body.Orders))
	for _, o := range body.Orders {
		order := ports.MarketplaceOrder{
			ExternalID:    fmt.Sprintf("%d", o.OrderID),
			CustomerID:    fmt.Sprintf("%d", o.UserInfo.UserID),
			CustomerName:  o.UserInfo.Name,
			CustomerPhone: o.UserInfo.Phone,
			Total:         o.TotalPrice,
			Currency:      "RUB",
			CreatedAt:     o.DateCreated,
		}
		for _, it := range o.Items {
			order.Items = append(order.Items, ports.MarketplaceOrderItem{
				SKU:       it.Article,
				Title:     it.Subject,
				Quantity:  it.Quantity,
				UnitPrice: it.Price,
			})
		}
		out = append(out, order)
	}
	return out, nil
}
