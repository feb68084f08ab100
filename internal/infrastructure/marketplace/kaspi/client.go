// Package kaspi implementa el adaptador del marketplace Kaspi.kz.
// API: https://kaspi.kz/merchantcabinet/api/ (token en header X-Auth-Token).
package kaspi

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

// Client cliente HTTP del API de pedidos de Kaspi.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient construye el adaptador.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://kaspi.kz/shop/api"
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identificador estable del marketplace.
func (c *Client) Name() string { return "kaspi" }

// Formato del API de Kaspi: pedidos con líneas embebidas (entries).
type kaspiOrder struct {
	Code         string          `json:"code"`
	CreationDate int64           `json:"creationDate"` // epoch millis
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	Customer     struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CellPhone string `json:"cellPhone"`
	} `json:"customer"`
	Entries []struct {
		SKU       string          `json:"sku"`
		Name      string          `json:"name"`
		Quantity  decimal.Decimal `json:"quantity"`
		BasePrice decimal.Decimal `json:"basePrice"`
	} `json:"entries"`
}

type kaspiOrdersResponse struct {
	Data []kaspiOrder `json:"data"`
}

// FetchOrders trae los pedidos creados desde `since` (GET /v1/orders).
func (c *Client) FetchOrders(ctx context.Context, since time.Time) ([]ports.MarketplaceOrder, error) {
	params := url.Values{}
	params.Set("createdDateFrom", fmt.Sprintf("%d", since.UnixMilli()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/orders?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("kaspi: crear request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kaspi: fetch orders: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kaspi: fetch orders: status %d", resp.StatusCode)
	}

	var body kaspiOrdersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("kaspi: decodificar respuesta: %w", err)
	}

	out := make([]ports.MarketplaceOrder, 0, len(body.Data))
	for _, o := range body.Data {
		order := ports.MarketplaceOrder{
			ExternalID:    o.Code,
			CustomerID:    o.Customer.ID,
			CustomerName:  o.Customer.Name,
			CustomerPhone: o.Customer.CellPhone,
			Total:         o.TotalPrice,
			Currency:      "KZT",
			CreatedAt:     time.UnixMilli(o.CreationDate),
		}
		for _, e := range o.Entries {
			order.Items = append(order.Items, ports.MarketplaceOrderItem{
				SKU:       e.SKU,
				Title:     e.Name,
				Quantity:  e.Quantity,
				UnitPrice: e.BasePrice,
			})
		}
		out = append(out, order)
	}
	return out, nil
}
