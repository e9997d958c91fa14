package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gasgalon/orderflow/internal/model"
)

// Products fetches the catalog. kind filters by product type when non-empty;
// onlyAvailable limits the list to products with stock.
func (c *Client) Products(ctx context.Context, kind string, onlyAvailable bool) ([]model.Product, error) {
	query := url.Values{}
	if kind != "" {
		query.Set("jenis", kind)
	}
	if onlyAvailable {
		query.Set("stok_tersedia", boolQuery(true))
	}

	var products []model.Product
	if err := c.get(ctx, "/customer/produk", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateOrderRequest is the order-create payload.
type CreateOrderRequest struct {
	Items       []model.OrderItemRequest `json:"items"`
	Method      model.PaymentMethod      `json:"metode_bayar"`
	ShippingFee int64                    `json:"ongkir,omitempty"`
	ProofRef    string                   `json:"bukti_pembayaran,omitempty"`
}

// OrderReceipt is the authoritative pricing the backend returns on create.
// These values, not the client's precomputed totals, are what gets displayed.
type OrderReceipt struct {
	ID          int64 `json:"id_pesanan"`
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"ongkir"`
	Total       int64 `json:"total_harga"`
}

// CreateOrder submits a new order.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderReceipt, error) {
	var receipt OrderReceipt
	if err := c.send(ctx, http.MethodPost, "/customer/pesanan", req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ActiveOrders lists the customer's orders that are not yet terminal.
func (c *Client) ActiveOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.get(ctx, "/customer/pesanan", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// HistoryPage is the order-history response: finished orders plus aggregates.
type HistoryPage struct {
	Orders []model.Order    `json:"riwayat"`
	Stats  model.OrderStats `json:"statistik"`
}

// History lists finished orders. status filters on selesai or dibatalkan when
// non-empty; limit bounds the page size when positive.
func (c *Client) History(ctx context.Context, status model.OrderStatus, limit int) (*HistoryPage, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var page HistoryPage
	if err := c.get(ctx, "/customer/riwayat", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
