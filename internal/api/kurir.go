package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gasgalon/orderflow/internal/model"
)

// CourierPage is the courier order-list response.
type CourierPage struct {
	Orders []model.Order    `json:"pesanan"`
	Stats  model.OrderStats `json:"statistik"`
}

// CourierOrders lists orders visible to the courier. status filters when
// non-empty; id narrows to a single order when positive.
func (c *Client) CourierOrders(ctx context.Context, status model.OrderStatus, id int64) (*CourierPage, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	if id > 0 {
		query.Set("id", strconv.FormatInt(id, 10))
	}

	var page CourierPage
	if err := c.get(ctx, "/kurir/pesanan", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type updateStatusRequest struct {
	OrderID int64             `json:"id_pesanan"`
	Status  model.OrderStatus `json:"status"`
}

// UpdateOrderStatus moves an assigned order forward. The backend validates
// the transition too; callers check status.CanTransition first to avoid a
// round trip that is certain to fail.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, st model.OrderStatus) error {
	return c.send(ctx, http.MethodPut, "/kurir/update_status", updateStatusRequest{OrderID: orderID, Status: st}, nil)
}
