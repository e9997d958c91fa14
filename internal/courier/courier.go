// Package courier implements the courier-side order operations: assigned
// order listing, forward status updates, and delivery-proof upload.
package courier

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/gasgalon/orderflow/internal/api"
	"github.com/gasgalon/orderflow/internal/model"
	"github.com/gasgalon/orderflow/internal/status"
)

var (
	// ErrInvalidTransition is returned before any network call when the
	// requested status change is not a legal forward step.
	ErrInvalidTransition = errors.New("perubahan status tidak diizinkan")
	// ErrOrderNotFound is returned when the order is not in the courier's list.
	ErrOrderNotFound = errors.New("pesanan tidak ditemukan")
)

// Service wraps the courier endpoints with transition validation.
type Service struct {
	client *api.Client
	logger *zap.Logger
}

// NewService creates the courier service.
func NewService(client *api.Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Orders lists the courier's orders, optionally filtered by status.
func (s *Service) Orders(ctx context.Context, st model.OrderStatus) (*api.CourierPage, error) {
	return s.client.CourierOrders(ctx, st, 0)
}

// Order fetches a single order from the courier's list.
func (s *Service) Order(ctx context.Context, id int64) (*model.Order, error) {
	page, err := s.client.CourierOrders(ctx, "", id)
	if err != nil {
		return nil, err
	}
	if len(page.Orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return &page.Orders[0], nil
}

// UpdateStatus moves an order to the target status. The current status is
// re-fetched and the transition checked locally before the round trip; the
// backend validates again and stays authoritative.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, target model.OrderStatus) error {
	order, err := s.Order(ctx, orderID)
	if err != nil {
		return err
	}

	if !status.CanTransition(order.Status, target) {
		return ErrInvalidTransition
	}

	if err := s.client.UpdateOrderStatus(ctx, orderID, target); err != nil {
		return err
	}

	s.logger.Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(target)))
	return nil
}

// UploadDeliveryProof sends the hand-off photo for an order.
func (s *Service) UploadDeliveryProof(ctx context.Context, orderID int64, filename string, image io.Reader, note string) error {
	return s.client.UploadDeliveryProof(ctx, filename, image, orderID, note)
}
