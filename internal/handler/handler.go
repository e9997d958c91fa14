// Package handler contains the HTTP handlers of the local gateway: the
// surface the ordering screens talk to. Responses use the same
// success/message envelope as the remote backend so the two are
// shape-compatible for the UI.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/gasgalon/orderflow/internal/api"
	"github.com/gasgalon/orderflow/internal/cart"
	"github.com/gasgalon/orderflow/internal/checkout"
	"github.com/gasgalon/orderflow/internal/courier"
	"github.com/gasgalon/orderflow/internal/middleware"
	"github.com/gasgalon/orderflow/internal/model"
	"github.com/gasgalon/orderflow/internal/poller"
	"github.com/gasgalon/orderflow/internal/session"
)

// Backend is the slice of the remote API the handlers proxy directly.
type Backend interface {
	Products(ctx context.Context, kind string, onlyAvailable bool) ([]model.Product, error)
	History(ctx context.Context, status model.OrderStatus, limit int) (*api.HistoryPage, error)
}

// Submitter runs the order submission flow.
type Submitter interface {
	Submit(ctx context.Context, req checkout.Request) (*api.OrderReceipt, error)
}

// CourierService is the courier-side order surface.
type CourierService interface {
	Orders(ctx context.Context, st model.OrderStatus) (*api.CourierPage, error)
	Order(ctx context.Context, id int64) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, target model.OrderStatus) error
	UploadDeliveryProof(ctx context.Context, orderID int64, filename string, image io.Reader, note string) error
}

// Handler implements the gateway endpoints.
type Handler struct {
	cart     *cart.Cart
	sessions *session.Manager
	flow     Submitter
	courier  CourierService
	poller   *poller.Poller
	backend  Backend
	ongkir   int64
	logger   *zap.Logger
	gate     *middleware.Gate
}

// NewHandler wires the gateway handlers.
func NewHandler(c *cart.Cart, s *session.Manager, flow Submitter, cs CourierService, p *poller.Poller, backend Backend, ongkir int64, logger *zap.Logger) *Handler {
	return &Handler{
		cart:     c,
		sessions: s,
		flow:     flow,
		courier:  cs,
		poller:   p,
		backend:  backend,
		ongkir:   ongkir,
		logger:   logger,
		gate:     middleware.NewGate(s),
	}
}

type envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	NeedsLogin bool   `json:"needsLogin,omitempty"`
	Data       any    `json:"data,omitempty"`
}

func (h *Handler) respond(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) respondMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: message})
}

// respondError maps the error taxonomy onto gateway status codes. Validation
// failures are 400s, the in-flight guard and transition checks are conflicts,
// backend failures keep the backend's class, and anything without a response
// from the backend is a bad gateway.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	env := envelope{Message: "Terjadi kesalahan. Silakan coba lagi."}

	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		env.Message = err.Error()
		env.NeedsLogin = apiErr.NeedsLogin
		code = apiErr.StatusCode
		if code == 0 {
			code = http.StatusBadGateway
		}
		// A success:false payload on an HTTP 200 is a business rejection.
		if code < http.StatusBadRequest {
			code = http.StatusBadRequest
		}
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		code, env.Message = http.StatusConflict, err.Error()
	case errors.Is(err, checkout.ErrNotAuthenticated):
		code, env.Message, env.NeedsLogin = http.StatusUnauthorized, err.Error(), true
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNoPaymentMethod),
		errors.Is(err, checkout.ErrIncompleteProfile),
		errors.Is(err, checkout.ErrMissingProof):
		code, env.Message = http.StatusBadRequest, err.Error()
	case errors.Is(err, courier.ErrInvalidTransition):
		code, env.Message = http.StatusConflict, err.Error()
	case errors.Is(err, courier.ErrOrderNotFound):
		code, env.Message = http.StatusNotFound, err.Error()
	default:
		h.logger.Error("gateway error", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
