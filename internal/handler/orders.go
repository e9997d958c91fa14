package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gasgalon/orderflow/internal/courier"
	"github.com/gasgalon/orderflow/internal/model"
	"github.com/gasgalon/orderflow/internal/status"
)

type activeOrdersResponse struct {
	Orders    []model.Order `json:"pesanan"`
	FetchedAt string        `json:"fetched_at,omitempty"`
}

// ActiveOrders serves the poller's snapshot. ?refresh=true forces an
// immediate re-fetch first (the pull-to-refresh path).
func (h *Handler) ActiveOrders(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		if err := h.poller.Refresh(r.Context()); err != nil {
			h.respondError(w, err)
			return
		}
	}

	orders, fetchedAt := h.poller.Snapshot()
	resp := activeOrdersResponse{Orders: orders}
	if !fetchedAt.IsZero() {
		resp.FetchedAt = fetchedAt.Format(time.RFC3339)
	}
	h.respond(w, http.StatusOK, resp)
}

// History proxies the finished-orders page with its aggregates.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	st := model.OrderStatus(r.URL.Query().Get("status"))
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.respondError(w, errBadRequest("Limit tidak valid."))
			return
		}
		limit = n
	}

	page, err := h.backend.History(r.Context(), st, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, page)
}

type timelineResponse struct {
	Order    model.Order   `json:"order"`
	Timeline []status.Step `json:"timeline"`
}

// OrderTimeline renders the lifecycle timeline for one active order. The
// order is looked up in the snapshot; one refresh is attempted before giving
// up, so a just-created order resolves without waiting for the next tick.
func (h *Handler) OrderTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, errBadRequest("ID pesanan tidak valid."))
		return
	}

	order, ok := h.findActiveOrder(id)
	if !ok {
		if err := h.poller.Refresh(r.Context()); err != nil {
			h.respondError(w, err)
			return
		}
		if order, ok = h.findActiveOrder(id); !ok {
			h.respondError(w, courier.ErrOrderNotFound)
			return
		}
	}

	h.respond(w, http.StatusOK, timelineResponse{
		Order:    order,
		Timeline: status.Timeline(order.Status),
	})
}

func (h *Handler) findActiveOrder(id int64) (model.Order, bool) {
	orders, _ := h.poller.Snapshot()
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}
