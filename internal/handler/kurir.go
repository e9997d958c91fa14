package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gasgalon/orderflow/internal/middleware"
	"github.com/gasgalon/orderflow/internal/model"
	"github.com/gasgalon/orderflow/internal/status"
)

func orderIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// CourierOrders lists the courier's orders, optionally filtered by status.
func (h *Handler) CourierOrders(w http.ResponseWriter, r *http.Request) {
	st := model.OrderStatus(r.URL.Query().Get("status"))

	page, err := h.courier.Orders(r.Context(), st)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, page)
}

// CourierOrderDetail returns one order with its rendered timeline.
func (h *Handler) CourierOrderDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	if !ok {
		h.respondError(w, errBadRequest("ID pesanan tidak valid."))
		return
	}

	order, err := h.courier.Order(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, timelineResponse{
		Order:    *order,
		Timeline: status.Timeline(order.Status),
	})
}

type updateStatusBody struct {
	Status model.OrderStatus `json:"status"`
}

// CourierUpdateStatus moves an order forward (diproses→dikirim→selesai).
func (h *Handler) CourierUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	if !ok {
		h.respondError(w, errBadRequest("ID pesanan tidak valid."))
		return
	}

	var body updateStatusBody
	if err := decodeJSON(r, &body); err != nil || body.Status == "" {
		h.respondError(w, errBadRequest("Status tidak valid."))
		return
	}

	err := h.courier.UpdateStatus(r.Context(), id, body.Status)
	middleware.RecordOrderOperation("update_status", err == nil)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondMessage(w, http.StatusOK, "Status pesanan diperbarui")
}

// CourierUploadProof accepts the delivery photo (multipart: bukti file plus
// an optional catatan note) and forwards it to the backend.
func (h *Handler) CourierUploadProof(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	if !ok {
		h.respondError(w, errBadRequest("ID pesanan tidak valid."))
		return
	}

	if err := r.ParseMultipartForm(maxProofMemory); err != nil {
		h.respondError(w, errBadRequest("Form upload tidak valid."))
		return
	}
	file, header, err := r.FormFile("bukti")
	if err != nil {
		h.respondError(w, errBadRequest("Lampirkan foto bukti pengiriman."))
		return
	}
	defer file.Close()

	err = h.courier.UploadDeliveryProof(r.Context(), id, header.Filename, file, r.FormValue("catatan"))
	middleware.RecordOrderOperation("upload_delivery_proof", err == nil)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondMessage(w, http.StatusOK, "Bukti pengiriman terkirim")
}
