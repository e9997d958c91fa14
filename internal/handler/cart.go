package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gasgalon/orderflow/internal/checkout"
	"github.com/gasgalon/orderflow/internal/middleware"
	"github.com/gasgalon/orderflow/internal/model"
)

type cartResponse struct {
	Items      []model.CartLine `json:"items"`
	TotalItems int              `json:"total_items"`
	Subtotal   int64            `json:"subtotal"`
	Ongkir     int64            `json:"ongkir"`
	// Total is display-only; the server recomputes pricing at checkout.
	Total int64 `json:"total"`
}

func (h *Handler) cartState() cartResponse {
	lines := h.cart.Lines()
	if lines == nil {
		lines = []model.CartLine{}
	}
	return cartResponse{
		Items:      lines,
		TotalItems: h.cart.TotalItems(),
		Subtotal:   h.cart.Subtotal(),
		Ongkir:     h.ongkir,
		Total:      h.cart.Total(h.ongkir),
	}
}

// GetCart returns the current cart with its derived totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.cartState())
}

type addItemRequest struct {
	model.Product
	Quantity int `json:"quantity"`
}

// AddCartItem puts a product into the cart. Out-of-stock products are
// rejected here; the engine itself treats them as a no-op.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil || req.ID <= 0 {
		h.respondError(w, errBadRequest("Data produk tidak valid."))
		return
	}
	if req.Stock <= 0 {
		h.respondError(w, errBadRequest("Stok produk habis."))
		return
	}

	h.cart.AddItem(r.Context(), req.Product, req.Quantity)
	h.respond(w, http.StatusOK, h.cartState())
}

func productIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetCartItemQuantity fixes a line's quantity; zero or less removes the line.
func (h *Handler) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r)
	if !ok {
		h.respondError(w, errBadRequest("ID produk tidak valid."))
		return
	}

	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, errBadRequest("Jumlah tidak valid."))
		return
	}

	h.cart.SetQuantity(r.Context(), id, req.Quantity)
	h.respond(w, http.StatusOK, h.cartState())
}

// IncrementCartItem raises a line's quantity by one, clamped to stock.
func (h *Handler) IncrementCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r)
	if !ok {
		h.respondError(w, errBadRequest("ID produk tidak valid."))
		return
	}
	h.cart.Increment(r.Context(), id)
	h.respond(w, http.StatusOK, h.cartState())
}

// DecrementCartItem lowers a line's quantity by one; at one, the line goes.
func (h *Handler) DecrementCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r)
	if !ok {
		h.respondError(w, errBadRequest("ID produk tidak valid."))
		return
	}
	h.cart.Decrement(r.Context(), id)
	h.respond(w, http.StatusOK, h.cartState())
}

// RemoveCartItem deletes a line.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r)
	if !ok {
		h.respondError(w, errBadRequest("ID produk tidak valid."))
		return
	}
	h.cart.RemoveItem(r.Context(), id)
	h.respond(w, http.StatusOK, h.cartState())
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	h.respond(w, http.StatusOK, h.cartState())
}

// Checkout runs the submission flow. The body is either JSON with
// metode_bayar (cash) or multipart form data with a metode_bayar field and a
// bukti image part (qris).
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	req, proof, err := h.checkoutRequest(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if proof != nil {
		defer proof.Close()
	}

	receipt, err := h.flow.Submit(r.Context(), req)
	middleware.RecordOrderOperation("create", err == nil)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respond(w, http.StatusCreated, receipt)
}

const maxProofMemory = 10 << 20 // 10 MiB

// checkoutRequest parses the body. The returned closer is the proof file for
// multipart requests, nil otherwise; the caller closes it after the flow runs.
func (h *Handler) checkoutRequest(r *http.Request) (checkout.Request, io.Closer, error) {
	ct := r.Header.Get("Content-Type")
	if len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxProofMemory); err != nil {
			return checkout.Request{}, nil, errBadRequest("Form checkout tidak valid.")
		}

		req := checkout.Request{Method: model.PaymentMethod(r.FormValue("metode_bayar"))}
		var proof io.Closer
		if file, header, err := r.FormFile("bukti"); err == nil {
			req.Proof = file
			req.ProofFilename = header.Filename
			proof = file
		}
		return req, proof, nil
	}

	var body struct {
		Method model.PaymentMethod `json:"metode_bayar"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return checkout.Request{}, nil, errBadRequest("Body checkout tidak valid.")
	}
	return checkout.Request{Method: body.Method}, nil, nil
}
