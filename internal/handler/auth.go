package handler

import (
	"net/http"

	"github.com/gasgalon/orderflow/internal/api"
	"github.com/gasgalon/orderflow/internal/model"
	"github.com/gasgalon/orderflow/internal/validation"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login authenticates against the backend and installs the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
		h.respondError(w, errBadRequest("Username dan password wajib diisi."))
		return
	}

	sess, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respond(w, http.StatusOK, sessionResponse{Token: sess.Token, User: sess.User})
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Register creates a customer account and installs the session.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, errBadRequest("Data pendaftaran tidak valid."))
		return
	}

	switch {
	case req.Name == "" || req.Username == "" || req.Password == "" || req.Phone == "" || req.Address == "":
		h.respondError(w, errBadRequest("Semua kolom wajib diisi."))
		return
	case !validation.IsValidUsername(req.Username):
		h.respondError(w, errBadRequest("Username hanya huruf, angka, dan garis bawah (3-20 karakter)."))
		return
	case !validation.IsValidPhone(req.Phone):
		h.respondError(w, errBadRequest("Nomor telepon tidak valid."))
		return
	}

	sess, err := h.sessions.Register(r.Context(), api.RegisterRequest{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respond(w, http.StatusOK, sessionResponse{Token: sess.Token, User: sess.User})
}

// Logout destroys the local session. The cart stays.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	h.respondMessage(w, http.StatusOK, "Logout berhasil")
}

// Products proxies the catalog with the jenis / stok_tersedia filters.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("jenis")
	onlyAvailable := r.URL.Query().Get("stok_tersedia") == "true"

	products, err := h.backend.Products(r.Context(), kind, onlyAvailable)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, products)
}

// errBadRequest builds a client-side validation error in the api taxonomy so
// respondError renders it uniformly.
func errBadRequest(message string) error {
	return &api.Error{StatusCode: http.StatusBadRequest, Message: message}
}
