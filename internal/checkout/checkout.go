// Package checkout implements the order submission flow: precondition
// validation, optional payment-proof upload, order creation, and local
// cleanup, in that strict order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gasgalon/orderflow/internal/api"
	"github.com/gasgalon/orderflow/internal/cart"
	"github.com/gasgalon/orderflow/internal/model"
	"github.com/gasgalon/orderflow/internal/session"
)

// Validation failures. Each is reported before any network call happens.
var (
	ErrNotAuthenticated   = errors.New("silakan login terlebih dahulu")
	ErrEmptyCart          = errors.New("keranjang masih kosong")
	ErrNoPaymentMethod    = errors.New("pilih metode pembayaran")
	ErrIncompleteProfile  = errors.New("lengkapi nama, telepon, dan alamat pengiriman")
	ErrMissingProof       = errors.New("lampirkan bukti pembayaran QRIS")
	ErrSubmissionInFlight = errors.New("pesanan sedang dikirim, tunggu sebentar")
)

// Request carries the checkout selections. Proof is the QRIS payment image,
// required exactly when Method is qris.
type Request struct {
	Method        model.PaymentMethod
	Proof         io.Reader
	ProofFilename string
}

// Flow turns the cart plus a payment selection into a server-confirmed order.
type Flow struct {
	cart     *cart.Cart
	sessions *session.Manager
	client   *api.Client
	ongkir   int64
	logger   *zap.Logger

	inFlight atomic.Bool
}

// NewFlow wires the submission flow. ongkir is the flat shipping fee sent
// with every order.
func NewFlow(c *cart.Cart, s *session.Manager, client *api.Client, ongkir int64, logger *zap.Logger) *Flow {
	return &Flow{cart: c, sessions: s, client: client, ongkir: ongkir, logger: logger}
}

// Submit runs the whole flow. On success the cart is cleared and the server's
// receipt is returned; its pricing is authoritative over anything computed
// locally. On any failure the cart keeps its lines so the attempt can be
// retried as a whole; an authorization failure additionally tears down the
// session (via the API client hook) but still keeps the cart.
//
// A second Submit while one is in flight returns ErrSubmissionInFlight
// without touching the network.
func (f *Flow) Submit(ctx context.Context, req Request) (*api.OrderReceipt, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer f.inFlight.Store(false)

	if err := f.validate(req); err != nil {
		return nil, err
	}

	proofRef := ""
	if req.Method == model.PaymentQRIS {
		ref, err := f.client.UploadPaymentProof(ctx, req.ProofFilename, req.Proof)
		if err != nil {
			// Abort before order creation; the message must say the
			// upload failed so the user knows the cart is untouched.
			return nil, fmt.Errorf("upload bukti pembayaran gagal: %w", err)
		}
		proofRef = ref
	}

	receipt, err := f.client.CreateOrder(ctx, api.CreateOrderRequest{
		Items:       f.cart.OrderPayload(),
		Method:      req.Method,
		ShippingFee: f.ongkir,
		ProofRef:    proofRef,
	})
	if err != nil {
		return nil, err
	}

	f.cart.Clear(ctx)
	f.logger.Info("order created",
		zap.Int64("order_id", receipt.ID),
		zap.Int64("total", receipt.Total),
		zap.String("metode_bayar", string(req.Method)))
	return receipt, nil
}

func (f *Flow) validate(req Request) error {
	sess := f.sessions.Current()
	if sess == nil {
		return ErrNotAuthenticated
	}
	if f.cart.IsEmpty() {
		return ErrEmptyCart
	}
	if !req.Method.Valid() {
		return ErrNoPaymentMethod
	}
	if !sess.User.HasDeliveryProfile() {
		return ErrIncompleteProfile
	}
	if req.Method == model.PaymentQRIS && req.Proof == nil {
		return ErrMissingProof
	}
	return nil
}
