package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Proof-upload field names expected by both upload endpoints.
const (
	proofFileField = "bukti"
	orderIDField   = "id_pesanan"
	noteField      = "catatan"

	// PaymentProofPlaceholder is sent as id_pesanan when the proof is
	// uploaded before the order exists; the backend links it on create.
	PaymentProofPlaceholder = "temp"
)

type uploadData struct {
	Filename string `json:"filename"`
}

// UploadPaymentProof sends a payment proof image ahead of order creation and
// returns the stored filename to reference in the create request. Upload
// failures abort the submission before any order is created.
func (c *Client) UploadPaymentProof(ctx context.Context, filename string, image io.Reader) (string, error) {
	var data uploadData
	fields := map[string]string{orderIDField: PaymentProofPlaceholder}
	if err := c.upload(ctx, "/customer/upload-bukti", filename, image, fields, &data); err != nil {
		return "", err
	}
	if data.Filename == "" {
		return "", &Error{Message: msgGeneric}
	}
	return data.Filename, nil
}

// UploadDeliveryProof sends the courier's delivery photo for a completed
// hand-off, with an optional note.
func (c *Client) UploadDeliveryProof(ctx context.Context, filename string, image io.Reader, orderID int64, note string) error {
	fields := map[string]string{orderIDField: strconv.FormatInt(orderID, 10)}
	if note != "" {
		fields[noteField] = note
	}
	return c.upload(ctx, "/kurir/upload-bukti", filename, image, fields, nil)
}

func (c *Client) upload(ctx context.Context, path, filename string, image io.Reader, fields map[string]string, out any) error {
	if filename == "" {
		filename = uuid.NewString() + ".jpg"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(proofFileField, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, nil), &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	c.authorize(ctx, req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: msgNoConnection}
	}
	return c.decode(ctx, resp, out)
}
