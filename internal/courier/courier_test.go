package courier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gasgalon/orderflow/internal/api"
	"github.com/gasgalon/orderflow/internal/model"
)

// backendStub serves the courier endpoints with one configurable order.
type backendStub struct {
	status      model.OrderStatus
	updateCalls atomic.Int32
}

func (b *backendStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/kurir/pesanan", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("id") == "404" {
			_, _ = w.Write([]byte(`{"success":true,"data":{"pesanan":[]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"pesanan":[{"id":3,"status":"` + string(b.status) + `"}]}}`))
	})
	mux.HandleFunc("/kurir/update_status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("method = %s, want PUT", r.Method)
		}
		b.updateCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Status diperbarui"}`))
	})
	return mux
}

func newService(t *testing.T, backend *backendStub) (*Service, func()) {
	t.Helper()
	ts := httptest.NewServer(backend.handler(t))
	return NewService(api.NewClient(ts.URL, time.Second), zap.NewNop()), ts.Close
}

func TestUpdateStatus_ForwardStep(t *testing.T) {
	backend := &backendStub{status: model.StatusDiproses}
	svc, closeFn := newService(t, backend)
	defer closeFn()

	if err := svc.UpdateStatus(context.Background(), 3, model.StatusDikirim); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if got := backend.updateCalls.Load(); got != 1 {
		t.Fatalf("update calls = %d, want 1", got)
	}
}

func TestUpdateStatus_IllegalTransitionNoRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		from   model.OrderStatus
		target model.OrderStatus
	}{
		{"skip ahead", model.StatusMenunggu, model.StatusDikirim},
		{"backwards", model.StatusDikirim, model.StatusDiproses},
		{"from terminal", model.StatusSelesai, model.StatusDikirim},
		{"cancel in transit", model.StatusDikirim, model.StatusDibatalkan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &backendStub{status: tt.from}
			svc, closeFn := newService(t, backend)
			defer closeFn()

			err := svc.UpdateStatus(context.Background(), 3, tt.target)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("err = %v, want ErrInvalidTransition", err)
			}
			if got := backend.updateCalls.Load(); got != 0 {
				t.Fatalf("update calls = %d, want 0", got)
			}
		})
	}
}

func TestOrder_NotFound(t *testing.T) {
	backend := &backendStub{status: model.StatusMenunggu}
	svc, closeFn := newService(t, backend)
	defer closeFn()

	_, err := svc.Order(context.Background(), 404)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestUpdateStatus_MissingOrder(t *testing.T) {
	backend := &backendStub{status: model.StatusMenunggu}
	svc, closeFn := newService(t, backend)
	defer closeFn()

	err := svc.UpdateStatus(context.Background(), 404, model.StatusDiproses)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}
