package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gasgalon/orderflow/internal/api"
	"github.com/gasgalon/orderflow/internal/model"
)

type stubStore struct {
	sess     *model.Session
	loadErr  error
	saveErr  error
	saved    int
	cleared  int
	sessions []model.Session
}

func (s *stubStore) SaveCart(ctx context.Context, lines []model.CartLine) error { return nil }
func (s *stubStore) LoadCart(ctx context.Context) ([]model.CartLine, error)     { return nil, nil }
func (s *stubStore) ClearCart(ctx context.Context) error                        { return nil }

func (s *stubStore) SaveSession(ctx context.Context, sess model.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved++
	s.sessions = append(s.sessions, sess)
	s.sess = &sess
	return nil
}

func (s *stubStore) LoadSession(ctx context.Context) (*model.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.sess, nil
}

func (s *stubStore) ClearSession(ctx context.Context) error {
	s.cleared++
	s.sess = nil
	return nil
}

func (s *stubStore) Close() error { return nil }

func TestLoad_RestoresPersistedSession(t *testing.T) {
	st := &stubStore{sess: &model.Session{Token: "tok", User: model.User{Username: "budi", Role: model.RoleCustomer}}}
	m := NewManager(st, nil, zap.NewNop())

	m.Load(context.Background())

	if !m.LoggedIn() {
		t.Fatalf("expected restored session")
	}
	if got := m.Token(context.Background()); got != "tok" {
		t.Fatalf("Token = %q, want tok", got)
	}
}

func TestLoad_CorruptStoreStartsLoggedOut(t *testing.T) {
	st := &stubStore{loadErr: errors.New("unmarshal failed")}
	m := NewManager(st, nil, zap.NewNop())

	m.Load(context.Background())

	if m.LoggedIn() {
		t.Fatalf("corrupt store must leave the agent logged out")
	}
}

func TestLoad_EmptyTokenIgnored(t *testing.T) {
	st := &stubStore{sess: &model.Session{Token: ""}}
	m := NewManager(st, nil, zap.NewNop())

	m.Load(context.Background())

	if m.LoggedIn() {
		t.Fatalf("session without a token must not be restored")
	}
}

func TestLogin_PersistsSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"fresh","user":{"id":1,"username":"budi","role":"customer"}}}`))
	}))
	defer ts.Close()

	st := &stubStore{}
	m := NewManager(st, api.NewClient(ts.URL, time.Second), zap.NewNop())

	sess, err := m.Login(context.Background(), "budi", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if sess.Token != "fresh" {
		t.Fatalf("token = %q", sess.Token)
	}
	if st.saved != 1 || st.sess == nil || st.sess.Token != "fresh" {
		t.Fatalf("session not persisted: saved=%d", st.saved)
	}
}

func TestLogin_FailureLeavesLoggedOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Username atau password salah"}`))
	}))
	defer ts.Close()

	st := &stubStore{}
	m := NewManager(st, api.NewClient(ts.URL, time.Second), zap.NewNop())

	if _, err := m.Login(context.Background(), "budi", "wrong"); err == nil {
		t.Fatalf("expected error")
	}
	if m.LoggedIn() || st.saved != 0 {
		t.Fatalf("failed login must leave no session")
	}
}

func TestLogin_PersistFailureStillLogsIn(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"fresh","user":{"id":1,"username":"budi","role":"customer"}}}`))
	}))
	defer ts.Close()

	st := &stubStore{saveErr: errors.New("redis down")}
	m := NewManager(st, api.NewClient(ts.URL, time.Second), zap.NewNop())

	if _, err := m.Login(context.Background(), "budi", "secret"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !m.LoggedIn() {
		t.Fatalf("persistence failure must not block the session")
	}
}

func TestLogout_ClearsSessionOnly(t *testing.T) {
	st := &stubStore{sess: &model.Session{Token: "tok", User: model.User{Role: model.RoleCustomer}}}
	m := NewManager(st, nil, zap.NewNop())
	m.Load(context.Background())

	m.Logout(context.Background())

	if m.LoggedIn() {
		t.Fatalf("still logged in after Logout")
	}
	if st.cleared != 1 {
		t.Fatalf("ClearSession calls = %d, want 1", st.cleared)
	}
	if got := m.Token(context.Background()); got != "" {
		t.Fatalf("Token = %q after logout, want empty", got)
	}
}

func TestTeardown_NoopWhenLoggedOut(t *testing.T) {
	st := &stubStore{}
	m := NewManager(st, nil, zap.NewNop())

	m.Teardown(context.Background())

	if st.cleared != 0 {
		t.Fatalf("Teardown while logged out must not touch the store")
	}
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	st := &stubStore{sess: &model.Session{Token: "tok", User: model.User{Username: "budi"}}}
	m := NewManager(st, nil, zap.NewNop())
	m.Load(context.Background())

	sess := m.Current()
	sess.Token = "mutated"

	if got := m.Token(context.Background()); got != "tok" {
		t.Fatalf("Current must return a copy, manager token = %q", got)
	}
}
