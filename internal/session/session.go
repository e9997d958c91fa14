// Package session owns the authenticated identity: one token and profile per
// agent instance, persisted between runs and destroyed on logout or when the
// backend rejects the credential.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gasgalon/orderflow/internal/api"
	"github.com/gasgalon/orderflow/internal/model"
	"github.com/gasgalon/orderflow/internal/store"
)

// Manager holds the current session and keeps the store in sync with it.
type Manager struct {
	mu      sync.RWMutex
	current *model.Session

	store  store.Store
	client *api.Client
	logger *zap.Logger
}

// NewManager creates a session manager. Call Load before serving.
func NewManager(st store.Store, client *api.Client, logger *zap.Logger) *Manager {
	return &Manager{store: st, client: client, logger: logger}
}

// Load restores the persisted session if one exists. Corrupt stored state is
// discarded; the agent simply starts logged out.
func (m *Manager) Load(ctx context.Context) {
	sess, err := m.store.LoadSession(ctx)
	if err != nil {
		m.logger.Warn("stored session unreadable, starting logged out", zap.Error(err))
		return
	}
	if sess == nil || sess.Token == "" {
		return
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()
	m.logger.Info("session restored", zap.String("username", sess.User.Username), zap.String("role", string(sess.User.Role)))
}

// Token implements api.TokenSource.
func (m *Manager) Token(_ context.Context) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Current returns a copy of the active session, nil when logged out.
func (m *Manager) Current() *model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	sess := *m.current
	return &sess
}

// LoggedIn reports whether a session is active.
func (m *Manager) LoggedIn() bool {
	return m.Current() != nil
}

// Login authenticates with the backend and persists the issued session.
func (m *Manager) Login(ctx context.Context, username, password string) (*model.Session, error) {
	sess, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	m.install(ctx, sess)
	return sess, nil
}

// Register creates a customer account and persists the issued session.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) (*model.Session, error) {
	sess, err := m.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	m.install(ctx, sess)
	return sess, nil
}

func (m *Manager) install(ctx context.Context, sess *model.Session) {
	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	if err := m.store.SaveSession(ctx, *sess); err != nil {
		// The session still works for this run; it just will not survive
		// a restart.
		m.logger.Warn("persist session", zap.Error(err))
	}
}

// Logout destroys the session locally. The backend has no logout endpoint;
// the cart is deliberately left alone so it survives a re-login.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.ClearSession(ctx); err != nil {
		m.logger.Warn("clear stored session", zap.Error(err))
	}
}

// Teardown is Logout triggered by an authorization failure, wired as the API
// client's unauthorized hook.
func (m *Manager) Teardown(ctx context.Context) {
	if !m.LoggedIn() {
		return
	}
	m.logger.Info("session rejected by backend, tearing down")
	m.Logout(ctx)
}
