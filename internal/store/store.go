// Package store persists the agent's local state in a key-value store.
package store

import (
	"context"

	"github.com/gasgalon/orderflow/internal/model"
)

// Keys mirror the mobile client's async-storage keys so deployed state stays
// inspectable with redis-cli.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyCart  = "shopping_cart"
)

// Store is the persistence contract used by the cart engine and the session.
// Implementations must keep writes atomic per key; cross-key atomicity is not
// required (a crash between order success and cart clear is accepted
// eventual inconsistency).
type Store interface {
	SaveCart(ctx context.Context, lines []model.CartLine) error
	// LoadCart returns nil with no error when nothing is stored. A decode
	// failure is reported as an error; callers fall back to an empty cart.
	LoadCart(ctx context.Context) ([]model.CartLine, error)
	ClearCart(ctx context.Context) error

	SaveSession(ctx context.Context, s model.Session) error
	// LoadSession returns nil with no error when no session is stored.
	LoadSession(ctx context.Context) (*model.Session, error)
	ClearSession(ctx context.Context) error

	Close() error
}
