// Package cart implements the client-side shopping cart engine: what the
// customer intends to buy before an order exists.
//
// The cart is a process-wide singleton owned by the composition root and
// mutated only through the methods below. Every mutation persists the full
// snapshot; a persistence failure is logged and does not undo the in-memory
// mutation, since the in-memory state is authoritative until checkout.
package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gasgalon/orderflow/internal/model"
	"github.com/gasgalon/orderflow/internal/store"
)

// Cart holds the line items keyed by product identity, in insertion order.
type Cart struct {
	mu     sync.Mutex
	lines  []model.CartLine
	store  store.Store
	logger *zap.Logger
}

// New creates an empty cart backed by the given store.
func New(st store.Store, logger *zap.Logger) *Cart {
	return &Cart{store: st, logger: logger}
}

// Load replaces the in-memory state with the persisted snapshot. Missing or
// corrupt stored data falls back to an empty cart; startup never fails here.
func (c *Cart) Load(ctx context.Context) {
	lines, err := c.store.LoadCart(ctx)
	if err != nil {
		c.logger.Warn("stored cart unreadable, starting empty", zap.Error(err))
		lines = nil
	}

	// Drop lines a bad snapshot could carry; a quantity of zero or an
	// unknown stock bound must not survive a reload. The store's slice is
	// not reused so its buffer stays untouched.
	valid := make([]model.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 || l.Stock <= 0 {
			continue
		}
		if l.Quantity > l.Stock {
			l.Quantity = l.Stock
		}
		valid = append(valid, l)
	}

	c.mu.Lock()
	c.lines = valid
	c.mu.Unlock()
}

func (c *Cart) persist(ctx context.Context) {
	snapshot := make([]model.CartLine, len(c.lines))
	copy(snapshot, c.lines)

	if err := c.store.SaveCart(ctx, snapshot); err != nil {
		c.logger.Warn("persist cart", zap.Error(err), zap.Int("lines", len(snapshot)))
	}
}

func (c *Cart) find(productID int64) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// AddItem puts qty units of the product into the cart, merging with an
// existing line for the same product. The resulting quantity is clamped to
// the stock snapshot captured when the line was created. Products without
// stock are a no-op; callers pre-check stock for the user-facing rejection.
func (c *Cart) AddItem(ctx context.Context, p model.Product, qty int) {
	if p.Stock <= 0 {
		return
	}
	if qty <= 0 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(p.ID); i >= 0 {
		q := c.lines[i].Quantity + qty
		if q > c.lines[i].Stock {
			q = c.lines[i].Stock
		}
		c.lines[i].Quantity = q
	} else {
		if qty > p.Stock {
			qty = p.Stock
		}
		c.lines = append(c.lines, model.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Kind:      p.Kind,
			UnitPrice: p.Price,
			Stock:     p.Stock,
			Quantity:  qty,
		})
	}

	c.persist(ctx)
}

// RemoveItem deletes the line for the product; absent lines are a no-op.
func (c *Cart) RemoveItem(ctx context.Context, productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(productID)
	if i < 0 {
		return
	}
	c.removeAt(i)
	c.persist(ctx)
}

// SetQuantity fixes a line's quantity. n <= 0 removes the line; otherwise the
// value is clamped to [1, stock]. Unknown products are a no-op.
func (c *Cart) SetQuantity(ctx context.Context, productID int64, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(productID)
	if i < 0 {
		return
	}
	if n <= 0 {
		c.removeAt(i)
	} else {
		if n > c.lines[i].Stock {
			n = c.lines[i].Stock
		}
		c.lines[i].Quantity = n
	}
	c.persist(ctx)
}

// Increment raises a line's quantity by one, clamped to its stock.
func (c *Cart) Increment(ctx context.Context, productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(productID)
	if i < 0 {
		return
	}
	if c.lines[i].Quantity < c.lines[i].Stock {
		c.lines[i].Quantity++
		c.persist(ctx)
	}
}

// Decrement lowers a line's quantity by one; reaching zero removes the line.
func (c *Cart) Decrement(ctx context.Context, productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(productID)
	if i < 0 {
		return
	}
	if c.lines[i].Quantity <= 1 {
		c.removeAt(i)
	} else {
		c.lines[i].Quantity--
	}
	c.persist(ctx)
}

// Clear empties the cart and removes the stored snapshot.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	if err := c.store.ClearCart(ctx); err != nil {
		// Accepted eventual inconsistency: the order exists server-side,
		// the stale snapshot is dropped on the next successful write.
		c.logger.Warn("clear stored cart", zap.Error(err))
	}
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Quantity returns the quantity for the product, zero when absent.
func (c *Cart) Quantity(productID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// TotalItems returns the summed quantity across all lines.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal returns the summed line subtotals.
func (c *Cart) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum int64
	for _, l := range c.lines {
		sum += l.Subtotal()
	}
	return sum
}

// Total returns subtotal plus the flat shipping fee. Display-only: the
// server recomputes pricing at order creation and its values win.
func (c *Cart) Total(shippingFee int64) int64 {
	return c.Subtotal() + shippingFee
}

// OrderPayload projects the cart into the item shape the create endpoint
// expects.
func (c *Cart) OrderPayload() []model.OrderItemRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]model.OrderItemRequest, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, model.OrderItemRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return items
}
