// Package cart keeps the local view of the user's cart in step with the
// commerce API. The server is authoritative: every successful mutation is
// followed by a snapshot taken from a server response, and a failed call
// never touches the snapshot.
package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/keylock"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

// ErrQuantityBelowOne rejects a decrease that would leave a line at zero.
// Removing a line is a separate, explicit operation.
var ErrQuantityBelowOne error = quantityError{}

type quantityError struct{}

func (quantityError) Error() string       { return "quantity cannot be less than 1" }
func (quantityError) UserMessage() string { return "Quantity cannot be less than 1" }

// Remote is the commerce API cart resource.
type Remote interface {
	GetCart(ctx context.Context) ([]dto.CartItem, error)
	AddItem(ctx context.Context, productID string, quantity int) error
	UpdateItem(ctx context.Context, productID string, quantity int) error
	RemoveItem(ctx context.Context, productID string) ([]dto.CartItem, error)
}

type Options struct {
	// SerializePerProduct allows at most one in-flight mutation per product,
	// so rapid repeated taps cannot lose quantity updates.
	SerializePerProduct bool
}

type Synchronizer struct {
	remote   Remote
	notifier notify.Notifier
	logger   *zap.Logger
	opts     Options
	keys     *keylock.Map

	mu    sync.RWMutex
	lines []Line
}

func NewSynchronizer(remote Remote, notifier notify.Notifier, logger *zap.Logger, opts Options) *Synchronizer {
	return &Synchronizer{
		remote:   remote,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
		keys:     keylock.New(),
		lines:    []Line{},
	}
}

// Refresh replaces the snapshot with the server's cart. On failure the
// previous snapshot stays as it was.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	items, err := s.remote.GetCart(ctx)
	if err != nil {
		s.logger.Warn("cart: refresh failed, keeping previous snapshot", zap.Error(err))
		return fmt.Errorf("refresh cart: %w", err)
	}
	s.replace(linesFromWire(items, s.logger))
	return nil
}

// Add puts quantity units of productID in the cart (1 when quantity < 1).
// The server decides whether this merges into an existing line, so the
// snapshot is refreshed afterwards.
func (s *Synchronizer) Add(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	defer s.lock(productID)()

	if err := s.remote.AddItem(ctx, productID, quantity); err != nil {
		return s.fail(err, "add", productID, "Failed to add to cart")
	}
	s.logger.Debug("cart: item added", zap.String("product_id", productID), zap.Int("quantity", quantity))

	// the add went through; a failed refresh only leaves the view stale
	_ = s.Refresh(ctx)
	return nil
}

// Remove deletes the line and adopts the cart returned by the server.
func (s *Synchronizer) Remove(ctx context.Context, productID string) error {
	defer s.lock(productID)()

	items, err := s.remote.RemoveItem(ctx, productID)
	if err != nil {
		return s.fail(err, "remove", productID, "Failed to remove from cart")
	}
	s.replace(linesFromWire(items, s.logger))
	return nil
}

// IncreaseQuantity sets the line to its local quantity plus one. It does
// nothing when the product is not in the cart.
func (s *Synchronizer) IncreaseQuantity(ctx context.Context, productID string) error {
	defer s.lock(productID)()

	line, ok := s.Line(productID)
	if !ok {
		return nil
	}
	return s.setQuantity(ctx, productID, line.Quantity+1)
}

// DecreaseQuantity sets the line to its local quantity minus one. A line at
// quantity 1 is left alone and ErrQuantityBelowOne is returned without
// contacting the server.
func (s *Synchronizer) DecreaseQuantity(ctx context.Context, productID string) error {
	defer s.lock(productID)()

	line, ok := s.Line(productID)
	if !ok {
		return nil
	}
	next := line.Quantity - 1
	if next < 1 {
		s.notifier.Notify(notify.LevelError, notify.UserMessage(ErrQuantityBelowOne, ""))
		return ErrQuantityBelowOne
	}
	return s.setQuantity(ctx, productID, next)
}

func (s *Synchronizer) setQuantity(ctx context.Context, productID string, quantity int) error {
	if err := s.remote.UpdateItem(ctx, productID, quantity); err != nil {
		return s.fail(err, "update", productID, "Failed to update quantity")
	}
	_ = s.Refresh(ctx)
	return nil
}

func (s *Synchronizer) fail(err error, op, productID, fallback string) error {
	s.logger.Error("cart: "+op+" failed", zap.String("product_id", productID), zap.Error(err))
	s.notifier.Notify(notify.LevelError, notify.UserMessage(err, fallback))
	return fmt.Errorf("%s cart item %s: %w", op, productID, err)
}

func (s *Synchronizer) lock(productID string) func() {
	if !s.opts.SerializePerProduct {
		return func() {}
	}
	return s.keys.Lock(productID)
}

func (s *Synchronizer) replace(lines []Line) {
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

// Lines returns a copy of the snapshot in server order.
func (s *Synchronizer) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Synchronizer) Line(productID string) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lines {
		if !l.Unavailable && l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

func (s *Synchronizer) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Total(s.lines)
}

// Count is the number of units across all lines.
func (s *Synchronizer) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Reset empties the snapshot, e.g. on logout.
func (s *Synchronizer) Reset() {
	s.replace([]Line{})
}
