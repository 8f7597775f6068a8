package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

// fakeRemote is an in-memory cart that merges adds like the real API.
// The err fields make the next matching call fail.
type fakeRemote struct {
	mu       sync.Mutex
	products map[string]dto.Product
	items    []dto.CartItem

	getErr    error
	addErr    error
	updateErr error
	removeErr error

	gets    int
	updates []int
	delay   time.Duration
}

func newFakeRemote(products ...dto.Product) *fakeRemote {
	f := &fakeRemote{products: make(map[string]dto.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeRemote) snapshot() []dto.CartItem {
	out := make([]dto.CartItem, len(f.items))
	copy(out, f.items)
	return out
}

func (f *fakeRemote) GetCart(ctx context.Context) ([]dto.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		err := f.getErr
		f.getErr = nil
		return nil, err
	}
	return f.snapshot(), nil
}

func (f *fakeRemote) AddItem(ctx context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		err := f.addErr
		f.addErr = nil
		return err
	}
	for i := range f.items {
		if f.items[i].Product.ID == productID {
			f.items[i].Quantity += dto.Count(quantity)
			return nil
		}
	}
	p := f.products[productID]
	p.ID = productID
	f.items = append(f.items, dto.CartItem{Product: &p, Quantity: dto.Count(quantity)})
	return nil
}

func (f *fakeRemote) UpdateItem(ctx context.Context, productID string, quantity int) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, quantity)
	if f.updateErr != nil {
		err := f.updateErr
		f.updateErr = nil
		return err
	}
	for i := range f.items {
		if f.items[i].Product.ID == productID {
			f.items[i].Quantity = dto.Count(quantity)
		}
	}
	return nil
}

func (f *fakeRemote) RemoveItem(ctx context.Context, productID string) ([]dto.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		err := f.removeErr
		f.removeErr = nil
		return nil, err
	}
	kept := f.items[:0]
	for _, it := range f.items {
		if it.Product.ID != productID {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return f.snapshot(), nil
}

func (f *fakeRemote) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func newTestSynchronizer(remote Remote, opts Options) (*Synchronizer, *notify.Center) {
	center := notify.NewCenter(10)
	return NewSynchronizer(remote, center, zap.NewNop(), opts), center
}

func TestScenario_AddIncreaseDecrease(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	s, center := newTestSynchronizer(remote, Options{SerializePerProduct: true})

	require.NoError(t, s.Add(ctx, "p1", 1))
	require.NoError(t, s.Refresh(ctx))
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, Line{ProductID: "p1", Title: "Lamp", UnitPrice: 10, Quantity: 1}, s.Lines()[0])

	require.NoError(t, s.IncreaseQuantity(ctx, "p1"))
	assert.Equal(t, []int{2}, remote.updates)
	require.NoError(t, s.Refresh(ctx))
	line, ok := s.Line("p1")
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)

	require.NoError(t, s.DecreaseQuantity(ctx, "p1"))
	line, _ = s.Line("p1")
	assert.Equal(t, 1, line.Quantity)

	err := s.DecreaseQuantity(ctx, "p1")
	require.ErrorIs(t, err, ErrQuantityBelowOne)
	line, _ = s.Line("p1")
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, []int{2, 1}, remote.updates, "rejected decrease must not reach the server")

	pending := center.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, notify.LevelError, pending[0].Level)
	assert.Equal(t, "Quantity cannot be less than 1", pending[0].Message)
}

func TestRefresh_FailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	s, _ := newTestSynchronizer(remote, Options{})

	require.NoError(t, s.Add(ctx, "p1", 2))
	before := s.Lines()
	require.Len(t, before, 1)

	remote.getErr = errors.New("network down")
	err := s.Refresh(ctx)
	require.Error(t, err)
	assert.Equal(t, before, s.Lines())
}

func TestRefresh_TwiceIsIdentical(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(
		dto.Product{ID: "p1", Title: "Lamp", Price: 10},
		dto.Product{ID: "p2", Title: "Chair", Price: 25.5},
	)
	s, _ := newTestSynchronizer(remote, Options{})
	require.NoError(t, s.Add(ctx, "p1", 1))
	require.NoError(t, s.Add(ctx, "p2", 3))

	require.NoError(t, s.Refresh(ctx))
	first := s.Lines()
	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, first, s.Lines())
}

func TestAdd_ServerMergesQuantity(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	s, _ := newTestSynchronizer(remote, Options{})

	require.NoError(t, s.Add(ctx, "p1", 2))
	require.NoError(t, s.Add(ctx, "p1", 3))
	require.NoError(t, s.Refresh(ctx))

	line, ok := s.Line("p1")
	require.True(t, ok)
	assert.GreaterOrEqual(t, line.Quantity, 3)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 5, s.Count())
	assert.InDelta(t, 50.0, s.Total(), 0.0001)
}

func TestAdd_QuantityBelowOneSendsOne(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	s, _ := newTestSynchronizer(remote, Options{})

	require.NoError(t, s.Add(ctx, "p1", 0))
	line, ok := s.Line("p1")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
}

func TestAdd_FailureNotifiesServerMessage(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.addErr = &clients.APIError{Service: "cart", Status: 404, Message: "Product not found"}
	s, center := newTestSynchronizer(remote, Options{})

	err := s.Add(ctx, "missing", 1)
	require.Error(t, err)

	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Empty(t, s.Lines())

	pending := center.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "Product not found", pending[0].Message)
}

func TestAdd_FailureWithoutMessageUsesFallback(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.addErr = errors.New("connection reset")
	s, center := newTestSynchronizer(remote, Options{})

	require.Error(t, s.Add(ctx, "p1", 1))
	pending := center.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "Failed to add to cart", pending[0].Message)
}

func TestAdd_RefreshFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	remote.getErr = errors.New("timeout")
	s, _ := newTestSynchronizer(remote, Options{})

	require.NoError(t, s.Add(ctx, "p1", 1))
	assert.Empty(t, s.Lines(), "view stays stale until the next refresh")

	require.NoError(t, s.Refresh(ctx))
	assert.Len(t, s.Lines(), 1)
}

func TestIncreaseQuantity_UnknownProductIsNoop(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	s, _ := newTestSynchronizer(remote, Options{})
	require.NoError(t, s.Add(ctx, "p1", 1))
	before := s.Lines()
	gets := remote.gets

	require.NoError(t, s.IncreaseQuantity(ctx, "nope"))
	require.NoError(t, s.DecreaseQuantity(ctx, "nope"))

	assert.Zero(t, remote.updateCount())
	assert.Equal(t, gets, remote.gets)
	assert.Equal(t, before, s.Lines())
}

func TestUpdateFailure_KeepsSnapshotAndNotifies(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	s, center := newTestSynchronizer(remote, Options{})
	require.NoError(t, s.Add(ctx, "p1", 1))

	remote.updateErr = errors.New("boom")
	require.Error(t, s.IncreaseQuantity(ctx, "p1"))

	line, _ := s.Line("p1")
	assert.Equal(t, 1, line.Quantity)
	pending := center.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "Failed to update quantity", pending[0].Message)
}

func TestRemove_AdoptsServerResponse(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(
		dto.Product{ID: "p1", Title: "Lamp", Price: 10},
		dto.Product{ID: "p2", Title: "Chair", Price: 20},
	)
	s, _ := newTestSynchronizer(remote, Options{})
	require.NoError(t, s.Add(ctx, "p1", 1))
	require.NoError(t, s.Add(ctx, "p2", 1))
	gets := remote.gets

	require.NoError(t, s.Remove(ctx, "p1"))
	assert.Equal(t, gets, remote.gets, "remove uses the response, not a refresh")
	require.Len(t, s.Lines(), 1)
	assert.Equal(t, "p2", s.Lines()[0].ProductID)
}

func TestRemove_FailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	s, center := newTestSynchronizer(remote, Options{})
	require.NoError(t, s.Add(ctx, "p1", 1))

	remote.removeErr = errors.New("boom")
	require.Error(t, s.Remove(ctx, "p1"))
	assert.Len(t, s.Lines(), 1)
	assert.Equal(t, "Failed to remove from cart", center.Pending()[0].Message)
}

func TestIncreaseQuantity_SerializedPerProduct(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	s, _ := newTestSynchronizer(remote, Options{SerializePerProduct: true})
	require.NoError(t, s.Add(ctx, "p1", 1))
	remote.delay = 10 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.IncreaseQuantity(ctx, "p1"))
		}()
	}
	wg.Wait()

	line, ok := s.Line("p1")
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, []int{2, 3}, remote.updates)
	assert.Zero(t, s.keys.Len())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote(dto.Product{ID: "p1", Title: "Lamp", Price: 10})
	s, _ := newTestSynchronizer(remote, Options{})
	require.NoError(t, s.Add(ctx, "p1", 1))

	s.Reset()
	assert.Empty(t, s.Lines())
	assert.NotNil(t, s.Lines())
	assert.Zero(t, s.Total())
}

func TestRefresh_MissingProductIsPlaceholderLine(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.items = []dto.CartItem{
		{Product: &dto.Product{ID: "p1", Title: "Lamp", Price: 10}, Quantity: 1},
		{Product: nil, Quantity: 2},
	}
	s, _ := newTestSynchronizer(remote, Options{SerializePerProduct: true})

	require.NoError(t, s.Refresh(ctx))
	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.True(t, lines[1].Unavailable)
	assert.Equal(t, PlaceholderTitle, lines[1].Title)
	assert.Equal(t, 3, s.Count())
	assert.InDelta(t, 10.0, s.Total(), 0.0001)

	_, ok := s.Line("")
	assert.False(t, ok)
	require.NoError(t, s.IncreaseQuantity(ctx, ""))
	assert.Empty(t, remote.updates)
}
