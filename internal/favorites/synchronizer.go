// Package favorites keeps the local list of favorite products in step with
// the commerce API.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/keylock"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

var ErrMissingProductID = errors.New("product id is required")

// Remote is the commerce API favorites resource.
type Remote interface {
	List(ctx context.Context) ([]dto.Favorite, error)
	Add(ctx context.Context, productID string) (string, error)
	Remove(ctx context.Context, favoriteID string) error
}

type Synchronizer struct {
	remote   Remote
	notifier notify.Notifier
	logger   *zap.Logger
	adding   *keylock.Map

	mu      sync.RWMutex
	entries []Entry
}

func NewSynchronizer(remote Remote, notifier notify.Notifier, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		remote:   remote,
		notifier: notifier,
		logger:   logger,
		adding:   keylock.New(),
		entries:  []Entry{},
	}
}

// Refresh replaces the list with the server's. On failure the previous list
// is kept.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	favs, err := s.remote.List(ctx)
	if err != nil {
		s.logger.Warn("favorites: refresh failed, keeping previous snapshot", zap.Error(err))
		return fmt.Errorf("refresh favorites: %w", err)
	}
	entries := entriesFromWire(favs, s.logger)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Add favorites p. A product already in the local list is not sent again,
// and concurrent adds of one product run one at a time so the second sees
// the first. The check only sees the local snapshot, so a stale list can
// still let a duplicate relation through on the server.
func (s *Synchronizer) Add(ctx context.Context, p Product) error {
	p.ProductID = strings.TrimSpace(p.ProductID)
	if p.ProductID == "" {
		return ErrMissingProductID
	}
	defer s.adding.Lock(p.ProductID)()

	if s.Contains(p.ProductID) {
		return nil
	}
	if p.Title == "" {
		p.Title = PlaceholderTitle
	}

	id, err := s.remote.Add(ctx, p.ProductID)
	if err != nil {
		s.logger.Error("favorites: add failed", zap.String("product_id", p.ProductID), zap.Error(err))
		s.notifier.Notify(notify.LevelError, notify.UserMessage(err, "Failed to add to favorites"))
		return fmt.Errorf("add favorite %s: %w", p.ProductID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Product.ProductID == p.ProductID {
			// a concurrent Add or Refresh already recorded it
			return nil
		}
	}
	s.entries = append(s.entries, Entry{FavoriteID: id, Product: p})
	return nil
}

// Remove deletes the relation with favoriteID and drops exactly that entry.
func (s *Synchronizer) Remove(ctx context.Context, favoriteID string) error {
	if err := s.remote.Remove(ctx, favoriteID); err != nil {
		s.logger.Error("favorites: remove failed", zap.String("favorite_id", favoriteID), zap.Error(err))
		s.notifier.Notify(notify.LevelError, notify.UserMessage(err, "Failed to remove from favorites"))
		return fmt.Errorf("remove favorite %s: %w", favoriteID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.FavoriteID != favoriteID {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

func (s *Synchronizer) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Synchronizer) Contains(productID string) bool {
	_, ok := s.FavoriteIDFor(productID)
	return ok
}

// FavoriteIDFor returns the relation id for productID, used to unfavorite
// from a product screen.
func (s *Synchronizer) FavoriteIDFor(productID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Product.ProductID == productID {
			return e.FavoriteID, true
		}
	}
	return "", false
}

func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.entries = []Entry{}
	s.mu.Unlock()
}
