package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	domain "github.com/Visionary-Advance/xoco-coffee/internal/domain/cart"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/repository"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"
)

// envelopeVersion tags persisted carts so older payload shapes can be
// migrated on load.
const envelopeVersion = 2

type envelope struct {
	Version int          `json:"version"`
	Lines   domain.Lines `json:"lines"`
}

// Patch carries the fields an inline edit may change; nil members leave the
// line untouched. Driving Quantity to zero removes the line.
type Patch struct {
	Quantity            *int
	Size                *domain.SizeRef
	Selections          []domain.Selection
	SpecialInstructions *string
	UnitPrice           *float64
}

// Service owns all cart mutations. Every mutation is a read-modify-write of
// the whole cart against the store followed by a change notification, the
// same model the storefront used against browser storage. There is no
// cross-writer locking; the last writer wins.
type Service struct {
	store repository.CartStore
	log   logger.Logger

	mu      sync.Mutex
	subs    map[int]func(cartKey string)
	nextSub int
}

func NewService(store repository.CartStore, log logger.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
		subs:  make(map[int]func(string)),
	}
}

// Get returns the cart stored under key. An absent or malformed payload is
// an empty cart, never an error: a corrupted cart must not take down the
// menu page.
func (s *Service) Get(ctx context.Context, key string) (domain.Lines, error) {
	raw, err := s.store.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(raw) == 0 {
		return domain.Lines{}, nil
	}
	return s.decode(key, raw), nil
}

// AddLine merges the new line into an existing line with the same
// configuration, or appends it, then persists and broadcasts the change.
func (s *Service) AddLine(ctx context.Context, key string, line domain.Line) (domain.Lines, error) {
	lines, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	merged := false
	mergeKey := line.MergeKey()
	for i := range lines {
		if lines[i].MergeKey() == mergeKey {
			lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, line)
	}

	if err := s.persist(ctx, key, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// UpdateLine applies a patch to the line with the given cart id.
func (s *Service) UpdateLine(ctx context.Context, key, cartID string, patch Patch) (domain.Lines, error) {
	lines, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	idx := lines.Find(cartID)
	if idx < 0 {
		return nil, domain.ErrLineNotFound
	}

	line := &lines[idx]
	if patch.Size != nil {
		line.Size = *patch.Size
	}
	if patch.Selections != nil {
		line.Selections = patch.Selections
	}
	if patch.SpecialInstructions != nil {
		line.SpecialInstructions = *patch.SpecialInstructions
	}
	if patch.UnitPrice != nil {
		line.UnitPrice = *patch.UnitPrice
	}
	if patch.Quantity != nil {
		if *patch.Quantity <= 0 {
			lines = append(lines[:idx], lines[idx+1:]...)
		} else {
			line.Quantity = *patch.Quantity
		}
	}

	if err := s.persist(ctx, key, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveLine drops the line with the given cart id. sizeName narrows the
// match when non-empty; migrated legacy carts could hold the same cart id
// under two sizes.
func (s *Service) RemoveLine(ctx context.Context, key, cartID, sizeName string) (domain.Lines, error) {
	lines, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, l := range lines {
		if l.CartID == cartID && (sizeName == "" || l.Size.Name == sizeName) {
			continue
		}
		kept = append(kept, l)
	}

	if err := s.persist(ctx, key, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear deletes the cart wholesale. Called only after a confirmed
// submission.
func (s *Service) Clear(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.notify(key)
	return nil
}

// Subscribe registers a handler invoked after every persisted mutation,
// with the affected cart key. The returned function unsubscribes.
func (s *Service) Subscribe(fn func(cartKey string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) persist(ctx context.Context, key string, lines domain.Lines) error {
	data, err := json.Marshal(envelope{Version: envelopeVersion, Lines: lines})
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.store.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.notify(key)
	return nil
}

func (s *Service) notify(key string) {
	s.mu.Lock()
	handlers := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		handlers = append(handlers, fn)
	}
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(key)
	}
}

func (s *Service) decode(key string, raw []byte) domain.Lines {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Version >= envelopeVersion {
		if env.Lines == nil {
			return domain.Lines{}
		}
		return env.Lines
	}

	if lines, ok := migrateLegacy(raw); ok {
		s.log.Info("migrated legacy cart payload", logger.String("cart_key", key), logger.Int("lines", len(lines)))
		return lines
	}

	s.log.Warn("discarding malformed cart payload", logger.String("cart_key", key))
	return domain.Lines{}
}
