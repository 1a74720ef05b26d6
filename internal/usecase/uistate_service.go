package usecase

import (
	"context"
	"fmt"
	"regexp"

	"github.com/scoutlens/scoutlens/internal/infrastructure/uistate"
)

const maxStateDocBytes = 256 << 10

var stateKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// UIStateService stores per-key client state documents: filter selections,
// pinned players, scatter axes, whatever the client wants to survive a
// restart.
type UIStateService struct {
	store *uistate.Store
}

func NewUIStateService(store *uistate.Store) *UIStateService {
	return &UIStateService{store: store}
}

func (s *UIStateService) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UIStateService.Get")
	defer span.End()

	if !stateKeyPattern.MatchString(key) {
		return nil, fmt.Errorf("%w: invalid state key %q", ErrInvalidInput, key)
	}

	doc, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: state key=%s", ErrNotFound, key)
	}

	return doc, nil
}

func (s *UIStateService) Put(ctx context.Context, key string, doc []byte) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UIStateService.Put")
	defer span.End()

	if !stateKeyPattern.MatchString(key) {
		return fmt.Errorf("%w: invalid state key %q", ErrInvalidInput, key)
	}
	if len(doc) == 0 {
		return fmt.Errorf("%w: state document is empty", ErrInvalidInput)
	}
	if len(doc) > maxStateDocBytes {
		return fmt.Errorf("%w: state document exceeds %d bytes", ErrInvalidInput, maxStateDocBytes)
	}

	if err := s.store.Put(ctx, key, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}

func (s *UIStateService) Delete(ctx context.Context, key string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UIStateService.Delete")
	defer span.End()

	if !stateKeyPattern.MatchString(key) {
		return fmt.Errorf("%w: invalid state key %q", ErrInvalidInput, key)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}

	return nil
}
