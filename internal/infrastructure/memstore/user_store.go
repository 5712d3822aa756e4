package memstore

import (
	"context"
	"sync"

	"github.com/janhq/chat-assistant/internal/domain/user"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

var _ user.UserRepository = (*UserStore)(nil)

type UserStore struct {
	mu     sync.RWMutex
	byID   map[string]*user.User
	byName map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:   make(map[string]*user.User),
		byName: make(map[string]string),
	}
}

func (s *UserStore) Create(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[u.Name]; taken {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "name already taken", nil, "9b7c1d2e-0f4a-4b5c-8d6e-7f8a9b0c1d2e")
	}
	copied := *u
	s.byID[u.ID] = &copied
	s.byName[u.Name] = u.ID
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *UserStore) FindByName(ctx context.Context, name string) (*user.User, error) {
	s.mu.RLock()
	id, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return s.FindByID(ctx, id)
}

func (s *UserStore) UpdateBackground(ctx context.Context, id, background string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	u.Background = background
	copied := *u
	return &copied, nil
}
