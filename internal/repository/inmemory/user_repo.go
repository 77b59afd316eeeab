package inmemory

import (
	"context"
	"sync"
	"time"

	"taskflow/internal/models"
	repo "taskflow/internal/repository"

	"github.com/google/uuid"
)

type UserStorage struct {
	storage map[uuid.UUID]*models.User
	mtx     *sync.RWMutex
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		storage: make(map[uuid.UUID]*models.User),
		mtx:     &sync.RWMutex{},
	}
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *models.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, u := range s.storage {
		if u.Username == userToCreate.Username || u.Email == userToCreate.Email {
			return repo.ErrDuplicate
		}
	}

	userToCreate.CreatedAt = time.Now()

	stored := *userToCreate
	s.storage[stored.ID] = &stored
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	found := *u
	return &found, nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, u := range s.storage {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *UserStorage) Update(ctx context.Context, userToUpdate *models.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[userToUpdate.ID]; !ok {
		return repo.ErrNotFound
	}

	for _, u := range s.storage {
		if u.ID == userToUpdate.ID {
			continue
		}
		if u.Username == userToUpdate.Username || u.Email == userToUpdate.Email {
			return repo.ErrDuplicate
		}
	}

	stored := *userToUpdate
	s.storage[stored.ID] = &stored
	return nil
}

func (s *UserStorage) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	u, ok := s.storage[id]
	if !ok {
		return repo.ErrNotFound
	}

	u.PasswordHash = passwordHash
	return nil
}

func (s *UserStorage) ExistsOther(ctx context.Context, excludeID uuid.UUID, username, email string) (bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, u := range s.storage {
		if u.ID == excludeID {
			continue
		}
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
