package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
)

// UserRepo implementa repository.UserRepository.
type UserRepo struct {
	s *Store
}

// NewUserRepo construye el repositorio.
func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

var _ repository.UserRepository = (*UserRepo)(nil)

// Create inserta el usuario. El email es único sin distinguir mayúsculas.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := entity.NormalizeEmail(u.Email)
	for _, rec := range r.s.users {
		if entity.NormalizeEmail(rec.val.Email) == email {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateIdentity, email)
		}
	}
	r.s.users[u.ID] = record[entity.User]{val: *u, seq: r.s.nextSeq()}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u := rec.val
	return &u, nil
}

// GetByEmail busca por email normalizado. (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rec := range r.s.users {
		if entity.NormalizeEmail(rec.val.Email) == email {
			u := rec.val
			return &u, nil
		}
	}
	return nil, nil
}

// Update persiste PasswordHash, Active y UpdatedAt.
func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.users[u.ID]
	if !ok {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, u.ID)
	}
	rec.val.PasswordHash = u.PasswordHash
	rec.val.Active = u.Active
	rec.val.UpdatedAt = u.UpdatedAt
	r.s.users[u.ID] = rec
	return nil
}
