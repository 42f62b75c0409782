package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/access"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, log: log.Component("users")}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, admin *entity.User, id string) (*dto.UserResponse, error) {
	if err := access.Authorize(admin, access.OpManageUsers); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	return dto.ToUserResponse(user), nil
}

// SetActive activa o desactiva una cuenta. Una cuenta inactiva no puede iniciar sesión
// y sus tokens dejan de resolverse en la siguiente petición.
func (uc *UserUseCase) SetActive(ctx context.Context, admin *entity.User, id string, in dto.SetUserStatusRequest) (*dto.UserResponse, error) {
	if err := access.Authorize(admin, access.OpManageUsers); err != nil {
		return nil, err
	}
	if in.Active == nil {
		return nil, fmt.Errorf("%w: is_active es requerido", domain.ErrInvalidInput)
	}
	if id == admin.ID && !*in.Active {
		return nil, fmt.Errorf("%w: un admin no puede desactivarse a sí mismo", domain.ErrInvalidInput)
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	if user.Active != *in.Active {
		user.Active = *in.Active
		user.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, user); err != nil {
			return nil, err
		}
		uc.log.Info().
			Str("user_id", user.ID).
			Str("admin_id", admin.ID).
			Bool("active", user.Active).
			Msg("estado de cuenta actualizado")
	}
	return dto.ToUserResponse(user), nil
}
