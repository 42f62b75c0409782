// Package auth registro, login y resolución de tokens (AuthGate).
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/domain/repository"
	"github.com/jhoicas/Cotiza-api/pkg/jwt"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// LoginThrottle bloqueo temporal tras intentos fallidos. Es opcional (nil = sin bloqueo).
type LoginThrottle interface {
	Locked(ctx context.Context, identity string) (bool, error)
	RecordFailure(ctx context.Context, identity string) (bool, error)
	Reset(ctx context.Context, identity string) error
}

// AuthUseCase casos de uso de autenticación: registro, login y resolución de token.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	jwtCfg    JWTConfig
	throttle  LoginThrottle
	log       *logger.Logger
	cost      int
	dummyHash []byte
	now       func() time.Time
}

// Option configura AuthUseCase.
type Option func(*AuthUseCase)

// WithThrottle activa el bloqueo por intentos fallidos.
func WithThrottle(t LoginThrottle) Option {
	return func(uc *AuthUseCase) { uc.throttle = t }
}

// WithBcryptCost cambia el costo de bcrypt (los tests usan bcrypt.MinCost).
func WithBcryptCost(cost int) Option {
	return func(uc *AuthUseCase) { uc.cost = cost }
}

// WithLogger usa log en lugar de un logger nulo.
func WithLogger(log *logger.Logger) Option {
	return func(uc *AuthUseCase) {
		if log != nil {
			uc.log = log.Component("auth")
		}
	}
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, opts ...Option) (*AuthUseCase, error) {
	if jwtCfg.Secret == "" {
		return nil, jwt.ErrEmptySecret
	}
	uc := &AuthUseCase{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		log:      logger.Nop().Component("auth"),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	// Hash de referencia para igualar el tiempo de respuesta cuando el email no existe
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), uc.cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash de referencia: %w", err)
	}
	uc.dummyHash = hash
	return uc, nil
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve domain.ErrDuplicateIdentity si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	role := entity.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	case len(in.Password) < 8:
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	case strings.TrimSpace(in.CompanyName) == "":
		return nil, fmt.Errorf("%w: company_name es requerido", domain.ErrInvalidInput)
	case !role.Valid():
		return nil, fmt.Errorf("%w: rol %q no válido", domain.ErrInvalidInput, in.Role)
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateIdentity
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, fmt.Errorf("hash de contraseña: %w", err)
	}
	now := uc.now().UTC()
	user := &entity.User{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  string(hash),
		CompanyName:   strings.TrimSpace(in.CompanyName),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         strings.TrimSpace(in.Phone),
		Role:          role,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// La unicidad final la garantiza el repositorio (registro concurrente)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("usuario registrado")
	return dto.ToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y contraseña incorrecta son indistinguibles (mismo error, mismo costo bcrypt).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := entity.NormalizeEmail(in.Email)

	if uc.throttle != nil {
		locked, err := uc.throttle.Locked(ctx, email)
		if err != nil {
			uc.log.Warn().Err(err).Msg("bloqueo de login no disponible, se continúa sin él")
		} else if locked {
			uc.log.Warn().Str("email", email).Msg("login bloqueado por intentos fallidos")
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	hash := uc.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)); err != nil || user == nil {
		uc.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrInactiveAccount
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	if uc.throttle != nil {
		if err := uc.throttle.Reset(ctx, email); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo limpiar el contador de login")
		}
	}
	uc.log.Info().Str("user_id", user.ID).Msg("login exitoso")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   uc.jwtCfg.ExpMinutes * 60,
		User:        *dto.ToUserResponse(user),
	}, nil
}

// Resolve valida el token y devuelve el usuario vigente. Sin efectos secundarios.
// Firma inválida, token vencido, usuario inexistente o inactivo => domain.ErrInvalidToken.
func (uc *AuthUseCase) Resolve(ctx context.Context, token string) (*entity.User, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil || !user.Active {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (uc *AuthUseCase) recordFailure(ctx context.Context, email string) {
	if uc.throttle == nil {
		return
	}
	locked, err := uc.throttle.RecordFailure(ctx, email)
	switch {
	case err != nil:
		uc.log.Warn().Err(err).Msg("no se pudo registrar el intento fallido")
	case locked:
		uc.log.Warn().Str("email", email).Msg("identidad bloqueada por intentos fallidos")
	default:
		uc.log.Debug().Str("email", email).Msg("login fallido")
	}
}

// ChangePassword reemplaza el hash de la contraseña del usuario autenticado tras verificar la actual.
// Los tokens ya emitidos siguen vigentes hasta su expiración.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, user *entity.User, in dto.ChangePasswordRequest) error {
	if user == nil {
		return domain.ErrInvalidToken
	}
	if len(in.NewPassword) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	current, err := uc.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("buscar usuario: %w", err)
	}
	if current == nil || !current.Active {
		return domain.ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.cost)
	if err != nil {
		return fmt.Errorf("hash de contraseña: %w", err)
	}
	current.PasswordHash = string(hash)
	current.UpdatedAt = uc.now().UTC()
	if err := uc.userRepo.Update(ctx, current); err != nil {
		return fmt.Errorf("actualizar usuario: %w", err)
	}
	uc.log.Info().Str("user_id", current.ID).Msg("contraseña actualizada")
	return nil
}
