package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
	"github.com/jhoicas/Cotiza-api/internal/domain"
	"github.com/jhoicas/Cotiza-api/internal/domain/entity"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cotiza-api/pkg/jwt"
)

const secret = "test-secret"

type fakeThrottle struct {
	mu       sync.Mutex
	max      int
	failures map[string]int
}

func (f *fakeThrottle) Locked(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[id] >= f.max, nil
}

func (f *fakeThrottle) RecordFailure(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id]++
	return f.failures[id] >= f.max, nil
}

func (f *fakeThrottle) Reset(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, id)
	return nil
}

func newAuth(t *testing.T, opts ...auth.Option) (*auth.AuthUseCase, *memory.UserRepo) {
	t.Helper()
	repo := memory.NewUserRepo(memory.NewStore())
	opts = append([]auth.Option{auth.WithBcryptCost(bcrypt.MinCost)}, opts...)
	uc, err := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "cotiza-api"}, opts...)
	require.NoError(t, err)
	return uc, repo
}

func registerReq(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Email: email, Password: "supersecreta", CompanyName: "Acme", Role: "buyer",
	}
}

func TestNewAuthUseCase_SinSecreto(t *testing.T) {
	_, err := auth.NewAuthUseCase(memory.NewUserRepo(memory.NewStore()), auth.JWTConfig{})
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

func TestRegisterUser_NormalizaYNoExponeHash(t *testing.T) {
	uc, repo := newAuth(t)
	ctx := context.Background()

	out, err := uc.RegisterUser(ctx, registerReq("  Ana@Acme.CO "))
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.co", out.Email)
	assert.Equal(t, "buyer", out.Role)
	assert.True(t, out.IsActive)

	stored, err := repo.GetByEmail(ctx, "ana@acme.co")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "supersecreta", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("supersecreta")))
}

func TestRegisterUser_Duplicado(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, registerReq("ana@acme.co"))
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, registerReq("ANA@acme.co"))
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestRegisterUser_Validaciones(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	// Caso 1: rol desconocido
	in := registerReq("a@acme.co")
	in.Role = "root"
	_, err := uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Caso 2: contraseña corta
	in = registerReq("a@acme.co")
	in.Password = "123"
	_, err = uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Caso 3: email inválido
	_, err = uc.RegisterUser(ctx, registerReq("sin-arroba"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_YResolve(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	reg, err := uc.RegisterUser(ctx, registerReq("ana@acme.co"))
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@acme.co", Password: "supersecreta"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, 1800, out.ExpiresIn)
	assert.Equal(t, reg.ID, out.User.ID)

	user, err := uc.Resolve(ctx, out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, user.ID)
	assert.Equal(t, entity.RoleBuyer, user.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, registerReq("ana@acme.co"))
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// email desconocido: mismo error
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@acme.co", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	uc, repo := newAuth(t)
	ctx := context.Background()
	reg, err := uc.RegisterUser(ctx, registerReq("ana@acme.co"))
	require.NoError(t, err)
	login, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.co", Password: "supersecreta"})
	require.NoError(t, err)

	u, _ := repo.GetByID(ctx, reg.ID)
	u.Active = false
	require.NoError(t, repo.Update(ctx, u))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.co", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrInactiveAccount)

	// el token emitido antes deja de resolver
	_, err = uc.Resolve(ctx, login.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestResolve_TokenInvalido(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Resolve(ctx, "basura")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// firmado con otro secreto
	other, err := jwt.Generate("otro", "u1", "a@b.co", "buyer", "x", 5)
	require.NoError(t, err)
	_, err = uc.Resolve(ctx, other)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// usuario que ya no existe
	ghost, err := jwt.Generate(secret, "ghost", "g@b.co", "buyer", "x", 5)
	require.NoError(t, err)
	_, err = uc.Resolve(ctx, ghost)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogin_BloqueoPorIntentos(t *testing.T) {
	throttle := &fakeThrottle{max: 3, failures: map[string]int{}}
	uc, _ := newAuth(t, auth.WithThrottle(throttle))
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, registerReq("ana@acme.co"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.co", Password: "mal"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	// bloqueado incluso con la contraseña correcta
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.co", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

	require.NoError(t, throttle.Reset(ctx, "ana@acme.co"))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.co", Password: "supersecreta"})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	uc, repo := newAuth(t)
	ctx := context.Background()
	reg, err := uc.RegisterUser(ctx, registerReq("ana@acme.co"))
	require.NoError(t, err)
	user, err := repo.GetByID(ctx, reg.ID)
	require.NoError(t, err)

	// Caso 1: contraseña actual incorrecta
	err = uc.ChangePassword(ctx, user, dto.ChangePasswordRequest{CurrentPassword: "otra-cosa", NewPassword: "nuevaclave1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Caso 2: nueva demasiado corta
	err = uc.ChangePassword(ctx, user, dto.ChangePasswordRequest{CurrentPassword: "supersecreta", NewPassword: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Caso 3: sin usuario autenticado
	err = uc.ChangePassword(ctx, nil, dto.ChangePasswordRequest{CurrentPassword: "supersecreta", NewPassword: "nuevaclave1"})
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// Caso 4: cambio correcto; solo la nueva sirve para login
	require.NoError(t, uc.ChangePassword(ctx, user, dto.ChangePasswordRequest{CurrentPassword: "supersecreta", NewPassword: "nuevaclave1"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.co", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.co", Password: "nuevaclave1"})
	assert.NoError(t, err)
}
