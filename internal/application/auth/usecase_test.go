package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suestoque-api/internal/application/auth"
	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/testutil/memstore"
	"github.com/jhoicas/suestoque-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

func newAuth(store *memstore.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "suestoque-test"})
}

func TestRegisterYLogin(t *testing.T) {
	store := memstore.New()
	uc := newAuth(store)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Bodega@Tienda.co", Password: "clave-segura", Role: "bodeguero"})
	require.NoError(t, err)
	assert.Equal(t, "bodega@tienda.co", u.Email)
	assert.Equal(t, "bodega@tienda.co", u.Name)
	assert.Equal(t, "active", u.Status)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "bodega@tienda.co", Password: "clave-segura"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, "bodeguero", role)

	me, err := uc.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, me.Email)
}

func TestRegister_Validaciones(t *testing.T) {
	store := memstore.New()
	uc := newAuth(store)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "suficiente", Role: "gerente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "suficiente"})
	require.NoError(t, err)
	assert.Equal(t, "vendedor", u.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "A@B.CO", Password: "suficiente"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_Errores(t *testing.T) {
	store := memstore.New()
	uc := newAuth(store)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "caja@tienda.co", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "caja@tienda.co", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	sinSecreto := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{})
	_, err = sinSecreto.Login(ctx, dto.LoginRequest{Email: "caja@tienda.co", Password: "clave-segura"})
	assert.Error(t, err)
}
