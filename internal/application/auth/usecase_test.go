package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/facturation-ci/internal/application/auth"
	"github.com/jhoicas/facturation-ci/internal/application/dto"
	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/domain/entity"
	"github.com/jhoicas/facturation-ci/pkg/jwt"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (m *memUsers) Create(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Username] = u
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[username], nil
}

func (m *memUsers) List(ctx context.Context, limit, offset int) ([]*entity.User, error) { return nil, nil }

func (m *memUsers) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func newAuth() (*auth.AuthUseCase, *memUsers) {
	repo := &memUsers{users: map[string]*entity.User{}}
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: "secreto", ExpMinutes: 60, Issuer: "test"}).
		WithBcryptCost(bcrypt.MinCost)
	return uc, repo
}

func TestBootstrapAdmin_SoloSiNoHayUsuarios(t *testing.T) {
	uc, repo := newAuth()
	ctx := context.Background()

	created, err := uc.BootstrapAdmin(ctx, "motdepasse")
	require.NoError(t, err)
	assert.True(t, created)
	require.Contains(t, repo.users, auth.AdminUsername)
	assert.NotEqual(t, "motdepasse", repo.users[auth.AdminUsername].PasswordHash, "nunca se guarda en claro")

	created, err = uc.BootstrapAdmin(ctx, "motdepasse")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestBootstrapAdmin_SinPassword(t *testing.T) {
	uc, _ := newAuth()
	_, err := uc.BootstrapAdmin(context.Background(), "")
	assert.Error(t, err)
}

func TestLogin_TokenConRolYPermisos(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Username: "awa", Password: "12345678", Role: entity.RoleVendeur})
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Username: "awa", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendeur, resp.User.Role)
	assert.Contains(t, resp.Permissions, entity.PermInvoicesCreate)
	assert.NotContains(t, resp.Permissions, entity.PermInvoicesEdit, "el vendeur no certifica")

	userID, role, err := jwt.Parse("secreto", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, entity.RoleVendeur, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, repo := newAuth()
	ctx := context.Background()
	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Username: "awa", Password: "12345678", Role: entity.RoleComptable})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "awa", Password: "mauvais"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	repo.users["awa"].IsActive = false
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "awa", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateUser_Duplicado(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	in := dto.CreateUserRequest{Username: "awa", Password: "12345678", Role: entity.RoleVendeur}
	_, err := uc.CreateUser(ctx, in)
	require.NoError(t, err)
	_, err = uc.CreateUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	in.Role = "bodeguero"
	in.Username = "otro"
	_, err = uc.CreateUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
