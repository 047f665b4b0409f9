package service

import (
	"context"
	"testing"

	"tiendapos/internal/config"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) List(context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func authFixture() (AuthService, *fakeUserRepo, *config.Config) {
	repo := newFakeUserRepo()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 8}
	return NewAuthService(repo, cfg), repo, cfg
}

func TestLogin(t *testing.T) {
	svc, _, cfg := authFixture()

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "maria",
		Name:     "María",
		Password: "secret123",
		Role:     model.RoleCashier,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "maria",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria", resp.User.Username)
	assert.Equal(t, model.RoleCashier, resp.User.Role)

	// Token is valid and carries the expected claims.
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "maria", claims["username"])
	assert.Equal(t, model.RoleCashier, claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := authFixture()

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "maria", Name: "María", Password: "secret123", Role: model.RoleCashier,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "maria", Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, _, _ := authFixture()

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "maria", Name: "María", Password: "secret123", Role: model.RoleCashier,
	})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "maria", resp.User.Username)
}

func TestRefreshDeactivatedUser(t *testing.T) {
	svc, repo, _ := authFixture()

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "maria", Name: "María", Password: "secret123", Role: model.RoleCashier,
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	require.NoError(t, repo.Deactivate(context.Background(), id))

	_, err = svc.Refresh(context.Background(), id)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownOrDeactivatedUser(t *testing.T) {
	svc, repo, _ := authFixture()

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "maria", Name: "María", Password: "secret123", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(context.Background(), uuid.MustParse(created.ID)))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
