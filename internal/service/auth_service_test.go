package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amare53/school-sub001/internal/config"
	"github.com/amare53/school-sub001/internal/dto"
	"github.com/amare53/school-sub001/internal/model"
	"github.com/amare53/school-sub001/internal/repository"
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
	return nil, errors.New("record not found")
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) List(_ context.Context, schoolID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.SchoolID == schoolID && u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListAll(_ context.Context, schoolID uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.SchoolID == schoolID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *fakeUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, schoolID uuid.UUID, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		SchoolID:     schoolID,
		Username:     username,
		FullName:     "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	schoolID := uuid.New()
	seedUser(t, repo, schoolID, "cashier1", "secret1234", model.RoleCashier)
	svc := NewAuthService(repo, testAuthConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "secret1234"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RoleCashier, resp.User.Role)

	// Token must carry the tenant scope
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, schoolID.String(), claims["school_id"])
	assert.Equal(t, "cashier1", claims["username"])
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, uuid.New(), "cashier1", "secret1234", model.RoleCashier)
	svc := NewAuthService(repo, testAuthConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "wrong"})
	assert.ErrorContains(t, err, "invalid credentials")

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "secret1234"})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, uuid.New(), "cashier1", "secret1234", model.RoleCashier)
	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))
	svc := NewAuthService(repo, testAuthConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "secret1234"})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, uuid.New(), "cashier1", "secret1234", model.RoleCashier)
	svc := NewAuthService(repo, testAuthConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "secret1234"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "cashier1", refreshed.User.Username)
}

func TestRefreshGarbageToken(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testAuthConfig())
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestRefreshDeactivatedUser(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, uuid.New(), "cashier1", "secret1234", model.RoleCashier)
	svc := NewAuthService(repo, testAuthConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "secret1234"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(context.Background(), u.ID))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testAuthConfig())
	schoolID := uuid.New()

	resp, err := svc.CreateUser(context.Background(), schoolID, dto.CreateUserRequest{
		Username: "supervisor1",
		FullName: "Super Visor",
		Password: "longenoughpw",
		Role:     model.RoleSupervisor,
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)
	assert.Equal(t, schoolID.String(), resp.SchoolID)

	stored, err := repo.FindByUsername(context.Background(), "supervisor1")
	require.NoError(t, err)
	assert.NotEqual(t, "longenoughpw", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenoughpw")))
}

func TestUpdateUserScopedToSchool(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, uuid.New(), "cashier1", "secret1234", model.RoleCashier)
	svc := NewAuthService(repo, testAuthConfig())

	// Admin of another school cannot touch the user
	_, err := svc.UpdateUser(context.Background(), uuid.New(), u.ID, dto.UpdateUserRequest{Role: model.RoleSupervisor})
	assert.ErrorContains(t, err, "user not found")

	resp, err := svc.UpdateUser(context.Background(), u.SchoolID, u.ID, dto.UpdateUserRequest{Role: model.RoleSupervisor})
	require.NoError(t, err)
	assert.Equal(t, model.RoleSupervisor, resp.Role)
}

func TestDeactivateReactivateUser(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, uuid.New(), "cashier1", "secret1234", model.RoleCashier)
	svc := NewAuthService(repo, testAuthConfig())

	require.NoError(t, svc.DeactivateUser(context.Background(), u.SchoolID, u.ID))
	active, err := svc.ListUsers(context.Background(), u.SchoolID, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListUsers(context.Background(), u.SchoolID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.ReactivateUser(context.Background(), u.SchoolID, u.ID))
	active, err = svc.ListUsers(context.Background(), u.SchoolID, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
