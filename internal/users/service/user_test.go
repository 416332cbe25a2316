package service

import (
	"context"
	"io"
	"testing"
	"time"

	userserrors "fleetbook/internal/users/errors"
	"fleetbook/internal/users/repository"
	"fleetbook/pkg/auth"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Output: io.Discard}),
	}
}

// mockUserRepository stores users in memory.
type mockUserRepository struct {
	users    map[string]*model.User
	createFn func(ctx context.Context, user *model.User) error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*model.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	if _, exists := m.users[user.Username]; exists {
		return userserrors.ErrDuplicateUsername
	}
	user.ID = "65c000000000000000000001"
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, userserrors.ErrNotFound
	}
	return user, nil
}

var _ repository.UserRepository = (*mockUserRepository)(nil)

func newTestService(repo repository.UserRepository) UserService {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewUserService(testConfig(), repo, issuer)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("error code = %s, want %s (err: %v)", appErr.Code, code, err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestService(repo)

	creds := &model.Credentials{Username: "alice", Password: "correct-horse-battery"}
	user, err := svc.Register(context.Background(), creds)
	if err != nil {
		t.Fatalf("Register(): %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("username = %s, want alice", user.Username)
	}
	if user.IsAdmin {
		t.Errorf("self-registered users must not be admins")
	}
	if user.PasswordHash == creds.Password || user.PasswordHash == "" {
		t.Errorf("password must be stored hashed")
	}

	token, err := svc.Login(context.Background(), creds)
	if err != nil {
		t.Fatalf("Login(): %v", err)
	}
	if token.Token == "" {
		t.Errorf("expected a session token")
	}
	if token.Username != "alice" || token.IsAdmin {
		t.Errorf("token response = %+v, want alice non-admin", token)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		creds *model.Credentials
	}{
		{"missing username", &model.Credentials{Password: "correct-horse-battery"}},
		{"short username", &model.Credentials{Username: "al", Password: "correct-horse-battery"}},
		{"missing password", &model.Credentials{Username: "alice"}},
		{"short password", &model.Credentials{Username: "alice", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newMockUserRepository())
			_, err := svc.Register(context.Background(), tt.creds)
			assertAppErrorCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestService(repo)

	creds := &model.Credentials{Username: "alice", Password: "correct-horse-battery"}
	if _, err := svc.Register(context.Background(), creds); err != nil {
		t.Fatalf("first Register(): %v", err)
	}

	_, err := svc.Register(context.Background(), creds)
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestLoginFailures(t *testing.T) {
	repo := newMockUserRepository()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), &model.Credentials{Username: "alice", Password: "correct-horse-battery"}); err != nil {
		t.Fatalf("Register(): %v", err)
	}

	tests := []struct {
		name  string
		creds *model.Credentials
	}{
		{"unknown user", &model.Credentials{Username: "mallory", Password: "correct-horse-battery"}},
		{"wrong password", &model.Credentials{Username: "alice", Password: "wrong-password-here"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.creds)
			assertAppErrorCode(t, err, apperrors.CodeUnauthorized)
		})
	}
}
