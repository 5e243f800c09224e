package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkhiriev/go-todo-vault/internal/config"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/internal/store"
	"github.com/mkhiriev/go-todo-vault/internal/utils"
	"github.com/mkhiriev/go-todo-vault/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createUserFn      func(ctx context.Context, user models.User) (models.User, error)
	findUserByEmailFn func(ctx context.Context, email string) (models.User, error)
	getUserFn         func(ctx context.Context, userID int64) (models.User, error)
	updateUserFn      func(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error)
	deleteUserFn      func(ctx context.Context, userID int64) error
	setAvatarFn       func(ctx context.Context, userID int64, avatar []byte) error
	getAvatarFn       func(ctx context.Context, userID int64) ([]byte, error)
	deleteAvatarFn    func(ctx context.Context, userID int64) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findUserByEmailFn != nil {
		return m.findUserByEmailFn(ctx, email)
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (m *mockUserRepository) GetUser(ctx context.Context, userID int64) (models.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return models.User{UserID: userID}, nil
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(ctx, userID, update)
	}
	return models.User{UserID: userID}, nil
}

func (m *mockUserRepository) DeleteUser(ctx context.Context, userID int64) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, userID)
	}
	return nil
}

func (m *mockUserRepository) SetAvatar(ctx context.Context, userID int64, avatar []byte) error {
	if m.setAvatarFn != nil {
		return m.setAvatarFn(ctx, userID, avatar)
	}
	return nil
}

func (m *mockUserRepository) GetAvatar(ctx context.Context, userID int64) ([]byte, error) {
	if m.getAvatarFn != nil {
		return m.getAvatarFn(ctx, userID)
	}
	return nil, store.ErrAvatarNotFound
}

func (m *mockUserRepository) DeleteAvatar(ctx context.Context, userID int64) error {
	if m.deleteAvatarFn != nil {
		return m.deleteAvatarFn(ctx, userID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.SessionRepository
// ─────────────────────────────────────────────

// memorySessionRepository is a map-backed SessionRepository that lets the
// issue → authenticate → revoke round trips run against real set semantics.
type memorySessionRepository struct {
	sessions map[int64]map[string]struct{}
}

func newMemorySessionRepository() *memorySessionRepository {
	return &memorySessionRepository{sessions: make(map[int64]map[string]struct{})}
}

func (m *memorySessionRepository) AddSession(_ context.Context, userID int64, sessionID string) error {
	if m.sessions[userID] == nil {
		m.sessions[userID] = make(map[string]struct{})
	}
	m.sessions[userID][sessionID] = struct{}{}
	return nil
}

func (m *memorySessionRepository) RemoveSession(_ context.Context, userID int64, sessionID string) error {
	delete(m.sessions[userID], sessionID)
	return nil
}

func (m *memorySessionRepository) ClearSessions(_ context.Context, userID int64) error {
	delete(m.sessions, userID)
	return nil
}

func (m *memorySessionRepository) HasActiveSession(_ context.Context, userID int64, sessionID string) (bool, error) {
	_, ok := m.sessions[userID][sessionID]
	return ok, nil
}

func testAppConfig() config.App {
	return config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "todo-vault-test",
		TokenDuration: time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
}

func newTestAuthService(users store.UserRepository, sessions store.SessionRepository) AuthService {
	return NewAuthService(users, sessions, testAppConfig(), logger.Nop())
}

// ─────────────────────────────────────────────
// Register
// ─────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	var storedUser models.User
	users := &mockUserRepository{
		createUserFn: func(_ context.Context, user models.User) (models.User, error) {
			storedUser = user
			user.UserID = 1
			return user, nil
		},
	}
	svc := newTestAuthService(users, newMemorySessionRepository())

	registered, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "John",
		Email:    "  John@Example.COM ",
		Password: "qwerty123",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), registered.UserID)
	assert.Equal(t, "john@example.com", storedUser.Email, "email must be stored normalized")
	assert.NotEmpty(t, storedUser.PasswordHash)
	assert.NotEqual(t, "qwerty123", storedUser.PasswordHash, "plaintext password must never reach the store")

	matches, err := utils.VerifyPassword("qwerty123", storedUser.PasswordHash)
	require.NoError(t, err)
	assert.True(t, matches, "stored hash must verify against the original password")
}

func TestAuthService_Register_InvalidData(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, newMemorySessionRepository())

	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"empty name", models.RegisterRequest{Name: "", Email: "a@b.com", Password: "pass"}},
		{"empty email", models.RegisterRequest{Name: "John", Email: "", Password: "pass"}},
		{"malformed email", models.RegisterRequest{Name: "John", Email: "not-an-email", Password: "pass"}},
		{"empty password", models.RegisterRequest{Name: "John", Email: "a@b.com", Password: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	users := &mockUserRepository{
		createUserFn: func(_ context.Context, _ models.User) (models.User, error) {
			return models.User{}, store.ErrEmailAlreadyExists
		},
	}
	svc := newTestAuthService(users, newMemorySessionRepository())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "John",
		Email:    "taken@example.com",
		Password: "qwerty123",
	})

	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func storedTestUser(t *testing.T, password string) models.User {
	t.Helper()

	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	return models.User{
		UserID:       42,
		Name:         "John",
		Email:        "john@example.com",
		PasswordHash: hash,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	user := storedTestUser(t, "qwerty123")
	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			require.Equal(t, "john@example.com", email, "lookup must use the normalized email")
			return user, nil
		},
	}
	svc := newTestAuthService(users, newMemorySessionRepository())

	found, err := svc.Login(context.Background(), "John@Example.com", "qwerty123")

	require.NoError(t, err)
	assert.Equal(t, user.UserID, found.UserID)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{}, store.ErrNoUserWasFound
		},
	}
	svc := newTestAuthService(users, newMemorySessionRepository())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.NotErrorIs(t, err, store.ErrNoUserWasFound, "store detail must not leak to the caller")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := storedTestUser(t, "correct-password")
	users := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (models.User, error) {
			return user, nil
		},
	}
	svc := newTestAuthService(users, newMemorySessionRepository())

	_, err := svc.Login(context.Background(), "john@example.com", "wrong-password")

	// wrong password and unknown email must be indistinguishable
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_Login_InvalidInput(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, newMemorySessionRepository())

	_, err := svc.Login(context.Background(), "not-an-email", "pass")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Login(context.Background(), "john@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ─────────────────────────────────────────────
// Issue / Authenticate / Revoke
// ─────────────────────────────────────────────

func TestAuthService_IssueAuthenticateRoundTrip(t *testing.T) {
	sessions := newMemorySessionRepository()
	svc := newTestAuthService(&mockUserRepository{}, sessions)

	token, err := svc.Issue(context.Background(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	userID, err := svc.Authenticate(context.Background(), token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestAuthService_Authenticate_GarbageToken(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, newMemorySessionRepository())

	_, err := svc.Authenticate(context.Background(), "not.a.token")

	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_Authenticate_WrongKey(t *testing.T) {
	sessions := newMemorySessionRepository()
	svc := newTestAuthService(&mockUserRepository{}, sessions)

	otherCfg := testAppConfig()
	otherCfg.TokenSignKey = "another-sign-key"
	otherSvc := NewAuthService(&mockUserRepository{}, sessions, otherCfg, logger.Nop())

	token, err := otherSvc.Issue(context.Background(), 42)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_Authenticate_RevokedSession(t *testing.T) {
	sessions := newMemorySessionRepository()
	svc := newTestAuthService(&mockUserRepository{}, sessions)

	token, err := svc.Issue(context.Background(), 42)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), token.SignedString))

	// the signature still verifies; rejection comes from the session set
	_, err = svc.Authenticate(context.Background(), token.SignedString)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestAuthService_Revoke_OtherSessionsSurvive(t *testing.T) {
	sessions := newMemorySessionRepository()
	svc := newTestAuthService(&mockUserRepository{}, sessions)

	first, err := svc.Issue(context.Background(), 42)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), 42)
	require.NoError(t, err)
	require.NotEqual(t, first.SessionID, second.SessionID)

	require.NoError(t, svc.Revoke(context.Background(), first.SignedString))

	_, err = svc.Authenticate(context.Background(), first.SignedString)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	userID, err := svc.Authenticate(context.Background(), second.SignedString)
	require.NoError(t, err, "revocation must only touch the presented session")
	assert.Equal(t, int64(42), userID)
}

func TestAuthService_Revoke_Idempotent(t *testing.T) {
	sessions := newMemorySessionRepository()
	svc := newTestAuthService(&mockUserRepository{}, sessions)

	token, err := svc.Issue(context.Background(), 42)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), token.SignedString))
	assert.NoError(t, svc.Revoke(context.Background(), token.SignedString), "second revoke must succeed silently")
}

func TestAuthService_Revoke_MalformedToken(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{}, newMemorySessionRepository())

	err := svc.Revoke(context.Background(), "garbage")

	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_Issue_SessionStoreFailure(t *testing.T) {
	sessionErr := errors.New("connection refused")
	failing := &mockSessionRepository{
		addSessionFn: func(_ context.Context, _ int64, _ string) error {
			return sessionErr
		},
	}
	svc := newTestAuthService(&mockUserRepository{}, failing)

	_, err := svc.Issue(context.Background(), 42)

	assert.ErrorIs(t, err, sessionErr)
}

// mockSessionRepository is the function-field variant for failure injection;
// round-trip tests use memorySessionRepository instead.
type mockSessionRepository struct {
	addSessionFn       func(ctx context.Context, userID int64, sessionID string) error
	removeSessionFn    func(ctx context.Context, userID int64, sessionID string) error
	clearSessionsFn    func(ctx context.Context, userID int64) error
	hasActiveSessionFn func(ctx context.Context, userID int64, sessionID string) (bool, error)
}

func (m *mockSessionRepository) AddSession(ctx context.Context, userID int64, sessionID string) error {
	if m.addSessionFn != nil {
		return m.addSessionFn(ctx, userID, sessionID)
	}
	return nil
}

func (m *mockSessionRepository) RemoveSession(ctx context.Context, userID int64, sessionID string) error {
	if m.removeSessionFn != nil {
		return m.removeSessionFn(ctx, userID, sessionID)
	}
	return nil
}

func (m *mockSessionRepository) ClearSessions(ctx context.Context, userID int64) error {
	if m.clearSessionsFn != nil {
		return m.clearSessionsFn(ctx, userID)
	}
	return nil
}

func (m *mockSessionRepository) HasActiveSession(ctx context.Context, userID int64, sessionID string) (bool, error) {
	if m.hasActiveSessionFn != nil {
		return m.hasActiveSessionFn(ctx, userID, sessionID)
	}
	return true, nil
}
