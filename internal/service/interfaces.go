package service

import (
	"context"
	"net/url"

	"github.com/mkhiriev/go-todo-vault/models"
)

// AuthService covers the whole session lifecycle: credential verification,
// signed-session issuance, per-request authentication and revocation.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, error)

	// Issue mints a fresh session for the user: an unguessable session id is
	// recorded in the store and bound into a signed token.
	Issue(ctx context.Context, userID int64) (models.Token, error)

	// Authenticate resolves a presented token to a user id. The token must
	// pass both the stateless check (signature, expiry, issuer) and the
	// store-backed check that its session is still active.
	Authenticate(ctx context.Context, tokenString string) (int64, error)

	// Revoke removes the session carried by the token. Revoking an already
	// revoked session is a no-op; a malformed token is an error.
	Revoke(ctx context.Context, tokenString string) error
}

// UserService covers profile reads and writes for a resolved identity.
type UserService interface {
	GetUser(ctx context.Context, userID int64) (models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error)

	// DeleteAccount removes the user and cascades to owned todos and active
	// sessions.
	DeleteAccount(ctx context.Context, userID int64) error

	SetAvatar(ctx context.Context, userID int64, avatar []byte) error
	GetAvatar(ctx context.Context, userID int64) ([]byte, error)
	DeleteAvatar(ctx context.Context, userID int64) error
}

// TodoService is the ownership-scoped query engine: every operation takes
// the resolved owner id and restricts reads and writes to that owner's
// records.
type TodoService interface {
	CreateTodo(ctx context.Context, ownerID int64, req models.CreateTodoRequest) (models.Todo, error)
	ListTodos(ctx context.Context, ownerID int64, rawParams url.Values) ([]models.Todo, error)
	GetTodo(ctx context.Context, ownerID, todoID int64) (models.Todo, error)
	UpdateTodo(ctx context.Context, ownerID, todoID int64, update models.TodoUpdate) (models.Todo, error)
	DeleteTodo(ctx context.Context, ownerID, todoID int64) (models.Todo, error)
}
