package store

import (
	"context"

	"github.com/mkhiriev/go-todo-vault/models"
)

// UserRepository is the credential store: persisted user records together
// with their avatar blob. Email uniqueness is enforced at this layer.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUser(ctx context.Context, userID int64) (models.User, error)
	UpdateUser(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error)

	// DeleteUser removes the account and everything it owns (todos, active
	// sessions) in a single transaction.
	DeleteUser(ctx context.Context, userID int64) error

	SetAvatar(ctx context.Context, userID int64, avatar []byte) error
	GetAvatar(ctx context.Context, userID int64) ([]byte, error)
	DeleteAvatar(ctx context.Context, userID int64) error
}

// SessionRepository maintains the per-user set of active session ids.
// Membership in this set is what keeps a signed token valid: removing a
// session id revokes every token copy carrying it, expiry notwithstanding.
type SessionRepository interface {
	AddSession(ctx context.Context, userID int64, sessionID string) error

	// RemoveSession is idempotent: removing an absent session id is a no-op.
	RemoveSession(ctx context.Context, userID int64, sessionID string) error

	ClearSessions(ctx context.Context, userID int64) error
	HasActiveSession(ctx context.Context, userID int64, sessionID string) (bool, error)
}

// TodoRepository persists todos. Every method takes the owner id and
// intersects it with the query predicate; there is no way to reach another
// user's records through this interface.
type TodoRepository interface {
	CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error)
	FindTodos(ctx context.Context, ownerID int64, query models.TodoQuery) ([]models.Todo, error)
	GetTodo(ctx context.Context, ownerID, todoID int64) (models.Todo, error)
	UpdateTodo(ctx context.Context, ownerID, todoID int64, update models.TodoUpdate) (models.Todo, error)
	DeleteTodo(ctx context.Context, ownerID, todoID int64) (models.Todo, error)
}
