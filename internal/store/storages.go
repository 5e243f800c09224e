package store

import (
	"github.com/mkhiriev/go-todo-vault/internal/logger"
)

// Storages bundles every repository backed by the shared database handle.
type Storages struct {
	UserRepository    UserRepository
	SessionRepository SessionRepository
	TodoRepository    TodoRepository
}

// NewStorages wires all repositories to the given database connection.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:    NewUserRepository(db, logger),
		SessionRepository: NewSessionRepository(db, logger),
		TodoRepository:    NewTodoRepository(db, logger),
	}
}
