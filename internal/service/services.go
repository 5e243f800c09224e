package service

import (
	"github.com/mkhiriev/go-todo-vault/internal/config"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/internal/store"
)

type Services struct {
	AuthService AuthService
	UserService UserService
	TodoService TodoService
}

func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(storages.UserRepository, storages.SessionRepository, cfg, logger),
		UserService: NewUserService(storages.UserRepository, cfg, logger),
		TodoService: NewTodoService(storages.TodoRepository, logger),
	}
}
