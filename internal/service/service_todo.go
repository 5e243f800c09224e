package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/internal/store"
	"github.com/mkhiriev/go-todo-vault/models"
)

// todoService implements TodoService on top of the TodoRepository.
//
// The owner id threaded through every method comes from the authenticated
// identity resolved by the transport layer; this service depends on nothing
// else from the session machinery.
type todoService struct {
	todoRepository store.TodoRepository

	logger *logger.Logger
}

// NewTodoService constructs a TodoService wired to the given TodoRepository.
func NewTodoService(todoRepository store.TodoRepository, logger *logger.Logger) TodoService {
	return &todoService{
		todoRepository: todoRepository,
		logger:         logger,
	}
}

// CreateTodo persists a new todo owned by ownerID.
// The owner is taken from the resolved identity, never from the request
// body, so a client cannot create records on someone else's behalf.
func (t *todoService) CreateTodo(ctx context.Context, ownerID int64, req models.CreateTodoRequest) (models.Todo, error) {
	log := logger.FromContext(ctx)

	if req.Description == "" {
		log.Error().Int64("owner", ownerID).Msg("empty todo description provided")
		return models.Todo{}, ErrInvalidDataProvided
	}

	createdTodo, err := t.todoRepository.CreateTodo(ctx, models.Todo{
		Description: req.Description,
		Completed:   req.Completed,
		OwnerID:     ownerID,
	})
	if err != nil {
		log.Err(err).Int64("owner", ownerID).Msg("todo creation ended with error")
		return models.Todo{}, fmt.Errorf("todo creation ended with error: %w", err)
	}

	return createdTodo, nil
}

// ListTodos parses the raw query parameters and returns the owner's todos
// matching them. Parsing is deliberately permissive (see ParseTodoQuery);
// malformed parameters degrade to "no filter"/"no limit" rather than errors.
func (t *todoService) ListTodos(ctx context.Context, ownerID int64, rawParams url.Values) ([]models.Todo, error) {
	log := logger.FromContext(ctx)

	todos, err := t.todoRepository.FindTodos(ctx, ownerID, ParseTodoQuery(rawParams))
	if err != nil {
		log.Err(err).Int64("owner", ownerID).Msg("todo listing ended with error")
		return nil, fmt.Errorf("todo listing ended with error: %w", err)
	}

	return todos, nil
}

func (t *todoService) GetTodo(ctx context.Context, ownerID, todoID int64) (models.Todo, error) {
	return t.todoRepository.GetTodo(ctx, ownerID, todoID)
}

// UpdateTodo applies a partial change to an owner-scoped todo. A present
// description must be non-empty; the owner field is not updatable at all.
func (t *todoService) UpdateTodo(ctx context.Context, ownerID, todoID int64, update models.TodoUpdate) (models.Todo, error) {
	log := logger.FromContext(ctx)

	if update.Description != nil && *update.Description == "" {
		return models.Todo{}, ErrInvalidDataProvided
	}

	updatedTodo, err := t.todoRepository.UpdateTodo(ctx, ownerID, todoID, update)
	if err != nil {
		log.Err(err).Int64("owner", ownerID).Int64("todo", todoID).Msg("todo update ended with error")
		return models.Todo{}, fmt.Errorf("todo update ended with error: %w", err)
	}

	return updatedTodo, nil
}

func (t *todoService) DeleteTodo(ctx context.Context, ownerID, todoID int64) (models.Todo, error) {
	return t.todoRepository.DeleteTodo(ctx, ownerID, todoID)
}
