package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/models"
)

// todoRepository is the PostgreSQL-backed implementation of [TodoRepository].
//
// Dynamic statements are assembled with squirrel so that the optional parts
// of a list query (completion filter, sort, limit, skip) compose without
// string surgery. Every statement this repository emits carries the
// "owner_id = ?" predicate; it is added here, from the authenticated
// identity, and never from caller-supplied parameters.
type todoRepository struct {
	logger  *logger.Logger
	db      *DB
	builder sq.StatementBuilderType
}

// NewTodoRepository constructs a [TodoRepository] backed by the provided
// database connection and logger.
func NewTodoRepository(db *DB, logger *logger.Logger) TodoRepository {
	logger.Debug().Msg("creating todo repository")
	return &todoRepository{
		db:      db,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const todoColumns = "todo_id, description, completed, owner_id, created_at"

// CreateTodo persists a new todo and returns it with server-assigned fields
// (TodoID, CreatedAt).
//
// Error handling:
//   - PostgreSQL foreign_key_violation (23503) → [ErrNoUserWasFound];
//     the referenced owner does not exist.
func (r *todoRepository) CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Insert(todo.TableName()).
		Columns("description", "completed", "owner_id").
		Values(todo.Description, todo.Completed, todo.OwnerID).
		Suffix("RETURNING " + todoColumns).
		ToSql()
	if err != nil {
		return models.Todo{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var createdTodo models.Todo
	row := r.db.QueryRowContext(ctx, query, args...)

	if err := row.Scan(&createdTodo.TodoID, &createdTodo.Description, &createdTodo.Completed, &createdTodo.OwnerID, &createdTodo.CreatedAt); err != nil {
		log.Err(err).Str("func", "*todoRepository.CreateTodo").Msg("error: todo was not created")

		switch postgresError(err) {
		case pgerrcode.ForeignKeyViolation:
			return models.Todo{}, ErrNoUserWasFound
		default:
			return models.Todo{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return createdTodo, nil
}

// FindTodos returns the owner's todos matching the parsed query.
//
// The SELECT always starts from the mandatory owner predicate and then
// composes the optional parts:
//   - query.Completed non-nil → "completed = ?";
//   - query.SortField non-empty → ORDER BY, direction per query.SortDesc.
//     The field name passes through uninterpreted: an unknown column is the
//     store's error to raise, not this layer's to validate;
//   - query.Limit / query.Skip non-nil → LIMIT / OFFSET. Nil means the
//     clause is omitted entirely — an explicit zero limit is a different,
//     valid query.
//
// The result is a finite, restartable slice, never a live cursor.
func (r *todoRepository) FindTodos(ctx context.Context, ownerID int64, query models.TodoQuery) ([]models.Todo, error) {
	log := logger.FromContext(ctx)

	selectBuilder := r.builder.
		Select(todoColumns).
		From(models.Todo{}.TableName()).
		Where(sq.Eq{"owner_id": ownerID})

	if query.Completed != nil {
		selectBuilder = selectBuilder.Where(sq.Eq{"completed": *query.Completed})
	}

	if query.SortField != "" {
		direction := "ASC"
		if query.SortDesc {
			direction = "DESC"
		}
		selectBuilder = selectBuilder.OrderBy(query.SortField + " " + direction)
	}

	if query.Limit != nil {
		selectBuilder = selectBuilder.Limit(*query.Limit)
	}
	if query.Skip != nil {
		selectBuilder = selectBuilder.Offset(*query.Skip)
	}

	sqlQuery, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		log.Err(err).Str("func", "*todoRepository.FindTodos").Msg("error: executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	todos := make([]models.Todo, 0)
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.TodoID, &todo.Description, &todo.Completed, &todo.OwnerID, &todo.CreatedAt); err != nil {
			log.Err(err).Str("func", "*todoRepository.FindTodos").Msg("error: scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return todos, nil
}

// GetTodo retrieves a single todo scoped to its owner. A todo that exists
// but belongs to another user yields [ErrTodoNotFound], exactly like a
// missing one.
func (r *todoRepository) GetTodo(ctx context.Context, ownerID, todoID int64) (models.Todo, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select(todoColumns).
		From(models.Todo{}.TableName()).
		Where(sq.Eq{"todo_id": todoID, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return models.Todo{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var todo models.Todo
	row := r.db.QueryRowContext(ctx, query, args...)

	if err := row.Scan(&todo.TodoID, &todo.Description, &todo.Completed, &todo.OwnerID, &todo.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, ErrTodoNotFound
		}

		log.Err(err).Str("func", "*todoRepository.GetTodo").Msg("error: scanning error")
		return models.Todo{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return todo, nil
}

// UpdateTodo applies a partial change to an owner-scoped todo and returns
// the updated record. Nil fields of update are left unchanged; an update
// with no fields set degenerates to a scoped read.
func (r *todoRepository) UpdateTodo(ctx context.Context, ownerID, todoID int64, update models.TodoUpdate) (models.Todo, error) {
	log := logger.FromContext(ctx)

	if update.Description == nil && update.Completed == nil {
		return r.GetTodo(ctx, ownerID, todoID)
	}

	updateBuilder := r.builder.
		Update(models.Todo{}.TableName()).
		Where(sq.Eq{"todo_id": todoID, "owner_id": ownerID}).
		Suffix("RETURNING " + todoColumns)

	if update.Description != nil {
		updateBuilder = updateBuilder.Set("description", *update.Description)
	}
	if update.Completed != nil {
		updateBuilder = updateBuilder.Set("completed", *update.Completed)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return models.Todo{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var todo models.Todo
	row := r.db.QueryRowContext(ctx, query, args...)

	if err := row.Scan(&todo.TodoID, &todo.Description, &todo.Completed, &todo.OwnerID, &todo.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, ErrTodoNotFound
		}

		log.Err(err).Str("func", "*todoRepository.UpdateTodo").Msg("error: todo was not updated")
		return models.Todo{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return todo, nil
}

// DeleteTodo removes an owner-scoped todo and returns the deleted record.
// Like every single-record operation, a cross-owner id produces
// [ErrTodoNotFound].
func (r *todoRepository) DeleteTodo(ctx context.Context, ownerID, todoID int64) (models.Todo, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Delete(models.Todo{}.TableName()).
		Where(sq.Eq{"todo_id": todoID, "owner_id": ownerID}).
		Suffix("RETURNING " + todoColumns).
		ToSql()
	if err != nil {
		return models.Todo{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var todo models.Todo
	row := r.db.QueryRowContext(ctx, query, args...)

	if err := row.Scan(&todo.TodoID, &todo.Description, &todo.Completed, &todo.OwnerID, &todo.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, ErrTodoNotFound
		}

		log.Err(err).Str("func", "*todoRepository.DeleteTodo").Msg("error: todo was not deleted")
		return models.Todo{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return todo, nil
}
