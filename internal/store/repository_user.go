package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup, profile updates, avatar storage and
// cascading account deletion against the "users", "todos" and "sessions"
// tables.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Name, user.Email, user.PasswordHash)

	var createdUser models.User
	if err := row.Scan(&createdUser.UserID, &createdUser.Name, &createdUser.Email, &createdUser.PasswordHash, &createdUser.CreatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: user was not created")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return createdUser, nil
}

// FindUserByEmail retrieves a user record by its normalized email.
//
// Returns [ErrNoUserWasFound] when no account matches; the caller is
// responsible for folding that outcome with a failed password check so the
// two are externally indistinguishable.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	var foundUser models.User
	row := r.db.QueryRowContext(ctx, findUserByEmail, email)

	if err := row.Scan(&foundUser.UserID, &foundUser.Name, &foundUser.Email, &foundUser.PasswordHash, &foundUser.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.FindUserByEmail").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return foundUser, nil
}

// GetUser retrieves a user record by id. Returns [ErrNoUserWasFound] when
// the account no longer exists.
func (r *userRepository) GetUser(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	var foundUser models.User
	row := r.db.QueryRowContext(ctx, getUser, userID)

	if err := row.Scan(&foundUser.UserID, &foundUser.Name, &foundUser.Email, &foundUser.PasswordHash, &foundUser.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.GetUser").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return foundUser, nil
}

// UpdateUser applies a partial profile change and returns the canonical
// database representation of the updated account.
//
// Error handling:
//   - no non-nil fields in update → the update is a no-op read via [GetUser].
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - no matching row → [ErrNoUserWasFound].
func (r *userRepository) UpdateUser(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if update.Name == nil && update.Email == nil && update.Password == nil {
		return r.GetUser(ctx, userID)
	}

	query, args := r.buildUpdateUserQuery(userID, update)

	var updatedUser models.User
	row := r.db.QueryRowContext(ctx, query, args...)

	if err := row.Scan(&updatedUser.UserID, &updatedUser.Name, &updatedUser.Email, &updatedUser.PasswordHash, &updatedUser.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error: user was not updated")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return updatedUser, nil
}

// DeleteUser removes the account together with everything it owns.
//
// The cascade (owned todos, active sessions, the user row itself) runs in a
// single transaction so a failure leaves no orphaned records behind.
// Returns [ErrNoUserWasFound] when the account does not exist.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error: beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteUserTodos, userID); err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error: deleting owned todos")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err := tx.ExecContext(ctx, deleteUserSessions, userID); err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error: deleting sessions")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	result, err := tx.ExecContext(ctx, deleteUser, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error: deleting user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error: committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// SetAvatar stores the raw avatar blob for the user.
func (r *userRepository) SetAvatar(ctx context.Context, userID int64, avatar []byte) error {
	return r.execAvatarUpdate(ctx, setAvatar, "*userRepository.SetAvatar", userID, avatar)
}

// GetAvatar returns the stored avatar blob.
// Returns [ErrNoUserWasFound] when the user does not exist and
// [ErrAvatarNotFound] when the user exists but has no avatar set.
func (r *userRepository) GetAvatar(ctx context.Context, userID int64) ([]byte, error) {
	log := logger.FromContext(ctx)

	var avatar []byte
	row := r.db.QueryRowContext(ctx, getAvatar, userID)

	if err := row.Scan(&avatar); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.GetAvatar").Msg("error: scanning error")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	if avatar == nil {
		return nil, ErrAvatarNotFound
	}

	return avatar, nil
}

// DeleteAvatar clears the stored avatar blob. Clearing an already empty
// avatar is a no-op.
func (r *userRepository) DeleteAvatar(ctx context.Context, userID int64) error {
	return r.execAvatarUpdate(ctx, clearAvatar, "*userRepository.DeleteAvatar", userID)
}

func (r *userRepository) execAvatarUpdate(ctx context.Context, query, caller string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", caller).Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}
