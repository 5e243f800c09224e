package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository]. Active sessions live in the "sessions" table, one row
// per session id, so membership checks and single-session revocation are
// indexed lookups rather than scans of a token blacklist.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// AddSession records a freshly issued session id for the user.
//
// Error handling:
//   - PostgreSQL foreign_key_violation (23503) → [ErrNoUserWasFound], the
//     user was deleted between credential check and session issue.
func (r *sessionRepository) AddSession(ctx context.Context, userID int64, sessionID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, addSession, sessionID, userID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.AddSession").Msg("error: session was not added")

		switch postgresError(err) {
		case pgerrcode.ForeignKeyViolation:
			return ErrNoUserWasFound
		default:
			return fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return nil
}

// RemoveSession deletes exactly one session id for the user. Removing an id
// that is absent (already revoked, never issued) is a successful no-op, so
// the operation is safely retryable.
func (r *sessionRepository) RemoveSession(ctx context.Context, userID int64, sessionID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, removeSession, sessionID, userID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.RemoveSession").Msg("error: session was not removed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// ClearSessions deletes every active session of the user, invalidating all
// outstanding tokens at once. Used on account deletion.
func (r *sessionRepository) ClearSessions(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, clearSessions, userID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.ClearSessions").Msg("error: sessions were not cleared")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// HasActiveSession reports whether the given session id is currently part of
// the user's active set. A structurally valid token whose session id fails
// this check has been revoked.
func (r *sessionRepository) HasActiveSession(ctx context.Context, userID int64, sessionID string) (bool, error) {
	log := logger.FromContext(ctx)

	var active bool
	row := r.db.QueryRowContext(ctx, hasActiveSession, sessionID, userID)

	if err := row.Scan(&active); err != nil {
		log.Err(err).Str("func", "*sessionRepository.HasActiveSession").Msg("error: scanning error")
		return false, fmt.Errorf("unexpected DB error: %w", err)
	}

	return active, nil
}
