package store

import (
	"fmt"
	"strings"

	"github.com/mkhiriev/go-todo-vault/models"
)

const (
	createUser = `INSERT INTO users (name, email, password_hash)
    VALUES ($1, $2, $3)
    RETURNING user_id, name, email, password_hash, created_at;`

	findUserByEmail = `SELECT user_id, name, email, password_hash, created_at
    FROM users
    WHERE email = $1;`

	getUser = `SELECT user_id, name, email, password_hash, created_at
    FROM users
    WHERE user_id = $1;`

	deleteUserTodos = `DELETE FROM todos
		WHERE owner_id = $1;`
	deleteUserSessions = `DELETE FROM sessions
		WHERE user_id = $1;`
	deleteUser = `DELETE FROM users
		WHERE user_id = $1;`

	setAvatar = `UPDATE users
		SET avatar = $2
		WHERE user_id = $1;`
	getAvatar = `SELECT avatar
		FROM users
		WHERE user_id = $1;`
	clearAvatar = `UPDATE users
		SET avatar = NULL
		WHERE user_id = $1;`

	addSession = `INSERT INTO sessions (session_id, user_id)
		VALUES ($1, $2);`
	removeSession = `DELETE FROM sessions
		WHERE session_id = $1 AND user_id = $2;`
	clearSessions = `DELETE FROM sessions
		WHERE user_id = $1;`
	hasActiveSession = `SELECT EXISTS (
		SELECT 1 FROM sessions
		WHERE session_id = $1 AND user_id = $2);`

	updateUserBase  = `UPDATE users SET `
	updateUserWhere = ` WHERE user_id = $%d
		RETURNING user_id, name, email, password_hash, created_at;`
)

// buildUpdateUserQuery dynamically builds the UPDATE statement for a partial
// profile change. Only non-nil fields of update produce SET clauses; the
// caller must guarantee at least one field is set.
func (r *userRepository) buildUpdateUserQuery(userID int64, update models.UserUpdate) (string, []any) {
	queryBuilder := new(strings.Builder)
	queryBuilder.WriteString(updateUserBase)

	args := make([]any, 0, 4)
	setClauses := make([]string, 0, 3)
	argIndex := 1

	if update.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *update.Name)
		argIndex++
	}

	if update.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIndex))
		args = append(args, *update.Email)
		argIndex++
	}

	if update.Password != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argIndex))
		args = append(args, *update.Password)
		argIndex++
	}

	queryBuilder.WriteString(strings.Join(setClauses, ", "))
	queryBuilder.WriteString(fmt.Sprintf(updateUserWhere, argIndex))
	args = append(args, userID)

	return queryBuilder.String(), args
}
