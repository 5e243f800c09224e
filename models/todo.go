package models

import "time"

// Todo is a single task record. Every todo belongs to exactly one user; the
// owner reference is set at creation from the authenticated identity and is
// never mutable through client updates.
type Todo struct {
	// TodoID is the unique identifier of the task.
	TodoID int64 `json:"id"`

	// Description is the task text. Must be non-empty.
	Description string `json:"description"`

	// Completed marks the task as done. Defaults to false.
	Completed bool `json:"completed"`

	// OwnerID references the user that owns this todo. All reads and writes
	// are intersected with this field; a todo owned by someone else is
	// indistinguishable from a missing one.
	OwnerID int64 `json:"owner"`

	// CreatedAt is the timestamp when the todo was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Todo model.
func (t Todo) TableName() string {
	return "todos"
}

// TodoUpdate carries a partial todo update. Nil fields are left unchanged.
type TodoUpdate struct {
	Description *string
	Completed   *bool
}

// TodoQuery is the parsed, owner-agnostic part of a list query: an optional
// completion filter, a single sort token and permissive pagination. The
// mandatory owner predicate is added by the repository, never by the caller.
type TodoQuery struct {
	// Completed, when non-nil, restricts the result to todos whose completed
	// flag equals the pointed-to value.
	Completed *bool

	// SortField is the column to order by. Unknown names pass through
	// uninterpreted and are left to the store to reject.
	SortField string

	// SortDesc orders descending when true. Only the literal direction
	// "desc" sets it; anything else keeps ascending order.
	SortDesc bool

	// Limit and Skip are nil when absent or unparseable. Nil means
	// "no limit"/"no skip" — distinct from an explicit zero.
	Limit *uint64
	Skip  *uint64
}
