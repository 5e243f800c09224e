package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mkhiriev/go-todo-vault/models"
)

// ParseTodoQuery builds a [models.TodoQuery] from raw request parameters.
//
// The parsing rules are fixed for wire compatibility and intentionally
// asymmetric:
//
//   - "completed": when the parameter is present, the filter value is true
//     only for the literal string "true". Any other value — "false", "1",
//     garbage — filters for completed = false. Absence means no filter.
//   - "sortBy": a single "field:direction" token. The field passes through
//     uninterpreted; only the literal direction "desc" flips the order, any
//     other or absent direction is ascending.
//   - "limit" / "skip": decimal integers. A non-numeric or absent value
//     yields nil ("no limit"/"no skip") rather than zero — a zero limit is
//     a valid, different request and must not be silently substituted.
func ParseTodoQuery(rawParams url.Values) models.TodoQuery {
	var query models.TodoQuery

	if rawParams.Has("completed") {
		completed := rawParams.Get("completed") == "true"
		query.Completed = &completed
	}

	if sortBy := rawParams.Get("sortBy"); sortBy != "" {
		parts := strings.SplitN(sortBy, ":", 2)
		query.SortField = parts[0]
		query.SortDesc = len(parts) == 2 && parts[1] == "desc"
	}

	query.Limit = parsePaginationValue(rawParams.Get("limit"))
	query.Skip = parsePaginationValue(rawParams.Get("skip"))

	return query
}

// parsePaginationValue parses a decimal pagination parameter. nil means the
// value was absent or unparseable; this forgiving path is deliberate and
// must not be tightened into a validation error.
func parsePaginationValue(raw string) *uint64 {
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}

	return &value
}
