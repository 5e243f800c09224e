package utils

import "github.com/google/uuid"

// NewSessionID generates an unguessable session identifier.
// UUID v7 is preferred for its time-ordered layout (cheap to index in the
// sessions table); on the rare generation failure a random v4 is used.
func NewSessionID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
