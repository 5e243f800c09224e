package config

import "errors"

var (
	// ErrInvalidAppConfigs is returned when application-level security
	// settings are missing (e.g. an empty token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configs")

	// ErrInvalidStorageConfigs is returned when the persistence backend is
	// not configured (e.g. an empty database DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configs")

	// ErrInvalidServerConfigs is returned when the HTTP listen address is
	// missing from the merged configuration.
	ErrInvalidServerConfigs = errors.New("invalid server configs")
)
