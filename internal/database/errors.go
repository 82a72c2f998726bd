package database

import "errors"

var (
	// ErrDatabaseNotFound is returned by Open when the database does not
	// exist and creation was not requested.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrSnapshotNotFound is returned when no snapshot has the given id.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
