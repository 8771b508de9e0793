package resolver

import "errors"

var (
	// ErrRepositoryFailure wraps any error the repository returned instead of
	// an answer. It aborts the resolution run.
	ErrRepositoryFailure = errors.New("repository failure")

	// ErrMismatchedRelease is wrapped in ErrRepositoryFailure when a repository
	// answers with a release the dependency does not match.
	ErrMismatchedRelease = errors.New("release does not match dependency")

	ErrInvalidRoot = errors.New("invalid root release")
)
