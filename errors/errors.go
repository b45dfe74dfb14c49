package errors

import "errors"

// Sentinel errors for common error conditions
var (
	// ErrCatalogEmpty indicates that a catalog source produced no questions
	ErrCatalogEmpty = errors.New("catalog contains no questions")

	// ErrQuestionNotFound indicates that a question ID is not in the catalog
	ErrQuestionNotFound = errors.New("question not found")

	// ErrInvalidConfig indicates that component configuration failed validation
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrOracleUnavailable indicates that the text oracle could not be reached
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that input validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)
