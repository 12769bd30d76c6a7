package craftlist

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrTicketNotFound indicates a ticket was not found
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrServerNotFound indicates a server listing was not found
	ErrServerNotFound = errors.New("server not found")

	// ErrCategoryNotFound indicates a blog category was not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrPostNotFound indicates a blog post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrPageNotFound indicates a custom page was not found
	ErrPageNotFound = errors.New("page not found")

	// ErrBannerNotFound indicates a banner was not found
	ErrBannerNotFound = errors.New("banner not found")

	// ErrSettingsNotFound indicates no settings document has been saved yet
	ErrSettingsNotFound = errors.New("settings not found")

	// ErrVoteNotFound indicates no vote exists for a server/IP pair
	ErrVoteNotFound = errors.New("vote not found")

	// ErrDuplicateSlug indicates a unique slug constraint was violated
	ErrDuplicateSlug = errors.New("slug already exists")

	// ErrVoteTooSoon indicates the caller voted inside the cooldown window
	ErrVoteTooSoon = errors.New("already voted within the last 24 hours")
)

// ValidationError reports a malformed, missing, or out-of-enum request
// field. It is always raised before any store mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// MissingField builds the ValidationError for a required field that was
// not supplied.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// StoreError wraps a repository failure with the entity and operation
// that triggered it.
type StoreError struct {
	Entity string
	Op     string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s operation %s failed: %v", e.Entity, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
