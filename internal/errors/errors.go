// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLivePublishingDisabled is returned by the live publishing client; live
// posting stays disabled until a deliberate platform integration is added.
var ErrLivePublishingDisabled = errors.New("live publishing is disabled; keep dry-run mode on until an official API integration is added")

// ValidationError reports malformed or missing input. No partial state is
// written when one is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

func NewValidationError(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// PublishError means the publishing client could not publish a given post.
// The post keeps its scheduled status and stays eligible for retry.
type PublishError struct {
	PostID int
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing post %d: %v", e.PostID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

func NewPublishError(postID int, err error) error {
	return &PublishError{PostID: postID, Err: err}
}

// StorageError wraps a persistence failure. Always fatal to the enclosing
// operation; never retried silently.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrPostNotFound is a sentinel error
type ErrPostNotFound struct {
	PostID int
}

func (e *ErrPostNotFound) Error() string {
	return fmt.Sprintf("post with ID %d not found", e.PostID)
}

func NewPostNotFound(id int) error {
	return &ErrPostNotFound{PostID: id}
}
