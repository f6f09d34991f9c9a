package service

import "errors"

var (
	// ErrNotFound is returned when no CMS item carries the source event id
	ErrNotFound = errors.New("event not found in CMS collection")
	// ErrMissingName is returned when a source event has no name
	ErrMissingName = errors.New("event name is required")
	// ErrMissingSourceID is returned when a webhook carries no source event id
	ErrMissingSourceID = errors.New("source event id is required")
	// ErrMissingEmail is returned when a member webhook carries no email
	ErrMissingEmail = errors.New("member email is required")
)
