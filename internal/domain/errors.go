package domain

import "errors"

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrNotApproved        = errors.New("must approve before publishing")
	ErrAlreadyPublished   = errors.New("submission already published")
	ErrUnauthorized       = errors.New("caller is not privileged")
	ErrNotOwner           = errors.New("submission belongs to another organizer")
	ErrInvalidID          = errors.New("invalid id")
)
