package model

import (
	"errors"
	"time"
)

var (
	ErrEmptyMessage        = errors.New("message is empty")
	ErrEmptyEmail          = errors.New("email is empty")
	ErrNotAuthenticated    = errors.New("session is not authenticated")
	ErrRoleForbidden       = errors.New("role has no access to view")
	ErrSessionDoesNotExist = errors.New("session does not exist")
	ErrChatDoesNotExist    = errors.New("chat does not exist")
	ErrChatClosed          = errors.New("chat view is closed")
	ErrMissingFields       = errors.New("missing fields")
	ErrInvalidCSV          = errors.New("invalid csv")
	ErrFileRejected        = errors.New("file rejected")
)

type FileRejectReason string

const (
	FileRejectReasonType = FileRejectReason("type")
	FileRejectReasonSize = FileRejectReason("size")
)

// FileRejectedError is shown to the user as a banner that disappears after DismissAfter.
type FileRejectedError struct {
	Reason       FileRejectReason
	Message      string
	DismissAfter time.Duration
}

func (e *FileRejectedError) Error() string {
	return e.Message
}

func (e *FileRejectedError) Unwrap() error {
	return ErrFileRejected
}
