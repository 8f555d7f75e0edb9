package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUploadInProgress = errors.New("an upload pass is already running")
	ErrNilSession       = errors.New("session is nil")
	ErrEmptyFileID      = errors.New("file id is required")
)

// UploadError describes a submission the endpoint did not accept
type UploadError struct {
	File       string
	StatusCode int
	Detail     string
	Err        error
}

func (e *UploadError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("upload %s: %v", e.File, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("upload %s: status %d: %s", e.File, e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("upload %s: status %d", e.File, e.StatusCode)
	}
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
