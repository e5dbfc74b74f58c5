package services

import "errors"

// Login errors
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrWrongPassword    = errors.New("wrong password")
	ErrRoleLookupFailed = errors.New("role lookup failed")
)

// Student errors
var (
	ErrAttemptStartFailed = errors.New("failed to start attempt")
	ErrCourseIDRequired   = errors.New("course id is required")
	ErrAttemptIDRequired  = errors.New("student experiment id is required")
	ErrSubmitFailed       = errors.New("submit failed")
)

// Teacher errors
var (
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")
	ErrValidationFailed   = errors.New("validation failed")
	ErrPublishFailed      = errors.New("publish toggle failed")
	ErrDeleteFailed       = errors.New("delete failed")
	ErrCreateFailed       = errors.New("create failed")
	ErrExportFailed       = errors.New("progress export failed")
	ErrGradeFailed        = errors.New("grading failed")
)
