package signup

import "errors"

var (
	ErrRequestNotFound     = errors.New("signup request not found")
	ErrApplicationExists   = errors.New("an application with this email already exists")
	ErrUserExists          = errors.New("a user with this email already exists in our system")
	ErrAlreadyApproved     = errors.New("signup request has already been approved")
	ErrAccountCreateFailed = errors.New("failed to create user account for approved application")
)
