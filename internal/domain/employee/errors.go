package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidEmployeeCode = errors.New("invalid employee code format")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own employee record")
)
