package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrForbiddenUser          = errors.New("cannot access another user's data")
	ErrInvalidToken           = errors.New("invalid or missing access token")
)
