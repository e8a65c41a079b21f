package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrInstitutionNotFound = errors.New("institution not found")
	ErrGradeNotFound       = errors.New("grade record not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPaymentRequired     = errors.New("payment required")
)

var ErrInvalidQuery = errors.New("invalid query")
