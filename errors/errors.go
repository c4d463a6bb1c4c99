package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("NOT FOUND")
	ErrInvalidInput     = errors.New("INVALID INPUT")
	ErrInsufficientData = errors.New("INSUFFICIENT DATA")
	ErrConflict         = errors.New("CONFLICT")
	ErrPersistence      = errors.New("PERSISTENCE FAILURE")
	ErrInternal         = errors.New("INTERNAL")
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
}
