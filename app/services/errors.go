package services

import "net/http"

// Error is a service failure the client can act on. It carries the HTTP
// status the API answers with.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string   { return e.Message }
func (e *Error) StatusCode() int { return e.Status }

var (
	ErrFileTooLarge = &Error{Status: http.StatusRequestEntityTooLarge, Message: "file is too large"}
	ErrEmptyFile    = &Error{Status: http.StatusUnprocessableEntity, Message: "file is empty"}
)
