package fongo

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Error represents a structured error with snake_case JSON format
type Error struct {
	ErrorCode        string `json:"error_code"`
	ErrorMessage     string `json:"error_message"`
	ErrorDescription string `json:"error_description,omitempty"`
	// cause is the driver error this one stands in for, if any.
	cause error
}

// Error implements error interface
func (e *Error) Error() string {
	return e.ErrorMessage
}

// Unwrap lets errors.Is match the driver sentinel errors, for example mongo.ErrNoDocuments.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.ErrorCode == e.ErrorCode
}

// MarshalJSON returns the JSON encoding with snake_case format
func (e *Error) MarshalJSON() ([]byte, error) {
	type alias Error
	return json.Marshal((*alias)(e))
}

// NewError creates a new structured error
func NewError(code, message string) *Error {
	return &Error{
		ErrorCode:    code,
		ErrorMessage: message,
	}
}

// Common errors, compare with errors.Is.
var (
	ErrNotFound         = NewError("not_found", "record not found")
	ErrInvalidArgument  = NewError("invalid_argument", "invalid argument")
	ErrAlreadyExists    = NewError("already_exists", "record already exists")
	ErrInvalidOperation = NewError("invalid_operation", "invalid operation")
	ErrTransaction      = NewError("transaction_error", "transaction operation failed")
)

// NewNotFoundError creates a not found error, it also matches mongo.ErrNoDocuments.
func NewNotFoundError(collection string) *Error {
	return &Error{
		ErrorCode:        "not_found",
		ErrorMessage:     "record not found",
		ErrorDescription: fmt.Sprintf("no record found in collection '%s'", collection),
		cause:            mongo.ErrNoDocuments,
	}
}

// duplicateKeyCode the server error code of a unique index violation.
const duplicateKeyCode = 11000

// NewDuplicateKeyError creates an already exists error for the document at
// index of an insert, it also matches a mongo.WriteException.
func NewDuplicateKeyError(collection string, index int, id any) *Error {
	description := fmt.Sprintf("duplicate key in collection '%s': _id %v", collection, id)
	return &Error{
		ErrorCode:        "already_exists",
		ErrorMessage:     "record already exists",
		ErrorDescription: description,
		cause: mongo.WriteException{
			WriteErrors: []mongo.WriteError{{
				Index:   index,
				Code:    duplicateKeyCode,
				Message: description,
			}},
		},
	}
}

// NewInvalidArgumentError creates an invalid argument error
func NewInvalidArgumentError(argument, reason string) *Error {
	return &Error{
		ErrorCode:        "invalid_argument",
		ErrorMessage:     "invalid argument",
		ErrorDescription: fmt.Sprintf("argument '%s': %s", argument, reason),
	}
}

// NewInvalidOperationError creates an invalid operation error
func NewInvalidOperationError(operation, reason string) *Error {
	return &Error{
		ErrorCode:        "invalid_operation",
		ErrorMessage:     "invalid operation",
		ErrorDescription: fmt.Sprintf("%s: %s", operation, reason),
	}
}

// NewTransactionError creates a transaction error
func NewTransactionError(operation, reason string) *Error {
	return &Error{
		ErrorCode:        "transaction_error",
		ErrorMessage:     "transaction operation failed",
		ErrorDescription: fmt.Sprintf("%s: %s", operation, reason),
	}
}

// NewDatabaseError creates a generic database error
func NewDatabaseError(message string) *Error {
	return &Error{
		ErrorCode:    "database_error",
		ErrorMessage: message,
	}
}

// IsNotFoundError check if it is not found
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments)
}

// IsConflictError check if it is a duplicate key error
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAlreadyExists) {
		return true
	}
	var exception mongo.WriteException
	if errors.As(err, &exception) {
		for _, v := range exception.WriteErrors {
			if v.Code == duplicateKeyCode {
				return true
			}
		}
	}
	return false
}
