package schema

import "fmt"

// Code classifies a validation error.
type Code string

const (
	CodeMissingRequired     Code = "MissingRequiredField"
	CodeTypeMismatch        Code = "TypeMismatch"
	CodeEnumViolation       Code = "EnumViolation"
	CodePatternViolation    Code = "PatternViolation"
	CodeConstraintViolation Code = "ConstraintViolation"
	CodeUnknownField        Code = "UnknownField"
	CodeDuplicateUnique     Code = "DuplicateUnique"
	CodeParseFailure        Code = "ParseFailure"
)

// Error is a single field-level validation finding. It is a value, not a Go
// error: validation collects findings and keeps going.
type Error struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e Error) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}

func errorf(field string, code Code, format string, args ...any) Error {
	return Error{Field: field, Code: code, Message: fmt.Sprintf(format, args...)}
}
