package domain

import "errors"

// ErrorKind categorizes operation failures for user-visible handling.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindDeclined       ErrorKind = "declined"
	KindProcessing     ErrorKind = "processing"
	KindNetwork        ErrorKind = "network"
	KindServer         ErrorKind = "server"
	KindUnknown        ErrorKind = "unknown"
)

// CategorizedError wraps an error with its kind. Raw collaborator errors
// never escape the engine uncategorized.
type CategorizedError struct {
	Kind ErrorKind
	Err  error
}

func (e *CategorizedError) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *CategorizedError) Unwrap() error {
	return e.Err
}

func Categorize(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &CategorizedError{Kind: kind, Err: err}
}

// KindOf extracts the kind from an error chain, KindUnknown if none.
func KindOf(err error) ErrorKind {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
