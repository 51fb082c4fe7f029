package batch

import (
	"errors"
	"fmt"

	"showfmt/internal/normalizer"
)

// Batch errors.
var (
	ErrDecode          = errors.New("decode error")
	ErrFileSystem      = errors.New("filesystem error")
	ErrNotADirectory   = errors.New("not a directory")
	ErrNotARegularFile = errors.New("not a regular file")
)

// DecodeError reports an input file that is not a JSON object.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v in %s: %v", ErrDecode, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// FileSystemError reports a failed read, write, stat or directory operation.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// Is matches ErrFileSystem.
func (e *FileSystemError) Is(target error) bool {
	return target == ErrFileSystem
}

// Kind classifies a per-file failure for reports and logs.
type Kind string

// Failure kinds.
const (
	KindNone            Kind = ""
	KindDecode          Kind = "decode"
	KindMissingField    Kind = "missing_field"
	KindSchemaViolation Kind = "schema_violation"
	KindFileSystem      Kind = "filesystem"
	KindUnknown         Kind = "unknown"
)

// Classify maps err to its failure kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, normalizer.ErrMissingRequiredField):
		return KindMissingField
	case errors.Is(err, normalizer.ErrSchemaViolation):
		return KindSchemaViolation
	case errors.Is(err, ErrFileSystem):
		return KindFileSystem
	default:
		return KindUnknown
	}
}
