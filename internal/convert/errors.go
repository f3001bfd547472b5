// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
)

// Kind classifies conversion failures. The set is closed; callers branch on
// it instead of matching error strings.
type Kind string

const (
	KindInvalidFormat        Kind = "invalid_format"
	KindNotSupported         Kind = "not_supported"
	KindFormat               Kind = "format"
	KindShape                Kind = "shape"
	KindCoercion             Kind = "coercion"
	KindUnsupportedColorMode Kind = "unsupported_color_mode"
	KindIO                   Kind = "io"
	KindConflict             Kind = "conflict"
)

// Sentinels for errors.Is. An *Error matches a sentinel of the same kind.
var (
	ErrInvalidFormat        = &Error{Kind: KindInvalidFormat}
	ErrNotSupported         = &Error{Kind: KindNotSupported}
	ErrFormat               = &Error{Kind: KindFormat}
	ErrShape                = &Error{Kind: KindShape}
	ErrCoercion             = &Error{Kind: KindCoercion}
	ErrUnsupportedColorMode = &Error{Kind: KindUnsupportedColorMode}
	ErrIO                   = &Error{Kind: KindIO}
	ErrConflict             = &Error{Kind: KindConflict}
)

// Error is a typed conversion error.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var prefix string
	switch e.Kind {
	case KindInvalidFormat:
		prefix = "invalid format"
	case KindNotSupported:
		prefix = "conversion not supported"
	case KindFormat:
		prefix = "malformed input"
	case KindShape:
		prefix = "incompatible shape"
	case KindCoercion:
		prefix = "value not numeric"
	case KindUnsupportedColorMode:
		prefix = "unsupported color mode"
	case KindIO:
		prefix = "i/o failure"
	case KindConflict:
		prefix = "registration conflict"
	default:
		prefix = "conversion error"
	}

	if e.Path != "" {
		prefix = fmt.Sprintf("%s in %s", prefix, e.Path)
	}
	if e.Message != "" {
		prefix = fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	if e.Err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrShape)
// works regardless of path or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Errorf builds an *Error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and path to err. It returns nil for a nil err and
// keeps the kind of an existing *Error, filling in a missing path on a copy.
func Wrap(kind Kind, path string, err error) error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*Error); ok {
		if ce.Path != "" {
			return ce
		}
		cp := *ce
		cp.Path = path
		return &cp
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Kind: kind, Path: path, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err carries none.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
