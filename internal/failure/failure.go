package failure

import (
	"errors"
	"fmt"
)

// Category is the coarse failure class reported to callers.
type Category string

const (
	Unsupported     Category = "unsupported"
	InputFormat     Category = "input_format"
	UnknownCode     Category = "unknown_code"
	UntrustedSigner Category = "untrusted_signer"
	Mapping         Category = "mapping"
	Packaging       Category = "packaging"
	Internal        Category = "internal"
)

var labels = map[Category]string{
	Unsupported:     "unsupported code",
	InputFormat:     "invalid credential encoding",
	UnknownCode:     "unknown credential value",
	UntrustedSigner: "invalid signature",
	Mapping:         "invalid pass",
	Packaging:       "unable to generate pass",
	Internal:        "internal error",
}

// Label returns the short user-facing message for the category.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return labels[Internal]
}

// Error attaches a Category to an underlying error.
type Error struct {
	Category Category
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Category)
	}
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with the given category. A nil err yields nil. An error that
// already carries a category keeps it.
func Wrap(c Category, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Category: c, Err: err}
}

// Errorf is shorthand for Wrap(c, fmt.Errorf(format, args...)).
func Errorf(c Category, format string, args ...any) error {
	return &Error{Category: c, Err: fmt.Errorf(format, args...)}
}

// CategoryOf returns the category carried by err, or Internal if none.
func CategoryOf(err error) Category {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category
	}
	return Internal
}
