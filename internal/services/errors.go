package services

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

type NotFoundKind string

const (
	NotFoundTableAbsent   NotFoundKind = "table_absent"
	NotFoundNoColumns     NotFoundKind = "no_columns"
	NotFoundNoFlagColumns NotFoundKind = "no_flag_columns"
)

// NotFoundError ends the lookup early. Message is safe to show to callers.
type NotFoundError struct {
	Kind    NotFoundKind
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func tableAbsent(table string) error {
	return &NotFoundError{Kind: NotFoundTableAbsent, Message: fmt.Sprintf("Table %s does not exist.", table)}
}

func noColumns(table string) error {
	return &NotFoundError{Kind: NotFoundNoColumns, Message: fmt.Sprintf("No columns found in table %s.", table)}
}

func noFlagColumns() error {
	return &NotFoundError{Kind: NotFoundNoFlagColumns, Message: "No playlist columns found."}
}

// NotFoundKindOf returns the kind of a not-found error, or "" for any other error.
func NotFoundKindOf(err error) NotFoundKind {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Kind
	}
	return ""
}
