package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures the caller can act on.
type ErrorKind string

const (
	KindInvalidPlayer       ErrorKind = "invalid_player"
	KindInvalidScore        ErrorKind = "invalid_score"
	KindPersistenceConflict ErrorKind = "persistence_conflict"
	KindNameTaken           ErrorKind = "name_taken"
)

// Sentinels for errors.Is; a *ResultError matches the sentinel of its kind.
var (
	ErrInvalidPlayer       = &ResultError{Kind: KindInvalidPlayer, Message: "invalid player"}
	ErrInvalidScore        = &ResultError{Kind: KindInvalidScore, Message: "invalid score"}
	ErrPersistenceConflict = &ResultError{Kind: KindPersistenceConflict, Message: "conflicting update, please resubmit"}
	ErrNameTaken           = &ResultError{Kind: KindNameTaken, Message: "name already taken"}
)

// ResultError carries a human readable message the caller may show unmodified.
type ResultError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ResultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ResultError) Unwrap() error {
	return e.Err
}

func (e *ResultError) Is(target error) bool {
	var t *ResultError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func invalidPlayer(format string, args ...any) error {
	return &ResultError{Kind: KindInvalidPlayer, Message: fmt.Sprintf(format, args...)}
}

func invalidScore(format string, args ...any) error {
	return &ResultError{Kind: KindInvalidScore, Message: fmt.Sprintf(format, args...)}
}

func persistenceConflict(err error) error {
	return &ResultError{Kind: KindPersistenceConflict, Message: ErrPersistenceConflict.Message, Err: err}
}

func nameTaken(name string) error {
	return &ResultError{Kind: KindNameTaken, Message: fmt.Sprintf("a player named %q already exists", name)}
}

// KindOf returns the kind of a ResultError in err's chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var re *ResultError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
