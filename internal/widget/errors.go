package widget

import (
	"errors"
	"fmt"
)

// Configuration defects in the page markup.
var (
	ErrMissingPostID = errors.New("post identifier attribute " + PostIDAttr + " is missing")
	ErrMissingList   = errors.New("comment-list element not found")
	ErrMissingForm   = errors.New("comment-form element not found")
)

// Input defects in a submitted form.
var (
	ErrMissingField = errors.New("field is missing from the form")
	ErrEmptyField   = errors.New("field is empty")
)

// ConfigError reports a comment section whose markup breaks the page
// contract. The section is not initialized.
type ConfigError struct {
	// Index is the position of the section among all sections on the page.
	Index  int
	PostID string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.PostID == "" {
		return fmt.Sprintf("comment section #%d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("comment section #%d (post %q): %v", e.Index, e.PostID, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// InputError reports a submission whose form lacks a required value.
type InputError struct {
	PostID string
	Field  string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("comment form for post %q: %s: %v", e.PostID, e.Field, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
