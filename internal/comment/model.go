// Package comment provides the blog comment model and the shared rendering
// primitive used wherever a comment is placed into a page.
package comment

import (
	"errors"
	"strings"
)

// Comment is a single reader comment as returned by the comments API.
type Comment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Submission is the body sent to the API when posting a comment.
type Submission struct {
	Post   string `json:"post"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

var (
	// ErrAuthorRequired is returned when a comment has no author.
	ErrAuthorRequired = errors.New("comment author is required")
	// ErrTextRequired is returned when a comment has no text.
	ErrTextRequired = errors.New("comment text is required")
)

// Validate checks that both author and text are non-empty.
func (c Comment) Validate() error {
	if strings.TrimSpace(c.Author) == "" {
		return ErrAuthorRequired
	}
	if strings.TrimSpace(c.Text) == "" {
		return ErrTextRequired
	}
	return nil
}

// Comment returns the comment carried by s.
func (s Submission) Comment() Comment {
	return Comment{Author: s.Author, Text: s.Text}
}
