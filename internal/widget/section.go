package widget

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/evcraddock/blog-comments/internal/comment"
	"github.com/evcraddock/blog-comments/internal/page"
)

// Section is one comment section on a page. Its post identifier, list
// region and form are fixed at discovery.
type Section struct {
	w      *Widget
	postID string
	list   *html.Node
	form   *html.Node

	loadState   LoadState
	submitState SubmitState
}

// PostID returns the identifier of the post the section belongs to.
func (s *Section) PostID() string { return s.postID }

// List returns the list region element.
func (s *Section) List() *html.Node { return s.list }

// Form returns the submission form element.
func (s *Section) Form() *html.Node { return s.form }

// LoadState returns the state of the read path.
func (s *Section) LoadState() LoadState {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return s.loadState
}

// SubmitState returns the state of the most recent submission.
func (s *Section) SubmitState() SubmitState {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return s.submitState
}

// Load fetches the post's comments and renders them into the list region.
// On any failure the list region shows the failure placeholder, the error
// is logged, and the error is returned.
func (s *Section) Load(ctx context.Context) error {
	s.w.mu.Lock()
	s.loadState = Loading
	s.w.mu.Unlock()

	comments, err := s.w.api.ListComments(ctx, s.postID)

	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	if err != nil {
		s.loadState = LoadFailed
		page.ReplaceChildren(s.list, comment.Placeholder(comment.FailedMessage))
		s.w.logger.ErrorContext(ctx, "loading comments", "post", s.postID, "error", err)
		return fmt.Errorf("loading comments for post %q: %w", s.postID, err)
	}

	if len(comments) == 0 {
		page.ReplaceChildren(s.list, comment.Placeholder(comment.EmptyMessage))
	} else {
		page.ReplaceChildren(s.list, comment.Blocks(comments)...)
	}
	s.loadState = Rendered
	s.w.logger.DebugContext(ctx, "comments rendered", "post", s.postID, "count", len(comments))
	return nil
}

// Fill sets the author and text fields of the form, as a reader typing
// into it would.
func (s *Section) Fill(author, text string) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	if !page.SetFieldValue(s.form, AuthorField, author) {
		return &InputError{PostID: s.postID, Field: AuthorField, Err: ErrMissingField}
	}
	if !page.SetFieldValue(s.form, TextField, text) {
		return &InputError{PostID: s.postID, Field: TextField, Err: ErrMissingField}
	}
	return nil
}

// Submit posts the comment held in the form. On success the comment is
// appended to the list region, replacing the empty placeholder if shown,
// and the form is reset. When the API rejects the comment or cannot be
// reached the reader is alerted and the list and form are left unchanged.
//
// Submissions are independent: several may be in flight at once and each
// appends when it completes.
func (s *Section) Submit(ctx context.Context) error {
	sub, err := s.readForm()
	if err != nil {
		s.w.logger.ErrorContext(ctx, "reading comment form", "post", s.postID, "error", err)
		return err
	}

	if err := s.w.api.AddComment(ctx, sub); err != nil {
		s.w.mu.Lock()
		s.submitState = SubmitFailed
		s.w.mu.Unlock()

		s.w.logger.ErrorContext(ctx, "posting comment", "post", s.postID, "error", err)
		s.w.alerter.Alert(ctx, AlertMessage)
		return fmt.Errorf("posting comment for post %q: %w", s.postID, err)
	}

	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	if showsEmpty(s.list) {
		page.RemoveChildren(s.list)
	}
	s.list.AppendChild(comment.Block(sub.Comment()))
	page.ResetForm(s.form)
	s.submitState = Appended
	s.w.logger.InfoContext(ctx, "comment posted", "post", s.postID)
	return nil
}

// readForm extracts the submission from the form and marks the section as
// submitting. Missing or empty fields are input errors.
func (s *Section) readForm() (comment.Submission, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	sub := comment.Submission{Post: s.postID}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{AuthorField, &sub.Author},
		{TextField, &sub.Text},
	} {
		v, ok := page.FieldValue(s.form, f.name)
		if !ok {
			s.submitState = SubmitFailed
			return sub, &InputError{PostID: s.postID, Field: f.name, Err: ErrMissingField}
		}
		if strings.TrimSpace(v) == "" {
			s.submitState = SubmitFailed
			return sub, &InputError{PostID: s.postID, Field: f.name, Err: ErrEmptyField}
		}
		*f.dst = v
	}

	s.submitState = Submitting
	return sub, nil
}

// showsEmpty reports whether the list region holds nothing but the empty
// placeholder. Comment text that happens to match the placeholder does not
// count.
func showsEmpty(list *html.Node) bool {
	children := page.ElementChildren(list)
	if len(children) != 1 || !comment.IsPlaceholder(children[0], comment.EmptyMessage) {
		return false
	}
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return false
		}
	}
	return true
}
