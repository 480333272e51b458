package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evcraddock/blog-comments/internal/comment"
)

func TestListComments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/comments" {
			t.Errorf("path = %q, want /comments", r.URL.Path)
		}
		if got := r.URL.Query().Get("post"); got != "7" {
			t.Errorf("post = %q, want 7", got)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]comment.Comment{
			{Author: "Bob", Text: "Hi"},
			{Author: "Cy <b>x</b>", Text: "ok"},
		}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	comments, err := c.ListComments(context.Background(), "7")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0].Author != "Bob" || comments[1].Author != "Cy <b>x</b>" {
		t.Errorf("comments = %+v", comments)
	}
}

func TestListCommentsEscapesPostID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("post"); got != "a&b=c d" {
			t.Errorf("post = %q", got)
		}
		if _, err := w.Write([]byte("[]")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	comments, err := c.ListComments(context.Background(), "a&b=c d")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("got %d comments, want 0", len(comments))
	}
}

func TestListCommentsFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus bool
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, true},
		{"not found", http.StatusNotFound, ``, true},
		{"malformed", http.StatusOK, `{not json`, false},
		{"object instead of array", http.StatusOK, `{"author":"a"}`, false},
		{"null", http.StatusOK, `null`, false},
		{"empty body", http.StatusOK, ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Fatalf("write: %v", err)
				}
			}))
			defer srv.Close()

			_, err := New(srv.URL).ListComments(context.Background(), "1")
			if err == nil {
				t.Fatal("expected error")
			}
			var se *StatusError
			if got := errors.As(err, &se); got != tt.wantStatus {
				t.Errorf("status error for %v = %v, want %v", err, got, tt.wantStatus)
			}
		})
	}
}

func TestListCommentsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := New(url).ListComments(context.Background(), "1"); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestAddComment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/comments" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req["post"] != "42" || req["author"] != "Ada" || req["text"] != "Hello" {
			t.Errorf("body = %v", req)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := New(srv.URL).AddComment(context.Background(), comment.Submission{Post: "42", Author: "Ada", Text: "Hello"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestAddCommentAnySuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		err := New(srv.URL).AddComment(context.Background(), comment.Submission{Post: "1", Author: "a", Text: "b"})
		if err != nil {
			t.Errorf("status %d: unexpected error %v", status, err)
		}
		srv.Close()
	}
}

func TestAddCommentStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := New(srv.URL).AddComment(context.Background(), comment.Submission{Post: "1", Author: "a", Text: "b"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", se.StatusCode)
	}
}

func TestContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).ListComments(ctx, "1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWithTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "yes" {
			t.Error("expected wrapped transport header")
		}
		if _, err := w.Write([]byte("[]")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, WithTransport(func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(r *http.Request) (*http.Response, error) {
			r.Header.Set("X-Test", "yes")
			return next.RoundTrip(r)
		})
	}))
	if _, err := c.ListComments(context.Background(), "1"); err != nil {
		t.Fatalf("list: %v", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
