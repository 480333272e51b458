package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/blog-comments/internal/comment"
	"github.com/evcraddock/blog-comments/internal/page"
	"github.com/evcraddock/blog-comments/internal/widget"
)

func newPostCmd() *cobra.Command {
	var author, text, output string

	cmd := &cobra.Command{
		Use:   "post <page.html> <post-id>",
		Short: "Submit a comment through a page's comment form",
		Long: "Load the page, fill the comment form of the section for post-id, and submit it. " +
			"On success the comment is appended to the section and the page is written to --output, " +
			"or printed when no output is given.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(cmd, args[0], args[1], author, text, output)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "comment author (required)")
	cmd.Flags().StringVar(&text, "text", "", "comment text (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the updated page here instead of stdout")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func findSection(sections []*widget.Section, postID string) *widget.Section {
	for _, s := range sections {
		if s.PostID() == postID {
			return s
		}
	}
	return nil
}

func runPost(cmd *cobra.Command, path, postID, author, text, output string) error {
	if err := (comment.Comment{Author: author, Text: text}).Validate(); err != nil {
		return err
	}

	doc, err := page.ParseFile(path)
	if err != nil {
		return err
	}

	sections, cfgErr := newWidget(cmd.ErrOrStderr()).Run(cmd.Context(), doc.Root)
	sec := findSection(sections, postID)
	if sec == nil {
		if cfgErr != nil {
			return fmt.Errorf("no usable comment section for post %q in %s: %w", postID, path, cfgErr)
		}
		return fmt.Errorf("no comment section for post %q in %s", postID, path)
	}

	if err := sec.Fill(author, text); err != nil {
		return err
	}
	if err := sec.Submit(cmd.Context()); err != nil {
		return err
	}

	if output != "" {
		if err := doc.WriteFile(output); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Comment posted to %s\n", postID)
	} else if err := doc.Render(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	if cfgErr != nil {
		return fmt.Errorf("%s: %w", path, cfgErr)
	}
	return nil
}
