package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <post-id>",
		Short: "List comments for a post",
		Long:  "List the comments the API holds for a post, in the order it returns them.",
		Args:  cobra.ExactArgs(1),
		RunE:  runComments,
	}
}

func runComments(cmd *cobra.Command, args []string) error {
	postID := args[0]

	comments, err := newAPIClient().ListComments(cmd.Context(), postID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, comments)
	}

	fmt.Fprintf(out, "Comments for post %s:\n\n", postID)
	printCommentList(out, comments)
	return nil
}
