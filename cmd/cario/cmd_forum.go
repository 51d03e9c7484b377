package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newForumCmd(st *rootState) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "forum",
		Short: "Bảng tin chung",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := st.application()
			if err != nil {
				return err
			}
			ctx, _, err := app.withSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			posts, err := app.svcs.Forum.Posts(ctx, username)
			if err != nil {
				return err
			}
			renderPosts(cmd.OutOrStdout(), posts, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "user", "", "chỉ hiện bài viết của người dùng này")
	return cmd
}

func newCommentsCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "comments <postID>",
		Short: "Bình luận của một bài viết",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.application()
			if err != nil {
				return err
			}
			ctx, _, err := app.withSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			threads, err := app.svcs.Comment.Threads(ctx, args[0])
			if err != nil {
				return err
			}
			renderThreads(cmd.OutOrStdout(), threads, time.Now())
			return nil
		},
	}
}
