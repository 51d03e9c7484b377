package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/views"
)

func parseGroupID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, client.ValidationError("ParseGroupID", "ID nhóm không hợp lệ: "+raw)
	}
	return id, nil
}

func newGroupsCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "groups [query]",
		Short: "Danh sách nhóm, hoặc tìm kiếm theo tên",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.application()
			if err != nil {
				return err
			}
			ctx, sess, err := app.withSession(cmd.Context(), true)
			if err != nil {
				return err
			}

			var groups []models.Group
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				groups, err = app.svcs.Community.SearchGroups(ctx, "cli", args[0], sess.Username)
			} else {
				groups, err = app.svcs.Community.Groups(ctx, sess.Username)
			}
			if err != nil {
				return err
			}
			renderGroups(cmd.OutOrStdout(), groups, time.Now())
			return nil
		},
	}
}

func newPostsCmd(st *rootState) *cobra.Command {
	var sort, typeSort string
	cmd := &cobra.Command{
		Use:   "posts <groupID>",
		Short: "Bài viết trong nhóm (cần là thành viên)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGroupID(args[0])
			if err != nil {
				return err
			}
			app, err := st.application()
			if err != nil {
				return err
			}
			ctx, sess, err := app.withSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			posts, _, err := app.svcs.Community.GatedGroupPosts(ctx, sess.Username, id, client.PostQuery{Sort: sort, TypeSort: typeSort})
			if err != nil {
				if client.CodeOf(err) == client.CodeJoinRequired {
					return fmt.Errorf("%s Chạy `cario join %d`.", client.Message(err), id)
				}
				return err
			}
			renderPosts(cmd.OutOrStdout(), posts, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "", "sắp xếp (vd. newest)")
	cmd.Flags().StringVar(&typeSort, "type", "", "lọc theo loại bài viết")
	return cmd
}

func newJoinCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "join <groupID>",
		Short: "Tham gia nhóm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGroupID(args[0])
			if err != nil {
				return err
			}
			app, err := st.application()
			if err != nil {
				return err
			}
			ctx, sess, err := app.withSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			if err := app.svcs.Community.JoinGroup(ctx, sess.Username, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Đã tham gia nhóm %d.", id)))
			return nil
		},
	}
}

const communityHelp = `Lệnh:
  <văn bản>            tìm nhóm (debounce)
  open <id>            mở nhóm
  join <id>            tham gia nhóm
  post <tiêu đề> | <nội dung>
  like <postID>        thích / bỏ thích
  delete <postID>      xoá bài viết
  reload               tải lại danh sách
  help, quit`

func newCommunityCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "community",
		Short: "Giao diện cộng đồng tương tác",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := st.application()
			if err != nil {
				return err
			}
			ctx, _, err := app.withSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			view := views.NewCommunityView(ctx, app.svcs.Community, app.svcs.Forum, app.cfg.Search.Debounce, app.log)
			defer view.Close()
			return runCommunity(ctx, view, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runCommunity 读取命令驱动视图，每次状态变化都重新输出
func runCommunity(ctx context.Context, view *views.CommunityView, in io.Reader, out io.Writer) error {
	var mu sync.Mutex
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, args...)
	}
	view.OnChange(func(s views.State) {
		if s.Loading {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		renderState(out, s)
	})

	printf("%s\n", communityHelp)
	_ = view.Load(ctx)

	scanner := bufio.NewScanner(in)
	for {
		printf("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch verb {
		case "":
		case "quit", "exit":
			return nil
		case "help":
			printf("%s\n", communityHelp)
		case "reload":
			_ = view.Load(ctx)
		case "open", "join":
			id, err := parseGroupID(rest)
			if err != nil {
				printf("%s\n", errorStyle.Render(client.Message(err)))
				continue
			}
			if verb == "open" {
				_ = view.SelectGroup(ctx, id)
			} else {
				_ = view.Join(ctx, id)
			}
		case "post":
			title, content, _ := strings.Cut(rest, "|")
			_ = view.CreatePost(ctx, strings.TrimSpace(title), strings.TrimSpace(content))
		case "like":
			_ = view.ToggleLike(ctx, rest)
		case "delete":
			_ = view.DeletePost(ctx, rest)
		default:
			view.SearchInput(line)
		}
	}
}

func renderState(w io.Writer, s views.State) {
	fmt.Fprintln(w)
	if s.Error != "" {
		fmt.Fprintln(w, errorStyle.Render(s.Error))
	}
	now := time.Now()
	if s.Selected == nil {
		if s.Query != "" {
			fmt.Fprintln(w, mutedStyle.Render("Tìm kiếm: "+s.Query))
		}
		renderGroups(w, s.Groups, now)
		return
	}

	fmt.Fprintln(w, titleStyle.Render(s.Selected.Name))
	if s.Selected.Description != "" {
		fmt.Fprintln(w, s.Selected.Description)
	}
	if !s.Permissions.CanView {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Bạn cần tham gia nhóm để xem và đăng bài. Gõ `join %d`.", s.Selected.ID)))
		return
	}
	renderPosts(w, s.Posts, now)
}
