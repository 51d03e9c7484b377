package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Gopher0727/Cario/internal/community"
	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/services"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func roleLabel(r models.Role) string {
	if r == models.RoleNone {
		return "-"
	}
	return string(r)
}

func renderGroups(w io.Writer, groups []models.Group, now time.Time) {
	if len(groups) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Không có nhóm nào."))
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTÊN\tVAI TRÒ\tTHÀNH VIÊN\tTẠO")
	for _, g := range groups {
		name := g.Name
		if g.IsPrivate {
			name += " (riêng tư)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", g.ID, name, roleLabel(g.UserRole), g.CountUserJoin, community.TimeAgo(g.CreatedAt, now))
	}
	_ = tw.Flush()
}

func renderPosts(w io.Writer, posts []models.Post, now time.Time) {
	if len(posts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Chưa có bài viết nào."))
		return
	}
	for _, p := range posts {
		like := "♡"
		if p.UserIsLike {
			like = "♥"
		}
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render("#"+p.ID), titleStyle.Render(p.Title))
		fmt.Fprintf(w, "  %s · %s · %s %d · 💬 %d\n",
			p.Author.Username, community.TimeAgo(p.CreatedAt, now), like, p.CountLike, p.CountComment)
		if content := strings.TrimSpace(p.Content); content != "" {
			fmt.Fprintf(w, "  %s\n", content)
		}
		fmt.Fprintln(w)
	}
}

func renderThreads(w io.Writer, threads []models.CommentThread, now time.Time) {
	if len(threads) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Chưa có bình luận nào."))
		return
	}
	for _, t := range threads {
		fmt.Fprintf(w, "%s %s: %s\n", mutedStyle.Render("#"+t.ID), t.Author.Username, t.Content)
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(community.CommentTimeAgo(t.CreatedAt, now)))
		for _, r := range t.Replies {
			fmt.Fprintf(w, "    ↳ %s %s: %s\n", mutedStyle.Render("#"+r.ID), r.Author.Username, r.Content)
		}
	}
}

func renderQuestion(w io.Writer, n int, q models.Question) {
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render(fmt.Sprintf("Câu %d.", n)), q.Content)
	for i, a := range q.Answers {
		fmt.Fprintf(w, "  %d) %s\n", i+1, a.Content)
	}
}

func renderResult(w io.Writer, res *services.QuizResult) {
	if res == nil {
		fmt.Fprintln(w, mutedStyle.Render("Chưa có kết quả nào."))
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Câu trả lời của bạn"))
	for i, item := range res.Items {
		fmt.Fprintf(w, "  %d. %s → %s\n", i+1, item.Question, item.Answer)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Phân tích"))
	fmt.Fprintln(w, res.Analysis)
}
