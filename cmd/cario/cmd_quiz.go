package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/services"
	"github.com/Gopher0727/Cario/internal/session"
)

func newQuizCmd(st *rootState) *cobra.Command {
	var showResult bool
	cmd := &cobra.Command{
		Use:   "quiz <type>",
		Short: "Làm bài trắc nghiệm (science, stone, fantasy, ordinary)",
		Args: func(cmd *cobra.Command, args []string) error {
			if showResult {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.application()
			if err != nil {
				return err
			}
			ctx, sess, err := app.withSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showResult {
				renderResult(out, services.LastResult(sess))
				return nil
			}

			questions, err := app.svcs.Quiz.Questions(ctx, args[0])
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("Không có câu hỏi cho loại này."))
				return nil
			}

			in := bufio.NewReader(cmd.InOrStdin())
			answers := make(map[string]string, len(questions))
			for i, q := range questions {
				renderQuestion(out, i+1, q)
				if id, ok := readChoice(prompt(in, out, "Chọn (Enter để bỏ qua): "), q); ok {
					answers[q.ID] = id
				}
				fmt.Fprintln(out)
			}

			fmt.Fprintln(out, mutedStyle.Render("Đang phân tích..."))
			res, err := app.svcs.Quiz.Submit(ctx, sess, services.SubmitRequest{Type: args[0], Answers: answers})
			if err != nil {
				return err
			}
			renderResult(out, res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showResult, "result", false, "hiện kết quả gần nhất đã lưu trong phiên")
	return cmd
}

// readChoice 把 1..n 的输入转换成答案 ID
func readChoice(line string, q models.Question) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(q.Answers) {
		return "", false
	}
	return q.Answers[n-1].ID, true
}

func newChatCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Hỏi chatbot hướng nghiệp",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.application()
			if err != nil {
				return err
			}
			ctx, _, err := app.withSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			reply, err := app.svcs.Chat.Send(ctx, session.Viewer(ctx), services.ChatRequest{Message: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
