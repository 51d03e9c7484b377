package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gopher0727/Cario/internal/services"
	"github.com/Gopher0727/Cario/internal/session"
)

func newLoginCmd(st *rootState) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Đăng nhập và lưu phiên",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := st.application()
			if err != nil {
				return err
			}
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			if username == "" {
				username = prompt(in, out, "Username: ")
			}
			if password == "" {
				password = prompt(in, out, "Password: ")
			}

			sess, err := app.svcs.Auth.Login(cmd.Context(), services.LoginRequest{Username: username, Password: password}, session.CLISessionID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("Đăng nhập thành công: %s (%s)", sess.Username, sess.Role)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "tên đăng nhập")
	cmd.Flags().StringVarP(&password, "password", "p", "", "mật khẩu (bỏ trống để nhập từ stdin)")
	return cmd
}

func newLogoutCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Đăng xuất và xoá phiên",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := st.application()
			if err != nil {
				return err
			}
			if err := app.svcs.Auth.Logout(cmd.Context(), session.CLISessionID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Đã đăng xuất.")
			return nil
		},
	}
}

func newWhoamiCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Hiển thị người dùng hiện tại",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := st.application()
			if err != nil {
				return err
			}
			sess, err := app.currentSession(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if sess == nil {
				fmt.Fprintln(out, "Chưa đăng nhập.")
				return nil
			}
			me := services.MeOf(sess)
			fmt.Fprintf(out, "%s (%s)\n", me.Username, me.Role)
			fmt.Fprintf(out, "Trang mặc định: %s\n", me.DefaultRoute)
			fmt.Fprintf(out, "Hết hạn: %s\n", me.ExpiresAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintln(out, mutedStyle.Render("Phiên lưu tại "+app.store.Path()))
			return nil
		},
	}
}

// prompt 打印提示并读取一行
func prompt(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	line, _ := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
