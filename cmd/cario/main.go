package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gopher0727/Cario/config"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(displayError(err)))
		os.Exit(1)
	}
}

// rootState 所有子命令共享的配置、日志和懒加载的应用实例
type rootState struct {
	cfgPath string
	verbose bool

	cfg *config.Config
	log *logger.Logger
	app *cliApp
}

func newRootCmd() *cobra.Command {
	st := &rootState{}
	root := &cobra.Command{
		Use:   "cario",
		Short: "Cario - trắc nghiệm hướng nghiệp, chatbot và cộng đồng",
		Long: `Cario là client cho hệ thống hướng nghiệp:

  serve      chạy BFF HTTP cho giao diện web
  login      đăng nhập, phiên được lưu trong file YAML
  groups     danh sách / tìm kiếm nhóm
  community  giao diện cộng đồng tương tác (tìm kiếm có debounce)
  quiz       làm bài trắc nghiệm và nhận phân tích
  chat       hỏi chatbot`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if st.log != nil {
				_ = st.log.Close()
			}
		},
	}
	root.PersistentFlags().StringVarP(&st.cfgPath, "config", "c", "config.toml", "đường dẫn file cấu hình")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "ghi log debug")

	root.AddCommand(
		newServeCmd(st),
		newLoginCmd(st),
		newLogoutCmd(st),
		newWhoamiCmd(st),
		newGroupsCmd(st),
		newPostsCmd(st),
		newJoinCmd(st),
		newCommunityCmd(st),
		newForumCmd(st),
		newCommentsCmd(st),
		newQuizCmd(st),
		newChatCmd(st),
	)
	return root
}

// init 加载配置与日志
func (st *rootState) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(st.cfgPath)
	if err != nil {
		return err
	}
	if cmd.Name() != "serve" {
		// 命令行的输出占用 stdout，日志改写到 stderr 且默认只记录警告
		if cfg.Logging.Output == "stdout" {
			cfg.Logging.Output = "stderr"
		}
		cfg.Logging.Level = "warn"
	}
	if st.verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("日志初始化失败: %w", err)
	}
	st.cfg, st.log = cfg, log
	return nil
}

// application 第一次使用时创建命令行应用
func (st *rootState) application() (*cliApp, error) {
	if st.app != nil {
		return st.app, nil
	}
	app, err := newCLIApp(st.cfg, st.log)
	if err != nil {
		return nil, err
	}
	st.app = app
	return app, nil
}
