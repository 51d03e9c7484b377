package main

import (
	"context"
	"errors"

	"github.com/Gopher0727/Cario/config"
	"github.com/Gopher0727/Cario/internal/client"
	"github.com/Gopher0727/Cario/internal/services"
	"github.com/Gopher0727/Cario/internal/session"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

var errNotLoggedIn = errors.New("Bạn chưa đăng nhập. Hãy chạy `cario login`.")

// cliApp 命令行使用文件会话，多次调用之间保持登录状态
type cliApp struct {
	cfg   *config.Config
	log   *logger.Logger
	store *session.FileStore
	svcs  *services.Services
}

func newCLIApp(cfg *config.Config, log *logger.Logger) (*cliApp, error) {
	store, err := session.NewFileStore(cfg.Session.FilePath)
	if err != nil {
		return nil, err
	}
	c := client.New(cfg.Backend, log)
	return &cliApp{
		cfg:   cfg,
		log:   log,
		store: store,
		svcs:  services.New(c, store, cfg, log),
	}, nil
}

// currentSession 已保存的有效会话，未登录时为 nil
func (a *cliApp) currentSession(ctx context.Context) (*session.Session, error) {
	sess, err := a.svcs.Auth.Current(ctx, session.CLISessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	return sess, err
}

// withSession 把会话放进 ctx；required 为 true 时未登录直接报错
func (a *cliApp) withSession(ctx context.Context, required bool) (context.Context, *session.Session, error) {
	sess, err := a.currentSession(ctx)
	if err != nil {
		return ctx, nil, err
	}
	if sess == nil {
		if required {
			return ctx, nil, errNotLoggedIn
		}
		return ctx, nil, nil
	}
	return session.NewContext(ctx, sess), sess, nil
}

// displayError 客户端错误只展示对应文案，其余错误原样输出
func displayError(err error) string {
	if client.KindOf(err) != "" || client.CodeOf(err) != client.CodeUnknown {
		return client.Message(err)
	}
	return err.Error()
}
