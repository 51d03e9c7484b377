package session

import (
	"context"

	"github.com/Gopher0727/Cario/internal/client"
)

type ctxKey struct{}

// NewContext 把会话放进 ctx，同时让后续的后端请求携带会话中的 token
func NewContext(ctx context.Context, s *Session) context.Context {
	if s == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxKey{}, s)
	if s.Token != "" {
		ctx = client.WithToken(ctx, s.Token)
	}
	return ctx
}

// FromContext 取出会话，未登录时为 nil
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// Viewer 当前用户名，未登录时为 ""
func Viewer(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Username
	}
	return ""
}
