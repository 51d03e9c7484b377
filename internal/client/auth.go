package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gopher0727/Cario/middleware/jwt"
)

// LoginResult 登录成功后得到的身份信息
type LoginResult struct {
	Username  string
	Role      string
	Token     string    // 后端 token Cookie 的值
	ExpiresAt time.Time // 令牌过期时间，未知时为零值
}

// Login POST /login，角色在响应体中，令牌在 Set-Cookie 中
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	const op = "Login"
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ValidationError(op, "Vui lòng nhập đầy đủ username và password")
	}

	resp, err := c.send(ctx, call{
		op:     op,
		method: http.MethodPost,
		path:   "/login",
		body:   map[string]string{"username": username, "password": password},
	})
	if err != nil {
		return nil, err
	}
	data, err := unwrapOp(op, resp.payload)
	if err != nil {
		return nil, err
	}

	body, _ := data.(map[string]any)
	role := ""
	if body != nil {
		role = strings.TrimSpace(firstString(body, "role"))
	}
	if role == "" {
		return nil, &Error{Kind: KindPayload, Op: op, Code: CodeMissingRole, Message: "Server response không hợp lệ: thiếu role"}
	}

	out := &LoginResult{Username: username, Role: strings.ToUpper(role)}
	for _, ck := range (&http.Response{Header: resp.header}).Cookies() {
		if ck.Name == TokenCookie {
			out.Token = ck.Value
		}
	}
	if out.Token == "" && body != nil {
		out.Token = firstString(body, "token")
	}
	if out.Token != "" {
		if info, err := jwt.InspectBackendToken(out.Token); err == nil {
			out.ExpiresAt = info.ExpiresAt
		}
	}
	return out, nil
}

// RegisterInput 注册信息
type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register POST /register
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	_, err := c.do(ctx, call{op: "Register", method: http.MethodPost, path: "/register", body: in})
	return err
}

// Logout POST /logout，由服务端清除 Cookie
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, call{op: "Logout", method: http.MethodPost, path: "/logout"})
	return err
}
