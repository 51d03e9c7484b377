package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Gopher0727/Cario/config"
	logger "github.com/Gopher0727/Cario/middleware/log"
)

// TokenCookie 后端登录后下发的认证 Cookie
const TokenCookie = "token"

// Client 访问 Cario 后端（主 API、聊天机器人、答卷分析）
type Client struct {
	BaseURL     string
	ChatbotURL  string
	AnalysisURL string
	HTTPClient  *http.Client
	log         *logger.Logger
}

// New 按配置创建客户端
func New(cfg config.BackendConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		ChatbotURL:  strings.TrimRight(cfg.ChatbotURL, "/"),
		AnalysisURL: strings.TrimRight(cfg.AnalysisURL, "/"),
		HTTPClient:  &http.Client{Timeout: timeout},
		log:         log.Named("client"),
	}
}

type tokenKey struct{}

// WithToken 把后端令牌放进 ctx，之后的请求都会携带 token Cookie
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom 取出 ctx 中的后端令牌
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// call 一次请求的描述
type call struct {
	op     string
	method string
	base   string
	path   string
	query  url.Values
	body   any
}

// response 原始响应
type response struct {
	status  int
	header  http.Header
	payload any // 已解码的 JSON（数字为 json.Number），空响应体为 nil
	raw     []byte
}

func (c *Client) url(base, path string, query url.Values) string {
	u := base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send 发起请求并解码 JSON。非 2xx 返回 *Error (KindHTTP)
func (c *Client) send(ctx context.Context, in call) (*response, error) {
	base := in.base
	if base == "" {
		base = c.BaseURL
	}
	target := c.url(base, in.path, in.query)

	var reader io.Reader
	if in.body != nil {
		buf, err := json.Marshal(in.body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Op: in.op, Code: CodeValidation, Message: "không thể mã hóa dữ liệu", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, target, reader)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: in.op, Code: CodeNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	}
	if traceID := logger.GetTraceID(ctx); traceID != "" {
		req.Header.Set(logger.TraceHeader, traceID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		code := CodeNetwork
		if errors.Is(err, context.Canceled) {
			code = CodeCanceled
		}
		c.log.WarnContext(ctx, "backend call failed",
			zap.String("op", in.op), zap.String("url", target), zap.Error(err))
		return nil, &Error{Kind: KindNetwork, Op: in.op, Code: code, Message: "không thể kết nối đến server", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: in.op, Code: CodeNetwork, Status: resp.StatusCode, Err: err}
	}

	out := &response{status: resp.StatusCode, header: resp.Header, raw: raw}
	out.payload, err = decodeJSON(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := &Error{
			Kind:    KindHTTP,
			Op:      in.op,
			Status:  resp.StatusCode,
			Code:    codeForStatus(in.op, resp.StatusCode),
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
		if body, ok := out.payload.(map[string]any); ok {
			if msg := firstString(body, "message", "error"); msg != "" {
				e.Message = msg
			}
			if code := firstString(body, "code"); code != "" && !isNumeric(code) {
				e.Code = code
			}
		}
		c.log.WarnContext(ctx, "backend returned error status",
			zap.String("op", in.op), zap.String("url", target),
			zap.Int("status", resp.StatusCode), zap.String("code", e.Code))
		return nil, e
	}
	if err != nil {
		// 2xx 但不是 JSON：保留原文，由调用方决定是否接受
		out.payload = nil
	}
	return out, nil
}

// do 发起请求并拆开 {success,data,error} 信封
func (c *Client) do(ctx context.Context, in call) (any, error) {
	resp, err := c.send(ctx, in)
	if err != nil {
		return nil, err
	}
	data, err := unwrapOp(in.op, resp.payload)
	if err != nil {
		c.log.WarnContext(ctx, "backend rejected request", zap.String("op", in.op), zap.Error(err))
		return nil, err
	}
	return data, nil
}

func decodeJSON(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// unwrap 带 success 字段的对象视为信封，其余 JSON 值本身就是数据
func unwrap(payload any) (any, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return payload, nil
	}
	flag, has := m["success"]
	if !has {
		return payload, nil
	}
	if ok, _ := flag.(bool); !ok {
		e := &Error{Kind: KindPayload, Code: CodeRejected, Message: firstString(m, "error", "message")}
		if e.Message == "" {
			e.Message = "API returned unsuccessful response"
		}
		if code := firstString(m, "code"); code != "" && !isNumeric(code) {
			e.Code = code
		}
		return nil, e
	}
	return m["data"], nil
}

func unwrapOp(op string, payload any) (any, error) {
	data, err := unwrap(payload)
	var e *Error
	if errors.As(err, &e) {
		e.Op = op
	}
	return data, err
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func isNumeric(s string) bool {
	_, err := json.Number(s).Int64()
	return err == nil
}

func payloadError(op, message string) *Error {
	return &Error{Kind: KindPayload, Op: op, Code: CodeInvalidPayload, Message: message}
}
