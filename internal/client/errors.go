package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Gopher0727/Cario/utils/inflight"
	"github.com/Gopher0727/Cario/utils/latest"
)

// Kind 错误大类
type Kind string

const (
	KindNetwork    Kind = "network"    // 传输失败
	KindHTTP       Kind = "http"       // 4xx/5xx
	KindPayload    Kind = "payload"    // 响应格式不符或 success:false
	KindValidation Kind = "validation" // 请求前的参数校验失败
)

// 结构化错误码，展示文案只依据错误码选择
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeBadRequest         = "bad_request"
	CodeServerError        = "server_error"
	CodeNetwork            = "network"
	CodeInvalidPayload     = "invalid_payload"
	CodeRejected           = "rejected"
	CodeMissingRole        = "missing_role"
	CodeJoinRequired       = "join_required"
	CodeValidation         = "validation"
	CodeSuperseded         = "superseded"
	CodeBusy               = "busy"
	CodeCanceled           = "canceled"
	CodeUnknown            = "unknown"
)

// Error 客户端统一错误
type Error struct {
	Kind    Kind
	Op      string // 调用的方法名，如 "ListGroups"
	Status  int    // HTTP 状态码，非 HTTP 错误为 0
	Code    string
	Message string // 服务端或校验给出的原始信息，仅用于日志
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, msg, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError 构造参数校验错误
func ValidationError(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Code: CodeValidation, Message: message}
}

// codeForStatus 没有业务错误码时按状态码推导
func codeForStatus(op string, status int) string {
	switch {
	case status == http.StatusForbidden && op == "Login":
		return CodeInvalidCredentials
	case status == http.StatusUnauthorized:
		return CodeUnauthorized
	case status == http.StatusForbidden:
		return CodeForbidden
	case status == http.StatusNotFound:
		return CodeNotFound
	case status >= 500:
		return CodeServerError
	default:
		return CodeBadRequest
	}
}

// CodeOf 提取错误码
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	switch {
	case errors.As(err, &e):
		return e.Code
	case errors.Is(err, latest.ErrSuperseded):
		return CodeSuperseded
	case errors.Is(err, inflight.ErrBusy):
		return CodeBusy
	case errors.Is(err, context.Canceled):
		return CodeCanceled
	default:
		return CodeUnknown
	}
}

// KindOf 提取错误大类，未知错误为 ""
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var messages = map[string]string{
	CodeInvalidCredentials: "Username hoặc password không đúng. Vui lòng kiểm tra lại.",
	CodeUnauthorized:       "Tài khoản không được phép truy cập.",
	CodeForbidden:          "Bạn không có quyền thực hiện thao tác này.",
	CodeNotFound:           "Không tìm thấy dữ liệu yêu cầu.",
	CodeBadRequest:         "Yêu cầu không hợp lệ.",
	CodeServerError:        "Lỗi server. Vui lòng thử lại sau.",
	CodeNetwork:            "Không thể kết nối đến server. Vui lòng kiểm tra kết nối mạng và thử lại.",
	CodeInvalidPayload:     "Server response không hợp lệ. Vui lòng liên hệ admin.",
	CodeMissingRole:        "Server response không hợp lệ. Vui lòng liên hệ admin.",
	CodeJoinRequired:       "Bạn cần tham gia nhóm để xem và đăng bài.",
	CodeSuperseded:         "Yêu cầu đã được thay thế bởi yêu cầu mới hơn.",
	CodeBusy:               "Thao tác đang được xử lý, vui lòng đợi.",
	CodeCanceled:           "Yêu cầu đã bị hủy.",
}

// GenericMessage 未能归类时的兜底文案
const GenericMessage = "Đã xảy ra lỗi. Vui lòng thử lại."

// Message 把错误转成展示文案。校验错误与 success:false 直接展示服务端/校验信息
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && (e.Code == CodeValidation || e.Code == CodeRejected || e.Code == CodeBadRequest) && e.Message != "" {
		return e.Message
	}
	if msg, ok := messages[CodeOf(err)]; ok {
		return msg
	}
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return GenericMessage
}

// HTTPStatus BFF 对外返回的状态码
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindHTTP && e.Status >= 400 {
		return e.Status
	}
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeJoinRequired, CodeForbidden:
		return http.StatusForbidden
	case CodeSuperseded, CodeBusy:
		return http.StatusConflict
	case CodeNetwork:
		return http.StatusServiceUnavailable
	case CodeInvalidPayload, CodeMissingRole:
		return http.StatusBadGateway
	case CodeRejected:
		return http.StatusUnprocessableEntity
	case CodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}
