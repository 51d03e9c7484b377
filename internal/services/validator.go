package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/Gopher0727/Cario/internal/client"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 错误信息使用 json 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("has_lower", hasRune(unicode.IsLower))
	v.RegisterValidation("has_upper", hasRune(unicode.IsUpper))
	v.RegisterValidation("has_digit", hasRune(unicode.IsDigit))
	return v
}

func hasRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), pred) >= 0
	}
}

// fieldMessages 字段.规则 -> 提示文案
var fieldMessages = map[string]string{
	"username.notblank":       "Vui lòng nhập username",
	"password.required":       "Vui lòng nhập mật khẩu",
	"password.min":            "Mật khẩu phải có ít nhất 6 ký tự",
	"password.has_lower":      "Mật khẩu phải chứa ít nhất 1 chữ thường",
	"password.has_upper":      "Mật khẩu phải chứa ít nhất 1 chữ hoa",
	"password.has_digit":      "Mật khẩu phải chứa ít nhất 1 số",
	"confirmPassword.eqfield": "Mật khẩu xác nhận không khớp",
	"email.notblank":          "Vui lòng nhập email",
	"email.simple_email":      "Email không hợp lệ",
	"fullName.min":            "Họ và tên phải có ít nhất 2 ký tự",
	"name.notblank":           "Vui lòng nhập tên nhóm",
	"title.notblank":          "Vui lòng nhập tiêu đề",
	"content.notblank":        "Vui lòng nhập nội dung",
	"message.notblank":        "Vui lòng nhập tin nhắn",
	"type.oneof":              "Loại câu hỏi không hợp lệ",
	"type.required":           "Vui lòng chọn loại câu hỏi",
	"answers.len":             "Vui lòng nhập đầy đủ 4 lựa chọn",
	"role.oneof":              "Vai trò không hợp lệ",
	"status.notblank":         "Vui lòng chọn trạng thái",
	"groupId.gt":              "Nhóm không hợp lệ",
	"userId.gt":               "Người dùng không hợp lệ",
	"answers[].notblank":      "Vui lòng nhập đầy đủ 4 lựa chọn",

	"QuestionRequest.content.notblank": "Vui lòng nhập câu hỏi",
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// check 校验请求结构体，返回第一条错误对应的 *client.Error
func check(op string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return client.ValidationError(op, err.Error())
	}
	fe := errs[0]
	namespace := indexPattern.ReplaceAllString(fe.Namespace(), "[]")
	field := indexPattern.ReplaceAllString(fe.Field(), "[]")
	for _, key := range []string{namespace + "." + fe.Tag(), field + "." + fe.Tag()} {
		if msg, ok := fieldMessages[key]; ok {
			return client.ValidationError(op, msg)
		}
	}
	return client.ValidationError(op, fmt.Sprintf("Trường %s không hợp lệ", fe.Field()))
}
