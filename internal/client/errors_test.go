package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gopher0727/Cario/utils/inflight"
	"github.com/Gopher0727/Cario/utils/latest"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"nil", nil, "", http.StatusInternalServerError},
		{"superseded", latest.ErrSuperseded, CodeSuperseded, http.StatusConflict},
		{"busy", fmt.Errorf("join: %w", inflight.ErrBusy), CodeBusy, http.StatusConflict},
		{"canceled", context.Canceled, CodeCanceled, 499},
		{"plain", errors.New("boom"), CodeUnknown, http.StatusInternalServerError},
		{"not found", &Error{Kind: KindHTTP, Status: 404, Code: CodeNotFound}, CodeNotFound, 404},
		{"wrapped", fmt.Errorf("svc: %w", ValidationError("Op", "bad")), CodeValidation, http.StatusBadRequest},
		{"local forbidden", &Error{Kind: KindValidation, Code: CodeForbidden}, CodeForbidden, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
			if tt.err != nil {
				assert.Equal(t, tt.status, HTTPStatus(tt.err))
			}
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Empty(t, Message(nil))
	assert.Equal(t, GenericMessage, Message(errors.New("internal detail")))
	assert.Equal(t, "Tên không hợp lệ", Message(ValidationError("Op", "Tên không hợp lệ")))
	assert.Equal(t, messages[CodeServerError], Message(&Error{Kind: KindHTTP, Status: 502, Code: CodeServerError, Message: "stack trace"}))
	assert.Equal(t, messages[CodeBusy], Message(inflight.ErrBusy))
	assert.Equal(t, "quota", Message(&Error{Kind: KindHTTP, Status: 429, Code: "quota_exceeded", Message: "quota"}))
}

func TestErrorString(t *testing.T) {
	e := &Error{Op: "JoinGroup", Status: 403, Message: "no"}
	assert.Equal(t, "JoinGroup: no (HTTP 403)", e.Error())

	inner := errors.New("dial tcp")
	e = &Error{Op: "Posts", Err: inner}
	assert.Equal(t, "Posts: dial tcp", e.Error())
	assert.ErrorIs(t, e, inner)
}
