package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error 带 HTTP 状态码的领域错误
type Error struct {
	Code    int    // HTTP 状态码
	Message string // 面向用户的提示
	Err     error  // 底层错误（可选）
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is 按状态码匹配哨兵错误，errors.Is(err, ErrValidation) 对任意 400 错误成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage 返回替换提示后的新错误
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause 返回包装了底层错误的新错误
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// 哨兵错误
var (
	ErrValidation = &Error{Code: http.StatusBadRequest, Message: "validation failed"}
	ErrNotFound   = &Error{Code: http.StatusNotFound, Message: "not found"}
	ErrAuth       = &Error{Code: http.StatusUnauthorized, Message: "invalid login or password"}
	ErrNetwork    = &Error{Code: http.StatusBadGateway, Message: "backend unavailable"}
)

// Validation 构造校验失败错误
func Validation(msg string) *Error {
	return ErrValidation.WithMessage(msg)
}

// Network 包装后端通信失败
func Network(err error) *Error {
	return ErrNetwork.WithCause(err)
}

// Code 取错误对应的 HTTP 状态码，非领域错误一律 500
func Code(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}

// Message 取面向用户的提示
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
