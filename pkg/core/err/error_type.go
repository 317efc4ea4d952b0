package errorc

import (
	"fmt"
)

type Error struct {
	*ErrorCode
	Msg      string
	Cause    error
	Stack    string `json:"-"`
	TraceID  string
	Entry    string `json:"-"`
	FileName string `json:"-"`
	Line     int    `json:"-"`
	FuncName string `json:"-"`
}

// Unwrap 支持 errors.Is / errors.As 沿错误链追溯
func (e *Error) Unwrap() error {
	return e.Cause
}

type ErrorCode struct {
	Code int
	Name string
}

func (c *ErrorCode) String() string {
	return fmt.Sprintf("%d: %s", c.Code, c.Name)
}

var (
	ErrorCodeUnknown     *ErrorCode = &ErrorCode{500, "Unknown"}
	ErrorCodeDB          *ErrorCode = &ErrorCode{501, "DB"}
	ErrorCodeThird       *ErrorCode = &ErrorCode{502, "Third"}
	ErrorCodeValid       *ErrorCode = &ErrorCode{400, "ValidWithCtx"}
	ErrorCodeNoAuth      *ErrorCode = &ErrorCode{401, "Unauthenticated"}
	ErrorCodeForbidden   *ErrorCode = &ErrorCode{403, "Forbidden"}
	ErrorCodeNotFound    *ErrorCode = &ErrorCode{404, "NotFound"}
	ErrorCodeDuplicate   *ErrorCode = &ErrorCode{409, "Duplicate"}
	ErrorCodeUnavailable *ErrorCode = &ErrorCode{503, "Unavailable"}
	ErrorCodeInternal    *ErrorCode = &ErrorCode{503, "InternalError"}
)
