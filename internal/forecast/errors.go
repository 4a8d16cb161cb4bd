package forecast

import (
	"errors"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	KindUnsupportedAsset Kind = iota + 1
	KindInvalidDateFormat
	KindInvalidRange
	KindOutOfBounds
	KindRangeTooLong
	KindSourceLoadFailure
	KindNoDataForRange
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedAsset:
		return "UnsupportedAsset"
	case KindInvalidDateFormat:
		return "InvalidDateFormat"
	case KindInvalidRange:
		return "InvalidRange"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindRangeTooLong:
		return "RangeTooLong"
	case KindSourceLoadFailure:
		return "SourceLoadFailure"
	case KindNoDataForRange:
		return "NoDataForRange"
	default:
		return "Unknown"
	}
}

// HTTPStatus 错误类别对应的 HTTP 状态码
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnsupportedAsset, KindInvalidDateFormat, KindInvalidRange, KindOutOfBounds, KindRangeTooLong:
		return http.StatusBadRequest
	case KindNoDataForRange:
		return http.StatusBadRequest
	case KindSourceLoadFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error 预测请求失败。Message 可直接返回给调用方，Err 仅用于日志。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf 返回 err 链中第一个 *Error 的类别，没有则返回 0
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}
