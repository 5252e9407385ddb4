package domain

type ErrorKind string

const (
	ErrNotFound   ErrorKind = "not_found"
	ErrBadRequest ErrorKind = "bad_request"
	ErrConflict   ErrorKind = "conflict"
	ErrForbidden  ErrorKind = "forbidden"
)

// Error 是排班核心抛出的业务错误，Kind 用于区分"参数有误"、"时间冲突"和"记录被锁定"
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func NewNotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NewBadRequest(msg string) *Error {
	return &Error{Kind: ErrBadRequest, Message: msg}
}

func NewConflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func NewForbidden(msg string) *Error {
	return &Error{Kind: ErrForbidden, Message: msg}
}
