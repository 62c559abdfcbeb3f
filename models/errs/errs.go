package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind - стабильный машиночитаемый вид ошибки, текст сообщения предназначен только для человека
type Kind string

const (
	KindValidation       Kind = "validation"
	KindAuthorization    Kind = "authorization"
	KindNotFound         Kind = "not_found"
	KindStaleState       Kind = "stale_state"
	KindInvariant        Kind = "invariant"
	KindAlreadyConfirmed Kind = "already_confirmed"
	KindResolution       Kind = "resolution"
)

type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.cause.Error())
	}
	return e.msg
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, msg string) error {
	return &Error{kind: kind, msg: msg, cause: err}
}

// KindOf возвращает вид ошибки, если она создана этим пакетом, иначе пустую строку
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
