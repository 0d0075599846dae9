package server

import (
	"errors"
	"fmt"
)

// Error error yang dikembalikan service ke REST layer. msg aman ditampilkan ke client,
// orig disimpan untuk errors.Is / log.
type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

// CodeOf kode error dari err, ErrInternalServerError kalau err bukan *Error.
func CodeOf(err error) error {
	var serr *Error
	if errors.As(err, &serr) && serr.code != nil {
		return serr.code
	}
	return ErrInternalServerError
}

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested node, edge, place name or path is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrConflict will throw if the node id already exists
	ErrConflict = errors.New("your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
	// ErrTimeout will throw if the search exceeded its deadline
	ErrTimeout = errors.New("search timed out")
)

var MessageInternalServerError string = "internal server error"
