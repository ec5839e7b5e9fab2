package code

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrCode int

const (
	Success ErrCode = 0
)

const (
	UnDefineErr ErrCode = iota + 10000
	ParamErr
	RecordNotFound
	QueryRecordErr
	CreateDataErr
	UpdateDataErr
	DeleteDataErr
	UpdateConflictErr
)

const (
	CompoundNotFound ErrCode = iota + 20000
	CompoundCreateErr
	CompoundUpdateErr
	CompoundDeleteErr
	CompoundQueryErr
	CompoundExportErr
	CompoundDuplicateErr
)

const (
	UploadFileErr ErrCode = iota + 30000
	UploadTooLargeErr
	DeleteFileErr
	FetchFileErr
	StorageKeyErr
)

const (
	RPCHttpErr ErrCode = iota + 40000
	RPCHttpCodeErr
	PubChemNotFoundErr
	CacheErr
)

var msgs = map[ErrCode]string{
	Success:              "success",
	UnDefineErr:          "internal server error",
	ParamErr:             "invalid parameter",
	RecordNotFound:       "record not found",
	QueryRecordErr:       "query record failed",
	CreateDataErr:        "create data failed",
	UpdateDataErr:        "update data failed",
	DeleteDataErr:        "delete data failed",
	UpdateConflictErr:    "record was modified by another request",
	CompoundNotFound:     "compound not found",
	CompoundCreateErr:    "create compound failed",
	CompoundUpdateErr:    "update compound failed",
	CompoundDeleteErr:    "delete compound failed",
	CompoundQueryErr:     "query compound failed",
	CompoundExportErr:    "export compound failed",
	CompoundDuplicateErr: "compound display number already exists",
	UploadFileErr:        "upload file failed",
	UploadTooLargeErr:    "uploaded file is too large",
	DeleteFileErr:        "delete file failed",
	FetchFileErr:         "fetch file failed",
	StorageKeyErr:        "file reference is not stored in this bucket",
	RPCHttpErr:           "remote request failed",
	RPCHttpCodeErr:       "remote service returned an error",
	PubChemNotFoundErr:   "compound not found in PubChem",
	CacheErr:             "cache operation failed",
}

func (c ErrCode) String() string {
	if msg, ok := msgs[c]; ok {
		return msg
	}
	return msgs[UnDefineErr]
}

func (c ErrCode) Error() string {
	return c.String()
}

func (c ErrCode) Int() int {
	return int(c)
}

// HTTPStatus maps a code to the status written by the web layer.
func (c ErrCode) HTTPStatus() int {
	switch c {
	case Success:
		return http.StatusOK
	case ParamErr, UploadTooLargeErr, StorageKeyErr:
		return http.StatusBadRequest
	case RecordNotFound, CompoundNotFound, PubChemNotFoundErr:
		return http.StatusNotFound
	case UpdateConflictErr, CompoundDuplicateErr:
		return http.StatusConflict
	case RPCHttpErr, RPCHttpCodeErr:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ClientVisible reports whether the detail message may be sent to callers.
func (c ErrCode) ClientVisible() bool {
	return c.HTTPStatus() < http.StatusInternalServerError
}

func (c ErrCode) WithMsg(msg string) *Error {
	return &Error{Code: c, Msg: msg}
}

func (c ErrCode) WithMsgf(format string, args ...any) *Error {
	return &Error{Code: c, Msg: fmt.Sprintf(format, args...)}
}

func (c ErrCode) WithErr(err error) *Error {
	e := &Error{Code: c, Err: err}
	if err != nil {
		e.Msg = err.Error()
	}
	return e
}

func (c ErrCode) WithFields(fields map[string]string) *Error {
	return &Error{Code: c, Fields: fields}
}

type Error struct {
	Code   ErrCode
	Msg    string
	Err    error
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code.String(), e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a wrapped error against its bare code.
func (e *Error) Is(target error) bool {
	if c, ok := target.(ErrCode); ok {
		return e.Code == c
	}
	return false
}

// Parse extracts the code carried by err. Unknown errors map to UnDefineErr.
func Parse(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var c ErrCode
	if errors.As(err, &c) {
		return &Error{Code: c}
	}
	return &Error{Code: UnDefineErr, Err: err}
}
