package reservation

import "errors"

// errors used by controllers

type ErrCode string

const (
	ErrInvalidDate     ErrCode = "INVALID_DATE"
	ErrPastDate        ErrCode = "PAST_DATE"
	ErrDuplicateActive ErrCode = "DUPLICATE_ACTIVE"
	ErrTitleNotFound   ErrCode = "TITLE_NOT_FOUND"
	ErrNotFound        ErrCode = "RESERVATION_NOT_FOUND"
	ErrNotQueued       ErrCode = "NOT_QUEUED"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, or "" for an uncoded (storage) error.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
