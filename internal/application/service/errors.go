package service

import "errors"

var (
	ErrInvalidFormat      = errors.New("invalid report format")
	ErrInvalidOption      = errors.New("invalid report option")
	ErrInvalidDateRange   = errors.New("start date is after end date")
	ErrInvalidWorkType    = errors.New("invalid work type")
	ErrInvalidStatus      = errors.New("invalid approval status")
	ErrNoVisibleEmployees = errors.New("no visible employees for this request")
	ErrRenderFailed       = errors.New("report rendering failed")
)
