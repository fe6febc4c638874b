package domain

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrEditConflict       = errors.New("edit conflict")
	ErrSeatAlreadySold    = errors.New("seat is already sold")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidBookingStep = errors.New("booking step out of order")
)
