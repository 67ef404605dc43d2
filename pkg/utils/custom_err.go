package utils

import "errors"

var (
	ErrTripNotFound           = errors.New("trip not found")
	ErrStopNotFound           = errors.New("stop not found")
	ErrHotelNotSet            = errors.New("hotel anchor not set for trip")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidPage            = errors.New("invalid page parameter")
	ErrInvalidPageSize        = errors.New("invalid page size parameter")
	ErrDatabaseError          = errors.New("database error")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected AI response")
	ErrPoorQualityInput       = errors.New("input too poor to extract stops from")
)
