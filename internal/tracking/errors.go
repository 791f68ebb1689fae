package tracking

import "errors"

var (
	ErrInvalidUserID = errors.New("invalid user id")

	ErrInvalidArtisanID = errors.New("invalid artisan id")

	ErrInvalidSessionID = errors.New("invalid session id")

	ErrInvalidContactType = errors.New("invalid contact type")

	ErrInvalidEventType = errors.New("invalid modal event type")

	ErrInvalidConversionAction = errors.New("invalid conversion action")
)
