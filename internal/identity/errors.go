package identity

import "errors"

var (
	ErrMissingToken = errors.New("missing access token")

	ErrInvalidToken = errors.New("invalid access token")

	ErrInvalidSubject = errors.New("token subject is not a user id")

	ErrSecretNotConfigured = errors.New("jwt secret not configured")
)
