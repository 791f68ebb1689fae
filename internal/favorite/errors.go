package favorite

import "errors"

var (
	ErrUnauthorized = errors.New("Unauthorized")

	ErrAlreadyFavorite = errors.New("artisan is already a favorite")

	ErrArtisanNotFound = errors.New("artisan not found")

	// errToggleFailed is what callers see for store failures; the cause is logged.
	errToggleFailed = errors.New("failed to toggle favorite")

	ErrInvalidArtisanID = errors.New("invalid artisan id")
)
