package artisan

import "errors"

var (
	ErrArtisanNotFound   = errors.New("artisan not found")
	ErrAlreadyRegistered = errors.New("user already has an artisan profile")
	ErrInvalidStatus     = errors.New("invalid artisan status")
	ErrInvalidArtisanID  = errors.New("invalid artisan id")
	ErrInvalidFullName   = errors.New("full name is required and must be at most 120 characters")
	ErrInvalidProfession = errors.New("profession is required")
	ErrInvalidCity       = errors.New("city is required")
	ErrMissingContact    = errors.New("phone or whatsapp is required")
	ErrBioTooLong        = errors.New("bio must be at most 2000 characters")
	ErrUnauthorized      = errors.New("Unauthorized")
)
