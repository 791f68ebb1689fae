package review

import "errors"

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrDuplicateReview  = errors.New("you have already reviewed this artisan")
	ErrArtisanNotFound  = errors.New("artisan not found")
	ErrSelfReview       = errors.New("you cannot review your own profile")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong   = errors.New("comment must be at most 2000 characters")
	ErrInvalidArtisanID = errors.New("invalid artisan id")
	ErrInvalidReviewID  = errors.New("invalid review id")
	ErrUnauthorized     = errors.New("Unauthorized")
)
