package service

import "errors"

var (
	ErrEmptyContent     = errors.New("content must not be empty")
	ErrContentTooLong   = errors.New("content must be at most 500 characters")
	ErrEmptyRankName    = errors.New("rank name must not be empty")
	ErrInvalidRankColor = errors.New("rank color must be a hex color such as #6B7280")
)
