package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidText        = errors.New("invalid text")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidCategoryID  = errors.New("invalid category id")
	ErrInvalidAttachment  = errors.New("invalid attachment")
	ErrAttachmentTooLarge = errors.New("attachment too large")
)
