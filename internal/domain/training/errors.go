package training

import "errors"

var (
	ErrNotFound          = errors.New("training not found")
	ErrNotOpen           = errors.New("training is not open for enrollment")
	ErrFull              = errors.New("training is at capacity")
	ErrAlreadyEnrolled   = errors.New("already enrolled in this training")
	ErrNotEnrolled       = errors.New("not enrolled in this training")
	ErrInvalidTransition = errors.New("invalid training status transition")
)
