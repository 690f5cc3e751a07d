package attendance

import "errors"

var (
	ErrNotFound          = errors.New("attendance record not found")
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("no open check-in for today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
)
