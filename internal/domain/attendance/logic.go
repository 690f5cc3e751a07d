package attendance

import (
	"fmt"
	"time"
)

// DeriveStatus classifies a check-in against the workday start given as
// "HH:MM". A check-in within LateGrace minutes of the start counts as
// present.
func DeriveStatus(checkIn time.Time, workdayStart string) string {
	var hour, minute int
	if _, err := fmt.Sscanf(workdayStart, "%d:%d", &hour, &minute); err != nil {
		return StatusPresent
	}
	start := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), hour, minute, 0, 0, checkIn.Location())
	if checkIn.After(start.Add(LateGrace * time.Minute)) {
		return StatusLate
	}
	return StatusPresent
}

// WorkedMinutes is the whole-minute duration between check-in and
// check-out, never negative.
func WorkedMinutes(checkIn, checkOut time.Time) int {
	mins := int(checkOut.Sub(checkIn).Minutes())
	if mins < 0 {
		return 0
	}
	return mins
}
