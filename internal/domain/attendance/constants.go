package attendance

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
)

// LateGrace is how far past the configured workday start a check-in may
// land before the day is marked late.
const LateGrace = 15 // minutes
