package training

// CanTransition reports whether a training may move between the two statuses.
// Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusScheduled:
		return to == StatusOngoing || to == StatusCancelled
	case StatusOngoing:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}
