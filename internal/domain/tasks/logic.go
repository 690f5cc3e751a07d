package tasks

// CanTransition reports whether a task may move between the two statuses.
// Done and cancelled are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusTodo:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusDone || to == StatusCancelled
	default:
		return false
	}
}
