package state

// validTransitions contains the permitted forward transitions in the
// onboarding dialog.
var validTransitions = map[State][]State{
	StateAwaitingKnownLanguage: {
		StateAwaitingTargetLanguage,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is
// valid. Restarting the dialog (/start) is always allowed, so any state may
// re-enter StateAwaitingKnownLanguage.
func IsTransitionAllowed(from, to State) bool {
	if to == StateAwaitingKnownLanguage {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}
