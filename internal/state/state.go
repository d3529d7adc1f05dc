package state

import "time"

// State represents a position in the onboarding dialog.
type State string

const (
	// StateAwaitingKnownLanguage indicates the user must pick the language
	// they already speak.
	StateAwaitingKnownLanguage State = "awaiting_known_language"
	// StateAwaitingTargetLanguage indicates the user must pick the language
	// they want to learn.
	StateAwaitingTargetLanguage State = "awaiting_target_language"
)

// UserState captures the current dialog state for a Telegram user. Users
// with no stored state are out of the dialog and handled by the default
// feedback flow.
type UserState struct {
	UserID       int64     `json:"user_id"`
	CurrentState State     `json:"current_state"`
	UpdatedAt    time.Time `json:"updated_at"`
}
