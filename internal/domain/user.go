package domain

import "time"

// User represents a learner stored in the database. The Telegram identifier
// doubles as the primary key; both language fields hold canonical catalog
// tags, never raw display labels.
type User struct {
	ID             int64
	KnownLanguage  string
	TargetLanguage string
	NewsCount      int
	CreatedAt      time.Time
}

// Onboarded reports whether the user completed both language-selection steps.
func (u *User) Onboarded() bool {
	return u != nil && u.KnownLanguage != "" && u.TargetLanguage != ""
}
