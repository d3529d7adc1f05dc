package domain

// Role tags a transcript entry with its author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry in a chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UsageTotals holds cumulative token counts for one user. Counts only ever
// grow; the ledger is an additive audit trail.
type UsageTotals struct {
	UserID       int64
	InputTokens  int64
	OutputTokens int64
}
