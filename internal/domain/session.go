package domain

// Session is the per-conversation UI state of the messaging front-end.
// It is loaded from a SessionStore at the start of each update and saved
// back after mutation; handlers never share it.
type Session struct {
	ChatID          int64
	CurrentChain    Chain
	AwaitingAddress bool
	UpdatedAt       int64 // ms, set by the store
}

// NewSession returns the initial state for a conversation.
func NewSession(chatID int64) *Session {
	return &Session{
		ChatID:       chatID,
		CurrentChain: DefaultChain,
	}
}
