package types

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AskRequest struct {
	ChatID   string `json:"chat_id,omitempty"`
	Question string `json:"question"`
}

type AskResponse struct {
	ChatID        string `json:"chat_id"`
	Answer        string `json:"answer"`
	ContextChunks int    `json:"context_chunks"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// Handle stream responses
type StreamHandler func(response string)
