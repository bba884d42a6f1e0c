package domain

// ChatEntry is one line of the user-visible transcript.
type ChatEntry struct {
	Content string `json:"content"`
	IsUser  bool   `json:"is_user"`
	Coach   string `json:"coach,omitempty"`
}
