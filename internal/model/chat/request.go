package chat

// Request is the body posted to the chat endpoint.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}
