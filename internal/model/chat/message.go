package chat

// Sender identifies who authored a transcript entry.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Entry is one line of the chat transcript. Entries are append-only.
type Entry struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}
