package store

// Chat is an indexed chat dataset row.
type Chat struct {
	ChatID           string
	Dataset          string
	Title            string
	Description      string
	MessageCount     int
	ParticipantCount int
	FirstTs          int64 // unix millis, 0 when unknown
	LastTs           int64
}

// Message is an indexed message row.
type Message struct {
	ID           int64
	ChatID       string
	Identity     string
	Sender       string
	Body         string
	RawTimestamp string
	Timestamp    int64
	MediaCount   int
	IsSystem     bool
}

// SearchResult holds a message with a search snippet.
type SearchResult struct {
	Message Message
	Snippet string
}
