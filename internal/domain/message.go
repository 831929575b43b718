package domain

// Message is one chat line. Immutable after creation; Timestamp is
// assigned at server receipt time, ISO-8601.
type Message struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}
