// Package mail renders account emails and delivers them through a Redis backed outbox.
package mail

// Message is one outgoing email. Attempts counts failed deliveries so far.
type Message struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	Text     string   `json:"text"`
	HTML     string   `json:"html,omitempty"`
	Attempts int      `json:"attempts"`
}
