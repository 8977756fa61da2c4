package domain

import "time"

// ChatMessage is a single message within a match conversation
type ChatMessage struct {
	ID       string    `json:"id"`
	MatchID  string    `json:"match_id"`
	SenderID string    `json:"sender_id"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
}
