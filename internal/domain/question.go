package domain

import "time"

// DailyQuestion is the community question served for a given day
type DailyQuestion struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Text string `json:"text"`
}

// QuestionAnswer records a user's answer to a daily question
type QuestionAnswer struct {
	UserID     string    `json:"user_id"`
	QuestionID string    `json:"question_id"`
	Answer     string    `json:"answer"`
	AnsweredAt time.Time `json:"answered_at"`
}
