package domain

import "time"

// Lifestyle captures optional lifestyle preferences on a profile
type Lifestyle struct {
	Alcohol string `json:"alcohol,omitempty"`
	Smoking string `json:"smoking,omitempty"`
}

// Profile represents a user's dating profile
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Age         int       `json:"age,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Interests   []string  `json:"interests,omitempty"`
	Lifestyle   Lifestyle `json:"lifestyle"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PersonalityResult holds the outcome of the personality assessment
type PersonalityResult struct {
	UserID      string         `json:"user_id"`
	Type        string         `json:"type"`
	Scores      map[string]int `json:"scores,omitempty"`
	CompletedAt time.Time      `json:"completed_at"`
}
