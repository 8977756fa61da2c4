package domain

// CompatibilityScore breaks a match score into its weighted components.
// Overall is always in [0, 99].
type CompatibilityScore struct {
	Overall     int `json:"overall"`
	Personality int `json:"personality"`
	Interests   int `json:"interests"`
	Lifestyle   int `json:"lifestyle"`
}

// Match pairs a candidate profile with its compatibility against the caller
type Match struct {
	UserID      string             `json:"user_id"`
	DisplayName string             `json:"display_name"`
	Age         int                `json:"age,omitempty"`
	Bio         string             `json:"bio,omitempty"`
	Score       CompatibilityScore `json:"score"`
}
