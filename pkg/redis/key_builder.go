package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyProfile returns the storage key for a user's profile
func (kb *KeyBuilder) KeyProfile(userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyProfile, userID))
}

// KeyProfilePrefix returns the scan prefix covering every profile
func (kb *KeyBuilder) KeyProfilePrefix() string {
	return kb.BuildKey("profile:")
}

// KeyPersonality returns the storage key for a personality result
func (kb *KeyBuilder) KeyPersonality(userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPersonality, userID))
}

// KeyChatMessage returns the storage key for one chat message
func (kb *KeyBuilder) KeyChatMessage(matchID string, sentAtNano int64, messageID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyChatMessage, matchID, sentAtNano, messageID))
}

// KeyChatPrefix returns the scan prefix covering one conversation
func (kb *KeyBuilder) KeyChatPrefix(matchID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyChatPrefix, matchID))
}

// KeyDailyAnswer returns the storage key for a daily question answer
func (kb *KeyBuilder) KeyDailyAnswer(userID, questionID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyDailyAnswer, userID, questionID))
}
