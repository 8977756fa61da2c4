package repository

import (
	"context"

	"amora-be/internal/domain"
)

// ProfileRepository persists dating profiles in the key-value store
type ProfileRepository interface {
	// Save stores or replaces a profile
	Save(ctx context.Context, profile *domain.Profile) error

	// Get retrieves a profile by user id; returns nil without error when absent
	Get(ctx context.Context, userID string) (*domain.Profile, error)

	// Delete removes a profile
	Delete(ctx context.Context, userID string) error

	// ListUserIDs returns the user ids of every stored profile
	ListUserIDs(ctx context.Context) ([]string, error)
}

// PersonalityRepository persists personality assessment results
type PersonalityRepository interface {
	// Save stores or replaces a personality result
	Save(ctx context.Context, result *domain.PersonalityResult) error

	// Get retrieves a result by user id; returns nil without error when absent
	Get(ctx context.Context, userID string) (*domain.PersonalityResult, error)
}

// MessageRepository persists chat messages per match conversation
type MessageRepository interface {
	// Append stores a message at the end of its conversation
	Append(ctx context.Context, message *domain.ChatMessage) error

	// History returns a conversation's messages in send order
	History(ctx context.Context, matchID string) ([]domain.ChatMessage, error)
}

// AnswerRepository persists daily question answers
type AnswerRepository interface {
	// Save stores or replaces a user's answer to a question
	Save(ctx context.Context, answer *domain.QuestionAnswer) error

	// Get retrieves an answer; returns nil without error when absent
	Get(ctx context.Context, userID, questionID string) (*domain.QuestionAnswer, error)
}

// AnalyticsRepository persists analytics events
type AnalyticsRepository interface {
	// InsertEvent records a single analytics event
	InsertEvent(ctx context.Context, event *domain.AnalyticsEvent) error
}

// PrivacyRepository persists the privacy request ledger
type PrivacyRepository interface {
	// Create records a new privacy request
	Create(ctx context.Context, request *domain.PrivacyRequest) error

	// ListByUser returns a user's privacy requests, newest first
	ListByUser(ctx context.Context, userID string) ([]domain.PrivacyRequest, error)
}
