package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"amora-be/internal/domain"
	"amora-be/pkg/redis"
)

// answerRepository stores daily question answers in the key-value store
type answerRepository struct {
	kv *redis.Client
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(kv *redis.Client) AnswerRepository {
	return &answerRepository{kv: kv}
}

// Save stores or replaces a user's answer to a question
func (r *answerRepository) Save(ctx context.Context, answer *domain.QuestionAnswer) error {
	data, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	key := r.kv.KeyBuilder.KeyDailyAnswer(answer.UserID, answer.QuestionID)
	if err := r.kv.Set(ctx, key, string(data), 0); err != nil {
		return fmt.Errorf("failed to store answer: %w", err)
	}
	return nil
}

// Get retrieves an answer; returns nil without error when absent
func (r *answerRepository) Get(ctx context.Context, userID, questionID string) (*domain.QuestionAnswer, error) {
	val, err := r.kv.Get(ctx, r.kv.KeyBuilder.KeyDailyAnswer(userID, questionID))
	if err != nil {
		if redis.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read answer: %w", err)
	}

	var answer domain.QuestionAnswer
	if err := json.Unmarshal([]byte(val), &answer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answer: %w", err)
	}
	return &answer, nil
}
