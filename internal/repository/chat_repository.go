package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"amora-be/internal/domain"
	"amora-be/pkg/redis"
)

// messageRepository stores chat messages keyed by conversation and send
// time, so a prefix scan over one conversation recovers its history
type messageRepository struct {
	kv *redis.Client
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(kv *redis.Client) MessageRepository {
	return &messageRepository{kv: kv}
}

// Append stores a message at the end of its conversation
func (r *messageRepository) Append(ctx context.Context, message *domain.ChatMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	key := r.kv.KeyBuilder.KeyChatMessage(message.MatchID, message.SentAt.UnixNano(), message.ID)
	if err := r.kv.Set(ctx, key, string(data), 0); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// History returns a conversation's messages in send order
func (r *messageRepository) History(ctx context.Context, matchID string) ([]domain.ChatMessage, error) {
	keys, err := r.kv.ScanPrefix(ctx, r.kv.KeyBuilder.KeyChatPrefix(matchID))
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}
	if len(keys) == 0 {
		return []domain.ChatMessage{}, nil
	}

	// Scan order is unspecified; the zero-padded timestamp in the key
	// makes lexicographic order chronological.
	sort.Strings(keys)

	vals, err := r.kv.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	messages := make([]domain.ChatMessage, 0, len(vals))
	for _, val := range vals {
		if val == "" {
			continue
		}
		var message domain.ChatMessage
		if err := json.Unmarshal([]byte(val), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, nil
}
