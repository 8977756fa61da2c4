package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"amora-be/internal/domain"
	"amora-be/pkg/redis"
)

// profileRepository stores profiles and personality results as JSON
// documents in the key-value store
type profileRepository struct {
	kv *redis.Client
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(kv *redis.Client) ProfileRepository {
	return &profileRepository{kv: kv}
}

// Save stores or replaces a profile
func (r *profileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	key := r.kv.KeyBuilder.KeyProfile(profile.UserID)
	if err := r.kv.Set(ctx, key, string(data), 0); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

// Get retrieves a profile by user id; returns nil without error when absent
func (r *profileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	val, err := r.kv.Get(ctx, r.kv.KeyBuilder.KeyProfile(userID))
	if err != nil {
		if redis.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// Delete removes a profile
func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	return r.kv.Delete(ctx, r.kv.KeyBuilder.KeyProfile(userID))
}

// ListUserIDs returns the user ids of every stored profile
func (r *profileRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	prefix := r.kv.KeyBuilder.KeyProfilePrefix()
	keys, err := r.kv.ScanPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, prefix))
	}
	return ids, nil
}

// personalityRepository stores personality results in the key-value store
type personalityRepository struct {
	kv *redis.Client
}

// NewPersonalityRepository creates a new personality repository
func NewPersonalityRepository(kv *redis.Client) PersonalityRepository {
	return &personalityRepository{kv: kv}
}

// Save stores or replaces a personality result
func (r *personalityRepository) Save(ctx context.Context, result *domain.PersonalityResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal personality result: %w", err)
	}
	key := r.kv.KeyBuilder.KeyPersonality(result.UserID)
	if err := r.kv.Set(ctx, key, string(data), 0); err != nil {
		return fmt.Errorf("failed to store personality result: %w", err)
	}
	return nil
}

// Get retrieves a result by user id; returns nil without error when absent
func (r *personalityRepository) Get(ctx context.Context, userID string) (*domain.PersonalityResult, error) {
	val, err := r.kv.Get(ctx, r.kv.KeyBuilder.KeyPersonality(userID))
	if err != nil {
		if redis.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read personality result: %w", err)
	}

	var result domain.PersonalityResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal personality result: %w", err)
	}
	return &result, nil
}
