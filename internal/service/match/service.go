package match

import (
	"context"
	"sort"

	"amora-be/internal/domain"
	"amora-be/internal/repository"
	"amora-be/internal/service"
	"amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// Service computes compatibility matches over the stored profiles
type Service struct {
	profiles    repository.ProfileRepository
	personality repository.PersonalityRepository
	log         *logger.Logger
}

// NewService creates a new match service
func NewService(profiles repository.ProfileRepository, personality repository.PersonalityRepository, log *logger.Logger) service.MatchService {
	return &Service{
		profiles:    profiles,
		personality: personality,
		log:         log,
	}
}

// GetMatches scores every other stored profile against the caller's and
// returns them best match first. A candidate without a personality result
// scores through the default table fallback.
func (s *Service) GetMatches(ctx context.Context, userID string) ([]domain.Match, error) {
	ownProfile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ownProfile == nil {
		return nil, errors.NewNotFoundError("profile not found")
	}
	ownType := s.personalityType(ctx, userID)

	ids, err := s.profiles.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(ids))
	for _, id := range ids {
		if id == userID {
			continue
		}
		candidate, err := s.profiles.Get(ctx, id)
		if err != nil {
			s.log.WithField("user_id", id).WithError(err).Warn("Skipping unreadable profile")
			continue
		}
		if candidate == nil {
			continue
		}

		score := Score(ownType, s.personalityType(ctx, id), ownProfile, candidate)
		matches = append(matches, domain.Match{
			UserID:      candidate.UserID,
			DisplayName: candidate.DisplayName,
			Age:         candidate.Age,
			Bio:         candidate.Bio,
			Score:       score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score.Overall > matches[j].Score.Overall
	})

	s.log.WithFields(map[string]interface{}{
		"user_id": userID,
		"matches": len(matches),
	}).Debug("Matches computed")
	return matches, nil
}

func (s *Service) personalityType(ctx context.Context, userID string) string {
	result, err := s.personality.Get(ctx, userID)
	if err != nil || result == nil {
		return ""
	}
	return result.Type
}
