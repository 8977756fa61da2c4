package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"amora-be/internal/domain"
	"amora-be/pkg/database"
)

// analyticsRepository persists analytics events in PostgreSQL
type analyticsRepository struct {
	db *database.PostgresDB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *database.PostgresDB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// InsertEvent records a single analytics event
func (r *analyticsRepository) InsertEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	props, err := json.Marshal(event.Properties)
	if err != nil {
		return fmt.Errorf("failed to marshal event properties: %w", err)
	}

	query := `
		INSERT INTO analytics_events (user_id, name, properties, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err = r.db.Pool.QueryRow(ctx, query,
		event.UserID,
		event.Name,
		props,
		event.CreatedAt,
	).Scan(&event.ID)

	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

// privacyRepository persists the privacy request ledger in PostgreSQL
type privacyRepository struct {
	db *database.PostgresDB
}

// NewPrivacyRepository creates a new privacy repository
func NewPrivacyRepository(db *database.PostgresDB) PrivacyRepository {
	return &privacyRepository{db: db}
}

// Create records a new privacy request
func (r *privacyRepository) Create(ctx context.Context, request *domain.PrivacyRequest) error {
	query := `
		INSERT INTO privacy_requests (user_id, kind, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		request.UserID,
		string(request.Kind),
		request.Status,
		request.CreatedAt,
	).Scan(&request.ID)

	if err != nil {
		return fmt.Errorf("failed to create privacy request: %w", err)
	}
	return nil
}

// ListByUser returns a user's privacy requests, newest first
func (r *privacyRepository) ListByUser(ctx context.Context, userID string) ([]domain.PrivacyRequest, error) {
	query := `
		SELECT id, user_id, kind, status, created_at
		FROM privacy_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list privacy requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.PrivacyRequest{}
	for rows.Next() {
		var request domain.PrivacyRequest
		var kind string
		if err := rows.Scan(&request.ID, &request.UserID, &kind, &request.Status, &request.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan privacy request: %w", err)
		}
		request.Kind = domain.PrivacyRequestKind(kind)
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read privacy requests: %w", err)
	}
	return requests, nil
}
