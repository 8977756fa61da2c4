package domain

import "time"

// AnalyticsEvent is a single client-reported analytics event
type AnalyticsEvent struct {
	ID         int64                  `json:"id,omitempty"`
	UserID     string                 `json:"user_id"`
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PrivacyRequestKind enumerates the supported privacy request types
type PrivacyRequestKind string

const (
	PrivacyRequestConsent  PrivacyRequestKind = "consent"
	PrivacyRequestExport   PrivacyRequestKind = "export"
	PrivacyRequestDeletion PrivacyRequestKind = "deletion"
)

// PrivacyRequest is a ledger entry for a consent, export, or deletion request
type PrivacyRequest struct {
	ID        int64              `json:"id,omitempty"`
	UserID    string             `json:"user_id"`
	Kind      PrivacyRequestKind `json:"kind"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}
