package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"amora-be/internal/domain"
)

// SignupRequest carries the fields for account creation
type SignupRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// SendMessageRequest carries an outbound chat message body
type SendMessageRequest struct {
	Body string `json:"body"`
}

// AnswerRequest carries a daily question answer
type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// AnalyticsRequest carries one analytics event
type AnalyticsRequest struct {
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Signup creates a new account through the backend
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateDemoSession mints a demo session, installs its token in the memory
// slot, and writes the durable backup
func (c *Client) CreateDemoSession(ctx context.Context) (*domain.StoredSession, error) {
	var session domain.StoredSession
	if err := c.do(ctx, http.MethodPost, "/api/auth/demo-session", nil, &session); err != nil {
		return nil, err
	}

	if c.store != nil {
		if err := c.store.Save(ctx, &session); err != nil {
			c.log.WithError(err).Warn("failed to persist session backup")
		}
	}
	c.SetAccessToken(session.AccessToken)
	return &session, nil
}

// CreateProfile saves the caller's dating profile
func (c *Client) CreateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	var saved domain.Profile
	if err := c.do(ctx, http.MethodPost, "/api/profile", profile, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetProfile fetches the caller's profile
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SavePersonalityResults stores the caller's personality test outcome
func (c *Client) SavePersonalityResults(ctx context.Context, result *domain.PersonalityResult) (*domain.PersonalityResult, error) {
	var saved domain.PersonalityResult
	if err := c.do(ctx, http.MethodPost, "/api/personality", result, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetPersonalityResults fetches the caller's personality test outcome
func (c *Client) GetPersonalityResults(ctx context.Context) (*domain.PersonalityResult, error) {
	var result domain.PersonalityResult
	if err := c.do(ctx, http.MethodGet, "/api/personality", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMatches fetches the caller's matches, best compatibility first
func (c *Client) GetMatches(ctx context.Context) ([]domain.Match, error) {
	var matches []domain.Match
	if err := c.do(ctx, http.MethodGet, "/api/matches", nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// SendMessage posts a chat message to a match conversation
func (c *Client) SendMessage(ctx context.Context, matchID, body string) (*domain.ChatMessage, error) {
	var message domain.ChatMessage
	endpoint := fmt.Sprintf("/api/chat/%s/messages", matchID)
	if err := c.do(ctx, http.MethodPost, endpoint, SendMessageRequest{Body: body}, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// GetChatHistory fetches a conversation in send order
func (c *Client) GetChatHistory(ctx context.Context, matchID string) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	endpoint := fmt.Sprintf("/api/chat/%s/messages", matchID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetDailyQuestion fetches today's conversation starter
func (c *Client) GetDailyQuestion(ctx context.Context) (*domain.DailyQuestion, error) {
	var question domain.DailyQuestion
	if err := c.do(ctx, http.MethodGet, "/api/questions/daily", nil, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

// AnswerDailyQuestion records the caller's answer to today's question
func (c *Client) AnswerDailyQuestion(ctx context.Context, questionID, answer string) (*domain.QuestionAnswer, error) {
	var saved domain.QuestionAnswer
	req := AnswerRequest{QuestionID: questionID, Answer: answer}
	if err := c.do(ctx, http.MethodPost, "/api/questions/daily/answer", req, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// RequestConsent records a consent-update request in the privacy ledger
func (c *Client) RequestConsent(ctx context.Context) (*domain.PrivacyRequest, error) {
	return c.privacyRequest(ctx, "/api/privacy/consent")
}

// RequestExport asks for an export of the caller's data
func (c *Client) RequestExport(ctx context.Context) (*domain.PrivacyRequest, error) {
	return c.privacyRequest(ctx, "/api/privacy/export")
}

// RequestDeletion asks for deletion of the caller's account data
func (c *Client) RequestDeletion(ctx context.Context) (*domain.PrivacyRequest, error) {
	return c.privacyRequest(ctx, "/api/privacy/deletion")
}

func (c *Client) privacyRequest(ctx context.Context, endpoint string) (*domain.PrivacyRequest, error) {
	var request domain.PrivacyRequest
	if err := c.do(ctx, http.MethodPost, endpoint, nil, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// ListPrivacyRequests fetches the caller's privacy ledger, newest first
func (c *Client) ListPrivacyRequests(ctx context.Context) ([]domain.PrivacyRequest, error) {
	var requests []domain.PrivacyRequest
	if err := c.do(ctx, http.MethodGet, "/api/privacy/requests", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// LogAnalytics records one analytics event
func (c *Client) LogAnalytics(ctx context.Context, name string, properties map[string]interface{}) error {
	return c.do(ctx, http.MethodPost, "/api/analytics", AnalyticsRequest{Name: name, Properties: properties}, nil)
}

// HealthCheck probes the backend. It always sends the anonymous key and
// never touches the token slot, so it stays usable while unauthenticated.
func (c *Client) HealthCheck(ctx context.Context) error {
	statusCode, respBody, err := c.send(ctx, http.MethodGet, "/health", nil, "")
	if err != nil {
		return err
	}
	if statusCode < 200 || statusCode >= 300 {
		return errorFromResponse(statusCode, respBody)
	}
	return nil
}
