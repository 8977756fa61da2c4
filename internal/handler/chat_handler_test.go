package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amora-be/internal/domain"
	"amora-be/internal/repository"
	"amora-be/pkg/logger"
)

func chatRouter(h *ChatHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/chat/{matchID}/messages", h.SendMessage)
	r.Get("/api/chat/{matchID}/messages", h.GetHistory)
	return r
}

func TestChatHandler_SendAndHistory(t *testing.T) {
	kv := setupTestKV(t)
	h := NewChatHandler(repository.NewMessageRepository(kv), logger.NewNop())
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	router := chatRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/chat/match-1/messages", `{"body":"hey there"}`, "user-1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var sent domain.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	assert.Equal(t, "user-1", sent.SenderID)
	assert.Equal(t, "hey there", sent.Body)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/chat/match-1/messages", "", "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var history []domain.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2, "the simulated partner reply follows the sent message")
	assert.Equal(t, "user-1", history[0].SenderID)
	assert.Equal(t, "match-1", history[1].SenderID)
	assert.True(t, history[1].SentAt.After(history[0].SentAt))
}

func TestChatHandler_EmptyBodyRejected(t *testing.T) {
	kv := setupTestKV(t)
	h := NewChatHandler(repository.NewMessageRepository(kv), logger.NewNop())
	router := chatRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/chat/match-1/messages", `{"body":""}`, "user-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandler_HistoryEmpty(t *testing.T) {
	kv := setupTestKV(t)
	h := NewChatHandler(repository.NewMessageRepository(kv), logger.NewNop())
	router := chatRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/chat/match-9/messages", "", "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var history []domain.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history)
}

func TestChatHandler_RequiresAuth(t *testing.T) {
	kv := setupTestKV(t)
	h := NewChatHandler(repository.NewMessageRepository(kv), logger.NewNop())
	router := chatRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/match-1/messages", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
