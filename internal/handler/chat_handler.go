package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"amora-be/internal/domain"
	"amora-be/internal/middleware"
	"amora-be/internal/repository"
	apperrors "amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// cannedReplies rotate as the demo conversation partner. Matches in this
// build do not connect two live users; the partner side is simulated.
var cannedReplies = []string{
	"That's really interesting, tell me more!",
	"Haha, I was just thinking the same thing.",
	"I'd love to hear the story behind that.",
	"Okay, now I'm curious. What happened next?",
	"Same here honestly. What got you into that?",
}

// ChatHandler serves match conversations
type ChatHandler struct {
	messages repository.MessageRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewChatHandler creates a new chat handler
func NewChatHandler(messages repository.MessageRepository, log *logger.Logger) *ChatHandler {
	return &ChatHandler{messages: messages, log: log, now: time.Now}
}

// SendMessageRequest carries an outbound chat message body
type SendMessageRequest struct {
	Body string `json:"body"`
}

// SendMessage appends the caller's message to a conversation and queues
// the simulated partner's reply right behind it
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	matchID := chi.URLParam(r, "matchID")
	if matchID == "" {
		writeError(w, h.log, apperrors.NewValidationError("match id is required", nil))
		return
	}

	var req SendMessageRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, h.log, appErr)
		return
	}
	if req.Body == "" {
		writeError(w, h.log, apperrors.NewValidationError("message body is required", nil))
		return
	}

	now := h.now().UTC()
	message := domain.ChatMessage{
		ID:       messageID(now),
		MatchID:  matchID,
		SenderID: user.ID,
		Body:     req.Body,
		SentAt:   now,
	}
	if err := h.messages.Append(r.Context(), &message); err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to store message", err))
		return
	}

	replyAt := now.Add(time.Second)
	reply := domain.ChatMessage{
		ID:       messageID(replyAt),
		MatchID:  matchID,
		SenderID: matchID,
		Body:     cannedReplies[int(now.UnixNano())%len(cannedReplies)],
		SentAt:   replyAt,
	}
	if err := h.messages.Append(r.Context(), &reply); err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to store reply", err))
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

// GetHistory returns a conversation's messages in send order
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	matchID := chi.URLParam(r, "matchID")
	if matchID == "" {
		writeError(w, h.log, apperrors.NewValidationError("match id is required", nil))
		return
	}

	history, err := h.messages.History(r.Context(), matchID)
	if err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to load history", err))
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func messageID(t time.Time) string {
	return fmt.Sprintf("msg-%s", strconv.FormatInt(t.UnixNano(), 36))
}
