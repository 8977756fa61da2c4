package handler

import (
	"hash/fnv"
	"net/http"
	"time"

	"amora-be/internal/domain"
	"amora-be/internal/middleware"
	"amora-be/internal/repository"
	apperrors "amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// dailyQuestions is the rotating pool of conversation starters. The
// question for a day is picked by hashing the date, so every client sees
// the same question without any stored schedule.
var dailyQuestions = []string{
	"What is a small thing that made you smile this week?",
	"If you could have dinner anywhere tonight, where would it be?",
	"What's a hobby you've always wanted to pick up?",
	"What does your perfect lazy Sunday look like?",
	"What song have you had on repeat lately?",
	"What's the best trip you've ever taken?",
	"Coffee or tea, and how do you take it?",
}

// QuestionHandler serves the daily question and its answers
type QuestionHandler struct {
	answers repository.AnswerRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(answers repository.AnswerRepository, log *logger.Logger) *QuestionHandler {
	return &QuestionHandler{answers: answers, log: log, now: time.Now}
}

// GetDaily returns today's question
func (h *QuestionHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	writeJSON(w, http.StatusOK, questionForDate(h.now().UTC()))
}

// AnswerRequest carries a daily question answer
type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// Answer records the caller's answer to a question
func (h *QuestionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	var req AnswerRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, h.log, appErr)
		return
	}
	if req.QuestionID == "" {
		writeError(w, h.log, apperrors.NewValidationError("question_id is required", nil))
		return
	}
	if req.Answer == "" {
		writeError(w, h.log, apperrors.NewValidationError("answer is required", nil))
		return
	}

	answer := domain.QuestionAnswer{
		UserID:     user.ID,
		QuestionID: req.QuestionID,
		Answer:     req.Answer,
		AnsweredAt: h.now().UTC(),
	}
	if err := h.answers.Save(r.Context(), &answer); err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to save answer", err))
		return
	}

	writeJSON(w, http.StatusCreated, answer)
}

func questionForDate(t time.Time) domain.DailyQuestion {
	date := t.Format("2006-01-02")
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(date))
	return domain.DailyQuestion{
		ID:   date,
		Date: date,
		Text: dailyQuestions[int(hash.Sum32())%len(dailyQuestions)],
	}
}
