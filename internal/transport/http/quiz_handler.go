package http

import (
	"net/http"

	"photo-quiz-service/internal/app"
)

type QuizHandler struct {
	service *app.QuizService
}

func NewQuizHandler(service *app.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// Quiz serves every question decorated with its answer image.
func (h *QuizHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, 0)
}

// ShortQuiz serves the first app.ShortQuizSize questions.
func (h *QuizHandler) ShortQuiz(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, app.ShortQuizSize)
}

func (h *QuizHandler) serve(w http.ResponseWriter, r *http.Request, limit int) {
	questions, err := h.service.Quiz(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err, "failed to load questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *QuizHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
