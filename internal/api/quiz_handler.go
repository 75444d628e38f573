package api

import (
	"errors"
	"net/http"

	"github.com/spotcircuit/dmv-test/internal/domain/quizsession"
	"github.com/spotcircuit/dmv-test/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type SelectModeRequest struct {
	Mode string `json:"mode" example:"test"`
}

func (r *SelectModeRequest) Validate() error {
	if r.Mode == "" {
		return errors.New("mode is required")
	}
	return nil
}

type SubmitAnswerRequest struct {
	SelectedAnswer *int `json:"selected_answer" example:"2"`
}

// Validate checks presence only. The range is checked by the quiz, after
// the session state, so a request without a quiz is a conflict first.
func (r *SubmitAnswerRequest) Validate() error {
	if r.SelectedAnswer == nil {
		return errors.New("selected_answer is required")
	}
	return nil
}

type StatusResponse struct {
	Status string `json:"status"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// selectMode godoc
// @Summary      Start a quiz
// @Description  Selects practice or test mode, draws fresh sections and returns the first question. Any previous progress is discarded.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      SelectModeRequest  true  "Mode to start"
// @Success      200   {object}  service.Fetch
// @Failure      400   {object}  map[string]string
// @Failure      500   {string}  string  "question bank unavailable"
// @Router       /quiz/mode [post]
func (h *Handler) selectMode(w http.ResponseWriter, r *http.Request) {
	var req SelectModeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sid, err := h.sessions.Ensure(w, r)
	if h.handleServiceError(w, err) {
		return
	}

	fetch, err := h.quiz.SelectMode(r.Context(), sid, req.Mode)
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, fetch)
}

// currentQuestion godoc
// @Summary      Fetch the current question
// @Description  Returns the question under the cursor with a progress snapshot, or quiz_complete once every section is done.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  service.Fetch
// @Failure      409  {object}  map[string]string  "quiz not started"
// @Router       /quiz/question [get]
func (h *Handler) currentQuestion(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessions.Read(r)
	if !ok {
		h.handleServiceError(w, service.ErrNotStarted)
		return
	}

	fetch, err := h.quiz.CurrentQuestion(r.Context(), sid)
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, fetch)
}

// submitAnswer godoc
// @Summary      Submit an answer
// @Description  Scores the selected option (0-3) against the current question. Test mode always advances; practice mode advances only on a correct answer.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      SubmitAnswerRequest  true  "Selected option index"
// @Success      200   {object}  service.Answer
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "no quiz mode selected"
// @Router       /quiz/answer [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessions.Read(r)
	if !ok {
		h.handleServiceError(w, quizsession.ErrInvalidState)
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answer, err := h.quiz.SubmitAnswer(r.Context(), sid, *req.SelectedAnswer)
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, answer)
}

// results godoc
// @Summary      Fetch results
// @Description  Pass/fail verdict, feedback message and per-category breakdown. Passing needs 30 correct answers.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  results.Result
// @Failure      409  {object}  map[string]string  "quiz not started"
// @Router       /quiz/results [get]
func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessions.Read(r)
	if !ok {
		h.handleServiceError(w, service.ErrNotStarted)
		return
	}

	res, err := h.quiz.Results(r.Context(), sid)
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// reset godoc
// @Summary      Reset the quiz
// @Description  Clears all progress and the selected mode.
// @Tags         Quiz
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /quiz/reset [post]
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if sid, ok := h.sessions.Read(r); ok {
		if h.handleServiceError(w, h.quiz.Reset(r.Context(), sid)) {
			return
		}
	}
	respondJSON(w, http.StatusOK, StatusResponse{Status: "reset"})
}
