package api

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const reloadTokenHeader = "X-Reload-Token"

// listCategories godoc
// @Summary      Category inventory
// @Description  Requested versus available question counts per category of the loaded bank.
// @Tags         Catalog
// @Produce      json
// @Success      200  {array}   service.CategoryInventory
// @Failure      500  {string}  string  "question bank unavailable"
// @Router       /categories [get]
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	inv, err := h.quiz.Categories(r.Context())
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

// reloadBank godoc
// @Summary      Reload the question bank
// @Description  Re-reads the bank file and publishes it if at least one section can be drawn. Running quizzes keep their questions.
// @Tags         Catalog
// @Produce      json
// @Param        X-Reload-Token  header    string  false  "Reload token, required when a hash is configured"
// @Success      200             {object}  service.ReloadInfo
// @Failure      401             {object}  map[string]string
// @Failure      500             {string}  string  "question bank unavailable"
// @Router       /admin/reload [post]
func (h *Handler) reloadBank(w http.ResponseWriter, r *http.Request) {
	if !h.reloadAllowed(r) {
		respondError(w, http.StatusUnauthorized, "invalid reload token")
		return
	}

	info, err := h.quiz.Reload(r.Context())
	if h.handleServiceError(w, err) {
		return
	}
	h.logger.Info("question bank reloaded", "version", info.Version, "questions", info.Questions)
	respondJSON(w, http.StatusOK, info)
}

func (h *Handler) reloadAllowed(r *http.Request) bool {
	if len(h.reloadHash) == 0 {
		return true
	}
	token := r.Header.Get(reloadTokenHeader)
	if token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(h.reloadHash, []byte(token)) == nil
}
