package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/project"
)

// AdminHandler handles /admin/*. Requires X-Launchpad-Admin-Secret.
type AdminHandler struct {
	seed *project.SeedDemoProjects
	log  zerolog.Logger
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(seed *project.SeedDemoProjects, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{seed: seed, log: log}
}

// Seed handles POST /admin/seed. Body (optional): { "email": "..." }; defaults to the demo founder.
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"omitempty,email,max=254"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxFormBytes)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := validate.Struct(&body); err != nil {
		writeFieldErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid email", firstInvalidField(err))
		return
	}
	result, err := h.seed.Execute(r.Context(), project.SeedDemoInput{Email: SanitizeEmail(body.Email)})
	if err != nil {
		AuditLog(h.log, r, "admin.seed", "", false, err.Error())
		h.log.Error().Err(err).Msg("seed failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "admin.seed", result.User.ID.String(), true, "")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":  result.User.ID.String(),
		"email":    result.User.Email,
		"existing": result.Existing,
		"inserted": result.Inserted,
	})
}
