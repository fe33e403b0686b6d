package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/dashboard"
	"github.com/amirhosseinghanipour/launchpad/internal/application/project"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/middleware"
)

// StaleTrigger is sent in HX-Trigger after a mutation so other fragments refetch.
const StaleTrigger = "dashboard-stale"

// DashboardHandler serves the session-gated project dashboard.
type DashboardHandler struct {
	dashboard *dashboard.Dashboard
	log       zerolog.Logger
}

func NewDashboardHandler(d *dashboard.Dashboard, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: d, log: log}
}

// Get handles GET /dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.dashboard.Load(r.Context(), middleware.CredentialFromContext(r.Context()))
	if err != nil {
		h.log.Error().Err(err).Msg("load dashboard failed")
		writeErr(w, http.StatusInternalServerError, "", "could not load projects")
		return
	}
	if !page.Authenticated() {
		middleware.RedirectToSignIn(w, r, page.RedirectTo)
		return
	}
	writeJSON(w, http.StatusOK, presentDashboard(page))
}

// CreateProject handles POST /dashboard/projects (form or JSON body).
func (h *DashboardHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	// Anonymous callers are redirected before their body is read.
	if _, ok := middleware.IdentityFromContext(r.Context()); !ok {
		middleware.RedirectToSignIn(w, r, h.dashboard.SignInPath())
		return
	}
	raw, err := readRawFields(w, r)
	if err != nil {
		middleware.RecordProjectCreate("invalid")
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	page, err := h.dashboard.CreateProject(r.Context(), middleware.CredentialFromContext(r.Context()), raw)
	if err != nil {
		var verr *project.ValidationError
		switch {
		case errors.As(err, &verr):
			middleware.RecordProjectCreate("invalid")
			writeFieldErr(w, http.StatusUnprocessableEntity, ErrCodeInvalidRequest, verr.Reason.Error(), verr.Field)
		case errors.Is(err, domerrors.ErrUserNotFound):
			middleware.RecordProjectCreate("error")
			writeErr(w, http.StatusNotFound, "", err.Error())
		default:
			middleware.RecordProjectCreate("error")
			h.log.Error().Err(err).Msg("create project failed")
			writeErr(w, http.StatusInternalServerError, "", "could not save project")
		}
		return
	}
	if !page.Authenticated() {
		middleware.RedirectToSignIn(w, r, page.RedirectTo)
		return
	}
	middleware.RecordProjectCreate("created")
	h.log.Info().
		Str("event", dashboard.EventProjectCreated).
		Str("user_id", page.Created.OwnerID.String()).
		Str("project_id", page.Created.ID.String()).
		Msg("project created")
	w.Header().Set("HX-Trigger", StaleTrigger)
	writeJSON(w, http.StatusCreated, presentDashboard(page))
}

// readRawFields collects submitted fields as strings: url-encoded or multipart
// forms take the first value per key, JSON objects have scalars stringified.
func readRawFields(w http.ResponseWriter, r *http.Request) (project.RawFields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	raw := project.RawFields{}
	if ct == "application/json" {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var body map[string]interface{}
		if err := dec.Decode(&body); err != nil {
			return nil, err
		}
		for k, v := range body {
			switch t := v.(type) {
			case nil:
				raw[k] = ""
			case string:
				raw[k] = t
			case json.Number:
				raw[k] = t.String()
			case bool:
				raw[k] = fmt.Sprint(t)
			default:
				// objects and arrays are not fields of the form
			}
		}
		return raw, nil
	}
	if strings.HasPrefix(ct, "multipart/") {
		if err := r.ParseMultipartForm(MaxFormBytes); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			raw[k] = vs[0]
		}
	}
	return raw, nil
}
