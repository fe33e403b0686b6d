package handlers

import (
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/amirhosseinghanipour/launchpad/internal/application/dashboard"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/http/middleware"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFileName  = "launchpad-projects.xlsx"
	exportSheet     = "Projects"
)

var exportHeader = []interface{}{"Name", "Status", "MRR (USD)", "Active users", "Created", "Description"}

// Export handles GET /dashboard/export.xlsx: one row per project followed by totals.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	page, err := h.dashboard.Load(r.Context(), middleware.CredentialFromContext(r.Context()))
	if err != nil {
		h.log.Error().Err(err).Msg("load dashboard for export failed")
		writeErr(w, http.StatusInternalServerError, "", "could not load projects")
		return
	}
	if !page.Authenticated() {
		middleware.RedirectToSignIn(w, r, page.RedirectTo)
		return
	}
	f, err := buildWorkbook(page)
	if err != nil {
		h.log.Error().Err(err).Msg("build export failed")
		writeErr(w, http.StatusInternalServerError, "", "could not build export")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		h.log.Error().Err(err).Msg("write export failed")
	}
}

func buildWorkbook(page *dashboard.Page) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := setRow(f, 1, exportHeader); err != nil {
		f.Close()
		return nil, err
	}
	row := 2
	for _, p := range page.Projects {
		if p == nil {
			continue
		}
		description := ""
		if p.Description != nil {
			description = *p.Description
		}
		cells := []interface{}{p.Name, string(p.Status), p.MRR, p.ActiveUsers, p.CreatedAt.Format(createdDateLayout), description}
		if err := setRow(f, row, cells); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}
	row++
	totals := [][]interface{}{
		{"Total MRR", "", page.Summary.TotalRevenue},
		{"Projects", "", page.Summary.ProjectCount},
		{"Active projects", "", page.Summary.ActiveProjectCount},
	}
	for _, t := range totals {
		if err := setRow(f, row, t); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(exportSheet, cell, &values)
}
