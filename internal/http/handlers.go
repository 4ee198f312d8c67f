package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ongfinanzas/internal/core"
)

type projectRequest struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Municipality string    `json:"municipality"`
	Department   string    `json:"department"`
	StartDate    core.Date `json:"startDate"`
	EndDate      core.Date `json:"endDate"`
	Active       *bool     `json:"active"`
}

func (req projectRequest) project() core.Project {
	return core.Project{
		Code:         sanitizeInput(req.Code),
		Name:         sanitizeInput(req.Name),
		Municipality: sanitizeInput(req.Municipality),
		Department:   sanitizeInput(req.Department),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Projects.List(r.Context(), active)
	respondList(w, r, res, err)
}

func (s *Server) handleLastProjectCode(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Projects.LastCode(r.Context())
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Projects.GetByCode(r.Context(), chi.URLParam(r, "code"))
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if rejectInput(w, DecodeJSON(r, &req)) {
		return
	}
	res, err := s.svc.Projects.Create(r.Context(), req.project())
	respond(w, r, res, err, http.StatusCreated)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req projectRequest
	if rejectInput(w, DecodeJSON(r, &req)) {
		return
	}
	if codeMismatch(code, req.Code) {
		badRequest(w, msgCodeMismatch)
		return
	}
	res, err := s.svc.Projects.Update(r.Context(), code, req.project(), req.Active)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Projects.Delete(r.Context(), chi.URLParam(r, "code"))
	respond(w, r, res, err, http.StatusOK)
}
