package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ongfinanzas/internal/core"
)

type rubroRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ProjectID int64  `json:"projectId"`
	Active    *bool  `json:"active"`
}

func (req rubroRequest) rubro() core.Rubro {
	return core.Rubro{
		Code:      sanitizeInput(req.Code),
		Name:      sanitizeInput(req.Name),
		ProjectID: req.ProjectID,
	}
}

func (s *Server) handleListRubros(w http.ResponseWriter, r *http.Request) {
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Rubros.List(r.Context(), active)
	respondList(w, r, res, err)
}

func (s *Server) handleListRubroDetails(w http.ResponseWriter, r *http.Request) {
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Rubros.ListWithProjectDetails(r.Context(), active)
	respondList(w, r, res, err)
}

func (s *Server) handleLastRubroCode(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Rubros.LastCode(r.Context())
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleListRubrosByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if rejectInput(w, err) {
		return
	}
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Rubros.ListByProject(r.Context(), projectID, active)
	respondList(w, r, res, err)
}

func (s *Server) handleGetRubro(w http.ResponseWriter, r *http.Request) {
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Rubros.GetByCode(r.Context(), chi.URLParam(r, "code"), active)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleCreateRubro(w http.ResponseWriter, r *http.Request) {
	var req rubroRequest
	if rejectInput(w, DecodeJSON(r, &req)) {
		return
	}
	res, err := s.svc.Rubros.Create(r.Context(), req.rubro())
	respond(w, r, res, err, http.StatusCreated)
}

func (s *Server) handleUpdateRubro(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req rubroRequest
	if rejectInput(w, DecodeJSON(r, &req)) {
		return
	}
	if codeMismatch(code, req.Code) {
		badRequest(w, msgCodeMismatch)
		return
	}
	res, err := s.svc.Rubros.Update(r.Context(), code, req.rubro(), req.Active)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleDeleteRubro(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Rubros.Delete(r.Context(), chi.URLParam(r, "code"))
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleInactivateRubrosByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Rubros.InactivateByProject(r.Context(), projectID)
	respond(w, r, res, err, http.StatusOK)
}
