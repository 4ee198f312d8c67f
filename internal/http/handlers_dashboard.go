package http

import (
	"net/http"
)

// handleListBalances returns every visible rubro with its totals and balance.
func (s *Server) handleListBalances(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Balances.List(r.Context())
	respondList(w, r, res, err)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Dashboard.Summary(r.Context())
	respond(w, r, res, err, http.StatusOK)
}
