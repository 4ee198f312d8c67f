package http

import (
	"net/http"

	"ongfinanzas/internal/core"
	"ongfinanzas/internal/services"
)

type donationRequest struct {
	RubroID      int64      `json:"rubroId"`
	Amount       core.Money `json:"amount"`
	DonationDate core.Date  `json:"donationDate"`
	DonorName    string     `json:"donorName"`
	Active       *bool      `json:"active"`
}

func (req donationRequest) donation() core.Donation {
	return core.Donation{
		RubroID:      req.RubroID,
		Amount:       req.Amount,
		DonationDate: req.DonationDate,
		DonorName:    sanitizeInput(req.DonorName),
	}
}

func (s *Server) handleListDonations(w http.ResponseWriter, r *http.Request) {
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.List(r.Context(), active)
	respondList(w, r, res, err)
}

func (s *Server) handleListDonationDetails(w http.ResponseWriter, r *http.Request) {
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.ListWithDetails(r.Context(), active)
	respondList(w, r, res, err)
}

func (s *Server) handleListDonationsByRubro(w http.ResponseWriter, r *http.Request) {
	rubroID, err := pathID(r, "rubroID")
	if rejectInput(w, err) {
		return
	}
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.ListByRubro(r.Context(), rubroID, active)
	respondList(w, r, res, err)
}

func (s *Server) handleDonationTotalByRubro(w http.ResponseWriter, r *http.Request) {
	rubroID, err := pathID(r, "rubroID")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.TotalByRubro(r.Context(), rubroID)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleInactivateDonationsByRubro(w http.ResponseWriter, r *http.Request) {
	rubroID, err := pathID(r, "rubroID")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.InactivateByRubro(r.Context(), rubroID)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleDonationReportByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.ReportByProject(r.Context(), projectID)
	respondList(w, r, res, err)
}

func (s *Server) handleTopDonors(w http.ResponseWriter, r *http.Request) {
	top, err := ParseTop(r.URL.Query(), services.DefaultTopDonors)
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.TopDonors(r.Context(), top)
	respondList(w, r, res, err)
}

func (s *Server) handleListDonationsByDonor(w http.ResponseWriter, r *http.Request) {
	name := sanitizeInput(r.URL.Query().Get("name"))
	res, err := s.svc.Donations.ListByDonor(r.Context(), name)
	respondList(w, r, res, err)
}

func (s *Server) handleListDonationsByDateRange(w http.ResponseWriter, r *http.Request) {
	from, to, err := ParseDateRange(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.ListByDateRange(r.Context(), from, to)
	respondList(w, r, res, err)
}

func (s *Server) handleGetDonation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if rejectInput(w, err) {
		return
	}
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.Get(r.Context(), id, active)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if rejectInput(w, DecodeJSON(r, &req)) {
		return
	}
	res, err := s.svc.Donations.Create(r.Context(), req.donation())
	respond(w, r, res, err, http.StatusCreated)
}

func (s *Server) handleUpdateDonation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if rejectInput(w, err) {
		return
	}
	var req donationRequest
	if rejectInput(w, DecodeJSON(r, &req)) {
		return
	}
	res, err := s.svc.Donations.Update(r.Context(), id, req.donation(), req.Active)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleDeleteDonation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Donations.Delete(r.Context(), id)
	respond(w, r, res, err, http.StatusOK)
}
