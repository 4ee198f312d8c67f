package http

import (
	"net/http"

	"ongfinanzas/internal/core"
)

type purchaseOrderRequest struct {
	RubroID   int64      `json:"rubroId"`
	Amount    core.Money `json:"amount"`
	OrderDate core.Date  `json:"orderDate"`
	Active    *bool      `json:"active"`
}

func (req purchaseOrderRequest) order() core.PurchaseOrder {
	return core.PurchaseOrder{
		RubroID:   req.RubroID,
		Amount:    req.Amount,
		OrderDate: req.OrderDate,
	}
}

func (s *Server) handleListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.PurchaseOrders.List(r.Context(), active)
	respondList(w, r, res, err)
}

func (s *Server) handleListPurchaseOrderDetails(w http.ResponseWriter, r *http.Request) {
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.PurchaseOrders.ListComplete(r.Context(), active)
	respondList(w, r, res, err)
}

func (s *Server) handleListPurchaseOrdersByRubro(w http.ResponseWriter, r *http.Request) {
	rubroID, err := pathID(r, "rubroID")
	if rejectInput(w, err) {
		return
	}
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.PurchaseOrders.ListByRubro(r.Context(), rubroID, active)
	respondList(w, r, res, err)
}

func (s *Server) handlePurchaseOrderTotalByRubro(w http.ResponseWriter, r *http.Request) {
	rubroID, err := pathID(r, "rubroID")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.PurchaseOrders.TotalByRubro(r.Context(), rubroID)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleBalanceByRubro(w http.ResponseWriter, r *http.Request) {
	rubroID, err := pathID(r, "rubroID")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.Balances.ForRubro(r.Context(), rubroID)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleInactivateOrdersByRubro(w http.ResponseWriter, r *http.Request) {
	rubroID, err := pathID(r, "rubroID")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.PurchaseOrders.InactivateByRubro(r.Context(), rubroID)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleListPurchaseOrdersByDateRange(w http.ResponseWriter, r *http.Request) {
	from, to, err := ParseDateRange(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.PurchaseOrders.ListByDateRange(r.Context(), from, to)
	respondList(w, r, res, err)
}

func (s *Server) handlePurchaseOrderReportByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.PurchaseOrders.ReportByProject(r.Context(), projectID)
	respondList(w, r, res, err)
}

func (s *Server) handleGetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if rejectInput(w, err) {
		return
	}
	active, err := ParseActive(r.URL.Query())
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.PurchaseOrders.Get(r.Context(), id, active)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleCreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req purchaseOrderRequest
	if rejectInput(w, DecodeJSON(r, &req)) {
		return
	}
	res, err := s.svc.PurchaseOrders.Create(r.Context(), req.order())
	respond(w, r, res, err, http.StatusCreated)
}

func (s *Server) handleUpdatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if rejectInput(w, err) {
		return
	}
	var req purchaseOrderRequest
	if rejectInput(w, DecodeJSON(r, &req)) {
		return
	}
	res, err := s.svc.PurchaseOrders.Update(r.Context(), id, req.order(), req.Active)
	respond(w, r, res, err, http.StatusOK)
}

func (s *Server) handleDeletePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if rejectInput(w, err) {
		return
	}
	res, err := s.svc.PurchaseOrders.Delete(r.Context(), id)
	respond(w, r, res, err, http.StatusOK)
}
