package core

type (
	// RubroTotal is the sum and count of the visible entries booked against a rubro.
	RubroTotal struct {
		RubroID int64 `json:"rubroId" db:"rubro_id"`
		Total   Money `json:"totalAmount" db:"total_cents"`
		Count   int64 `json:"count" db:"entry_count"`
	}

	ProjectReportRow struct {
		ProjectName string `json:"projectName" db:"project_name"`
		RubroCode   string `json:"rubroCode" db:"rubro_code"`
		RubroName   string `json:"rubroName" db:"rubro_name"`
		Total       Money  `json:"total" db:"total_cents"`
	}

	DonorTotal struct {
		DonorName string `json:"donorName" db:"donor_name"`
		Total     Money  `json:"total" db:"total_cents"`
	}

	// Balance may be negative when a rubro is over-spent.
	Balance struct {
		RubroID             int64 `json:"rubroId" db:"rubro_id"`
		TotalDonations      Money `json:"totalDonations" db:"total_donations_cents"`
		TotalPurchaseOrders Money `json:"totalPurchaseOrders" db:"total_orders_cents"`
		Balance             Money `json:"balance" db:"-"`
	}

	RubroBalance struct {
		Balance
		RubroCode   string `json:"rubroCode" db:"rubro_code"`
		RubroName   string `json:"rubroName" db:"rubro_name"`
		ProjectCode string `json:"projectCode" db:"project_code"`
		ProjectName string `json:"projectName" db:"project_name"`
	}

	DashboardSummary struct {
		ActiveProjects       int64       `json:"activeProjects"`
		ActiveRubros         int64       `json:"activeRubros"`
		ActiveDonations      int64       `json:"activeDonations"`
		ActivePurchaseOrders int64       `json:"activePurchaseOrders"`
		TotalDonated         Money       `json:"totalDonated"`
		TotalSpent           Money       `json:"totalSpent"`
		TopDonor             *DonorTotal `json:"topDonor"`
	}

	// LastCode reports the most recently assigned code and the one a create would assign next.
	LastCode struct {
		LastCode string `json:"lastCode"`
		NextCode string `json:"nextCode"`
	}
)

// Settle computes Balance from the two totals.
func (b Balance) Settle() Balance {
	b.Balance = b.TotalDonations.Sub(b.TotalPurchaseOrders)
	return b
}
