package services

import (
	"context"
	"strings"

	"ongfinanzas/internal/amqp"
	"ongfinanzas/internal/core"
)

// DefaultTopDonors is used when a caller asks for a non-positive ranking size.
const DefaultTopDonors = 10

const msgNoRubroData = "no data for the specified rubro"

// DonationService is the donation journal: credits booked against rubros.
type DonationService struct {
	store  DonationStore
	events EventPublisher
}

func NewDonationService(store DonationStore, events EventPublisher) *DonationService {
	return &DonationService{store: store, events: events}
}

func (s *DonationService) List(ctx context.Context, activeOnly bool) (core.Result[[]core.Donation], error) {
	rows, err := s.store.ListDonations(ctx, activeOnly)
	return listed(rows, err, "no donations found")
}

func (s *DonationService) ListByRubro(ctx context.Context, rubroID int64, activeOnly bool) (core.Result[[]core.Donation], error) {
	rows, err := s.store.ListDonationsByRubro(ctx, rubroID, activeOnly)
	return listed(rows, err, "no donations found for the rubro")
}

func (s *DonationService) Get(ctx context.Context, id int64, activeOnly bool) (core.Result[core.Donation], error) {
	d, err := s.store.GetDonation(ctx, id, activeOnly)
	return found(d, err, "donation not found")
}

func (s *DonationService) ListWithDetails(ctx context.Context, activeOnly bool) (core.Result[[]core.DonationDetail], error) {
	rows, err := s.store.ListDonationDetails(ctx, activeOnly)
	return listed(rows, err, "no donations found")
}

// ListByDonor matches the donor name case-insensitively.
func (s *DonationService) ListByDonor(ctx context.Context, donor string) (core.Result[[]core.DonationDetail], error) {
	donor = strings.TrimSpace(donor)
	if donor == "" {
		return core.Invalid[[]core.DonationDetail]([]core.FieldError{{Field: "name", Message: "name is required"}}), nil
	}
	rows, err := s.store.ListDonationsByDonor(ctx, donor)
	return listed(rows, err, "no donations found for the donor")
}

// ListByDateRange returns visible donations dated within [from, to].
func (s *DonationService) ListByDateRange(ctx context.Context, from, to core.Date) (core.Result[[]core.DonationDetail], error) {
	if errs := checkRange(from, to); errs != nil {
		return core.Invalid[[]core.DonationDetail](errs), nil
	}
	rows, err := s.store.ListDonationsByDateRange(ctx, from, to)
	return listed(rows, err, "no donations found in the date range")
}

// TotalByRubro sums the visible donations of a rubro. A rubro without any
// is reported as not found rather than as a zero total.
func (s *DonationService) TotalByRubro(ctx context.Context, rubroID int64) (core.Result[core.RubroTotal], error) {
	total, err := s.store.DonationTotalByRubro(ctx, rubroID)
	return rubroTotal(total, err)
}

func rubroTotal(total core.RubroTotal, err error) (core.Result[core.RubroTotal], error) {
	if err != nil {
		return core.Result[core.RubroTotal]{}, err
	}
	if total.Count == 0 {
		return core.NotFound[core.RubroTotal](msgNoRubroData), nil
	}
	return core.Success(total, "total computed"), nil
}

func (s *DonationService) ReportByProject(ctx context.Context, projectID int64) (core.Result[[]core.ProjectReportRow], error) {
	rows, err := s.store.DonationReportByProject(ctx, projectID)
	return listed(rows, err, "no report data for the project")
}

// TopDonors ranks donors by visible donated total. Ties are broken by name.
func (s *DonationService) TopDonors(ctx context.Context, limit int) (core.Result[[]core.DonorTotal], error) {
	if limit <= 0 {
		limit = DefaultTopDonors
	}
	rows, err := s.store.TopDonors(ctx, limit)
	return listed(rows, err, "no donors found")
}

func (s *DonationService) Create(ctx context.Context, d core.Donation) (core.Result[core.Donation], error) {
	d.DonorName = strings.TrimSpace(d.DonorName)
	if errs := d.Validate(); len(errs) > 0 {
		return core.Invalid[core.Donation](errs), nil
	}
	out, err := s.store.CreateDonation(ctx, d)
	return applied(ctx, s.events, out, err, donationEvent(amqp.ActionCreated))
}

func (s *DonationService) Update(ctx context.Context, id int64, d core.Donation, active *bool) (core.Result[core.Donation], error) {
	d.DonorName = strings.TrimSpace(d.DonorName)
	if errs := d.Validate(); len(errs) > 0 {
		return core.Invalid[core.Donation](errs), nil
	}
	d.ID = id
	out, err := s.store.UpdateDonation(ctx, d, active)
	return applied(ctx, s.events, out, err, donationEvent(amqp.ActionUpdated))
}

func (s *DonationService) Delete(ctx context.Context, id int64) (core.Result[core.Donation], error) {
	out, err := s.store.DeleteDonation(ctx, id)
	return applied(ctx, s.events, out, err, donationEvent(amqp.ActionDeleted))
}

func (s *DonationService) InactivateByRubro(ctx context.Context, rubroID int64) (core.Result[int64], error) {
	if errs := checkID("rubroId", rubroID); errs != nil {
		return core.Invalid[int64](errs), nil
	}
	out, err := s.store.InactivateDonationsByRubro(ctx, rubroID)
	return applied(ctx, s.events, out, err, func(int64) *amqp.LedgerEvent {
		return amqp.NewLedgerEvent(amqp.EntityDonation, amqp.ActionInactivated, rubroID).WithRubro(rubroID)
	})
}

func donationEvent(action string) func(core.Donation) *amqp.LedgerEvent {
	return func(d core.Donation) *amqp.LedgerEvent {
		return amqp.NewLedgerEvent(amqp.EntityDonation, action, d.ID).WithRubro(d.RubroID)
	}
}
