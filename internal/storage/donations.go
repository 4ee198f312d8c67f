package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ongfinanzas/internal/core"
)

const donationColumns = `d.id, d.rubro_id, d.amount_cents, d.donation_date, d.donor_name, d.active`

// donationJoin walks donation -> rubro -> project. With activeOnly every
// flag along the chain must hold.
func donationJoin(activeOnly bool) string {
	if activeOnly {
		return ` FROM donations d
			JOIN rubros r ON r.id = d.rubro_id AND r.active = TRUE AND d.active = TRUE
			JOIN projects p ON p.id = r.project_id AND p.active = TRUE`
	}
	return ` FROM donations d
			JOIN rubros r ON r.id = d.rubro_id
			JOIN projects p ON p.id = r.project_id`
}

const donationDetailColumns = donationColumns + `,
	r.code AS rubro_code, r.name AS rubro_name, p.id AS project_id, p.code AS project_code, p.name AS project_name`

func (s *Store) ListDonations(ctx context.Context, activeOnly bool) ([]core.Donation, error) {
	var out []core.Donation
	if err := s.selectRows(ctx, &out, `SELECT `+donationColumns+donationJoin(activeOnly)+` ORDER BY d.id`); err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return out, nil
}

func (s *Store) ListDonationsByRubro(ctx context.Context, rubroID int64, activeOnly bool) ([]core.Donation, error) {
	var out []core.Donation
	q := `SELECT ` + donationColumns + donationJoin(activeOnly) + ` WHERE d.rubro_id = ? ORDER BY d.id`
	if err := s.selectRows(ctx, &out, q, rubroID); err != nil {
		return nil, fmt.Errorf("list donations of rubro %d: %w", rubroID, err)
	}
	return out, nil
}

func (s *Store) GetDonation(ctx context.Context, id int64, activeOnly bool) (core.Donation, error) {
	var d core.Donation
	err := s.getRow(ctx, &d, `SELECT `+donationColumns+donationJoin(activeOnly)+` WHERE d.id = ?`, id)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return d, fmt.Errorf("get donation %d: %w", id, err)
	}
	return d, err
}

func (s *Store) ListDonationDetails(ctx context.Context, activeOnly bool) ([]core.DonationDetail, error) {
	var out []core.DonationDetail
	if err := s.selectRows(ctx, &out, `SELECT `+donationDetailColumns+donationJoin(activeOnly)+` ORDER BY d.id`); err != nil {
		return nil, fmt.Errorf("list donation details: %w", err)
	}
	return out, nil
}

// ListDonationsByDonor matches visible donations whose donor folds to the same key as donor.
func (s *Store) ListDonationsByDonor(ctx context.Context, donor string) ([]core.DonationDetail, error) {
	var out []core.DonationDetail
	q := `SELECT ` + donationDetailColumns + donationJoin(true) + ` WHERE d.donor_key = ? ORDER BY d.donation_date, d.id`
	if err := s.selectRows(ctx, &out, q, core.DonorKey(donor)); err != nil {
		return nil, fmt.Errorf("list donations by donor: %w", err)
	}
	return out, nil
}

// ListDonationsByDateRange returns visible donations dated within [from, to].
func (s *Store) ListDonationsByDateRange(ctx context.Context, from, to core.Date) ([]core.DonationDetail, error) {
	var out []core.DonationDetail
	q := `SELECT ` + donationDetailColumns + donationJoin(true) + ` WHERE d.donation_date BETWEEN ? AND ? ORDER BY d.donation_date, d.id`
	if err := s.selectRows(ctx, &out, q, from, to); err != nil {
		return nil, fmt.Errorf("list donations by date range: %w", err)
	}
	return out, nil
}

// DonationTotalByRubro sums the visible donations of a rubro.
func (s *Store) DonationTotalByRubro(ctx context.Context, rubroID int64) (core.RubroTotal, error) {
	total := core.RubroTotal{RubroID: rubroID}
	q := `SELECT CAST(COALESCE(SUM(d.amount_cents), 0) AS BIGINT) AS total_cents, COUNT(d.id) AS entry_count` +
		donationJoin(true) + ` WHERE d.rubro_id = ?`
	if err := s.getRow(ctx, &total, q, rubroID); err != nil {
		return total, fmt.Errorf("donation total of rubro %d: %w", rubroID, err)
	}
	return total, nil
}

// DonationStats sums every visible donation.
func (s *Store) DonationStats(ctx context.Context) (core.RubroTotal, error) {
	var total core.RubroTotal
	q := `SELECT CAST(COALESCE(SUM(d.amount_cents), 0) AS BIGINT) AS total_cents, COUNT(d.id) AS entry_count` + donationJoin(true)
	if err := s.getRow(ctx, &total, q); err != nil {
		return total, fmt.Errorf("donation stats: %w", err)
	}
	return total, nil
}

// DonationReportByProject returns one row per visible rubro of the project with its donated total.
func (s *Store) DonationReportByProject(ctx context.Context, projectID int64) ([]core.ProjectReportRow, error) {
	return s.projectReport(ctx, "donations", projectID)
}

func (s *Store) projectReport(ctx context.Context, table string, projectID int64) ([]core.ProjectReportRow, error) {
	var out []core.ProjectReportRow
	q := `SELECT p.name AS project_name, r.code AS rubro_code, r.name AS rubro_name,
			CAST(COALESCE(SUM(e.amount_cents), 0) AS BIGINT) AS total_cents
		FROM rubros r
		JOIN projects p ON p.id = r.project_id AND p.active = TRUE AND r.active = TRUE
		LEFT JOIN ` + table + ` e ON e.rubro_id = r.id AND e.active = TRUE
		WHERE r.project_id = ?
		GROUP BY p.name, r.code, r.name
		ORDER BY r.code`
	if err := s.selectRows(ctx, &out, q, projectID); err != nil {
		return nil, fmt.Errorf("%s report of project %d: %w", table, projectID, err)
	}
	return out, nil
}

// TopDonors ranks donors by visible donated total, ties broken by name.
// Spellings of one donor that fold to the same key count as one donor.
func (s *Store) TopDonors(ctx context.Context, limit int) ([]core.DonorTotal, error) {
	var out []core.DonorTotal
	q := `SELECT MIN(d.donor_name) AS donor_name, CAST(SUM(d.amount_cents) AS BIGINT) AS total_cents` + donationJoin(true) + `
		GROUP BY d.donor_key
		ORDER BY total_cents DESC, d.donor_key ASC
		LIMIT ?`
	if err := s.selectRows(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("top donors: %w", err)
	}
	return out, nil
}

// CreateDonation books a donation against a visible rubro.
func (s *Store) CreateDonation(ctx context.Context, d core.Donation) (core.Outcome[core.Donation], error) {
	return command(ctx, s, OpCreateDonation, func(tx *sqlx.Tx) (core.Outcome[core.Donation], error) {
		ok, err := rubroVisible(ctx, tx, d.RubroID)
		if err != nil {
			return core.Outcome[core.Donation]{}, err
		}
		if !ok {
			return core.Refused[core.Donation](MsgRubroInactive), nil
		}

		var id int64
		err = txGet(ctx, tx, &id, `INSERT INTO donations (rubro_id, amount_cents, donation_date, donor_name, donor_key, active)
			VALUES (?, ?, ?, ?, ?, TRUE) RETURNING id`, d.RubroID, d.Amount, d.DonationDate, d.DonorName, core.DonorKey(d.DonorName))
		if err != nil {
			return core.Outcome[core.Donation]{}, err
		}
		row, err := donationByID(ctx, tx, id)
		if err != nil {
			return core.Outcome[core.Donation]{}, err
		}
		return core.Done(row, MsgDonationCreated), nil
	})
}

func (s *Store) UpdateDonation(ctx context.Context, d core.Donation, active *bool) (core.Outcome[core.Donation], error) {
	return command(ctx, s, OpUpdateDonation, func(tx *sqlx.Tx) (core.Outcome[core.Donation], error) {
		if _, err := donationByID(ctx, tx, d.ID); err != nil {
			if isNoRows(err) {
				return core.Missing[core.Donation](MsgDonationNotFound), nil
			}
			return core.Outcome[core.Donation]{}, err
		}
		ok, err := rubroVisible(ctx, tx, d.RubroID)
		if err != nil {
			return core.Outcome[core.Donation]{}, err
		}
		if !ok {
			return core.Refused[core.Donation](MsgRubroInactive), nil
		}

		_, err = txExec(ctx, tx, `UPDATE donations
			SET rubro_id = ?, amount_cents = ?, donation_date = ?, donor_name = ?, donor_key = ?,
				active = COALESCE(?, active), updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`, d.RubroID, d.Amount, d.DonationDate, d.DonorName, core.DonorKey(d.DonorName), nullBool(active), d.ID)
		if err != nil {
			return core.Outcome[core.Donation]{}, err
		}
		row, err := donationByID(ctx, tx, d.ID)
		if err != nil {
			return core.Outcome[core.Donation]{}, err
		}
		return core.Done(row, MsgDonationUpdated), nil
	})
}

func (s *Store) DeleteDonation(ctx context.Context, id int64) (core.Outcome[core.Donation], error) {
	return command(ctx, s, OpDeleteDonation, func(tx *sqlx.Tx) (core.Outcome[core.Donation], error) {
		n, err := txExec(ctx, tx, `UPDATE donations SET active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
		if err != nil {
			return core.Outcome[core.Donation]{}, err
		}
		if n == 0 {
			return core.Missing[core.Donation](MsgDonationNotFound), nil
		}
		row, err := donationByID(ctx, tx, id)
		if err != nil {
			return core.Outcome[core.Donation]{}, err
		}
		return core.Done(row, MsgDonationDeleted), nil
	})
}

func (s *Store) InactivateDonationsByRubro(ctx context.Context, rubroID int64) (core.Outcome[int64], error) {
	return command(ctx, s, OpInactivateDonationsByRubro, func(tx *sqlx.Tx) (core.Outcome[int64], error) {
		ok, err := rubroExists(ctx, tx, rubroID)
		if err != nil {
			return core.Outcome[int64]{}, err
		}
		if !ok {
			return core.Missing[int64](MsgRubroNotFound), nil
		}
		n, err := txExec(ctx, tx, `UPDATE donations SET active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE rubro_id = ?`, rubroID)
		if err != nil {
			return core.Outcome[int64]{}, err
		}
		return core.Done(n, fmt.Sprintf(msgBulkInactivated, n, "donations")), nil
	})
}

func donationByID(ctx context.Context, tx *sqlx.Tx, id int64) (core.Donation, error) {
	var d core.Donation
	err := txGet(ctx, tx, &d, `SELECT id, rubro_id, amount_cents, donation_date, donor_name, active FROM donations WHERE id = ?`, id)
	return d, err
}
