package core

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// DateLayout is the wire and storage format of every ledger date.
const DateLayout = "2006-01-02"

// MaxTextLength bounds every free-text field (names, municipality, department, donor).
const MaxTextLength = 255

type (
	Date struct {
		time.Time
	}

	Project struct {
		ID           int64  `json:"id" db:"id"`
		Code         string `json:"code" db:"code"`
		Name         string `json:"name" db:"name"`
		Municipality string `json:"municipality" db:"municipality"`
		Department   string `json:"department" db:"department"`
		StartDate    Date   `json:"startDate" db:"start_date"`
		EndDate      Date   `json:"endDate" db:"end_date"`
		Active       bool   `json:"active" db:"active"`
	}

	Rubro struct {
		ID        int64  `json:"id" db:"id"`
		Code      string `json:"code" db:"code"`
		Name      string `json:"name" db:"name"`
		ProjectID int64  `json:"projectId" db:"project_id"`
		Active    bool   `json:"active" db:"active"`
	}

	// RubroDetail is a rubro joined with the project it belongs to.
	RubroDetail struct {
		Rubro
		ProjectCode  string `json:"projectCode" db:"project_code"`
		ProjectName  string `json:"projectName" db:"project_name"`
		Municipality string `json:"municipality" db:"municipality"`
		Department   string `json:"department" db:"department"`
		StartDate    Date   `json:"startDate" db:"start_date"`
		EndDate      Date   `json:"endDate" db:"end_date"`
	}

	Donation struct {
		ID           int64  `json:"id" db:"id"`
		RubroID      int64  `json:"rubroId" db:"rubro_id"`
		Amount       Money  `json:"amount" db:"amount_cents"`
		DonationDate Date   `json:"donationDate" db:"donation_date"`
		DonorName    string `json:"donorName" db:"donor_name"`
		Active       bool   `json:"active" db:"active"`
	}

	DonationDetail struct {
		Donation
		RubroCode   string `json:"rubroCode" db:"rubro_code"`
		RubroName   string `json:"rubroName" db:"rubro_name"`
		ProjectID   int64  `json:"projectId" db:"project_id"`
		ProjectCode string `json:"projectCode" db:"project_code"`
		ProjectName string `json:"projectName" db:"project_name"`
	}

	PurchaseOrder struct {
		ID        int64 `json:"id" db:"id"`
		RubroID   int64 `json:"rubroId" db:"rubro_id"`
		Amount    Money `json:"amount" db:"amount_cents"`
		OrderDate Date  `json:"orderDate" db:"order_date"`
		Active    bool  `json:"active" db:"active"`
	}

	PurchaseOrderDetail struct {
		PurchaseOrder
		RubroCode   string `json:"rubroCode" db:"rubro_code"`
		RubroName   string `json:"rubroName" db:"rubro_name"`
		ProjectID   int64  `json:"projectId" db:"project_id"`
		ProjectCode string `json:"projectCode" db:"project_code"`
		ProjectName string `json:"projectName" db:"project_name"`
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidCode   = errors.New("invalid code")
	ErrEmptyField    = errors.New("field is required")
	ErrFieldTooLong  = errors.New("field too long")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp, keeping only the calendar day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t.Year(), int(t.Month()), t.Day()), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores dates as YYYY-MM-DD text, which both SQLite and PostgreSQL accept for DATE columns.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), int(v.Month()), v.Day())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
}

func (d *Date) scanText(s string) error {
	// SQLite may hand back "YYYY-MM-DD 00:00:00" for DATE affinity columns.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// checkText validates a required free-text field and records a FieldError on failure.
func checkText(errs []FieldError, field, value string) []FieldError {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return append(errs, FieldError{Field: field, Message: ErrEmptyField.Error()})
	case utf8.RuneCountInString(value) > MaxTextLength:
		return append(errs, FieldError{Field: field, Message: fmt.Sprintf("%s (max %d characters)", ErrFieldTooLong, MaxTextLength)})
	}
	return errs
}

func checkDate(errs []FieldError, field string, d Date) []FieldError {
	if err := d.Validate(); err != nil {
		return append(errs, FieldError{Field: field, Message: err.Error()})
	}
	return errs
}

func checkAmount(errs []FieldError, m Money) []FieldError {
	if err := m.Validate(); err != nil {
		return append(errs, FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}
	return errs
}

func checkRef(errs []FieldError, field string, id int64) []FieldError {
	if id <= 0 {
		return append(errs, FieldError{Field: field, Message: ErrEmptyField.Error()})
	}
	return errs
}

// Validate checks required project fields. Start and end dates are not compared.
func (p Project) Validate() []FieldError {
	var errs []FieldError
	errs = checkText(errs, "name", p.Name)
	errs = checkText(errs, "municipality", p.Municipality)
	errs = checkText(errs, "department", p.Department)
	errs = checkDate(errs, "startDate", p.StartDate)
	errs = checkDate(errs, "endDate", p.EndDate)
	return errs
}

func (r Rubro) Validate() []FieldError {
	var errs []FieldError
	errs = checkText(errs, "name", r.Name)
	errs = checkRef(errs, "projectId", r.ProjectID)
	return errs
}

func (d Donation) Validate() []FieldError {
	var errs []FieldError
	errs = checkRef(errs, "rubroId", d.RubroID)
	errs = checkAmount(errs, d.Amount)
	errs = checkDate(errs, "donationDate", d.DonationDate)
	errs = checkText(errs, "donorName", d.DonorName)
	return errs
}

// DonorKey folds a donor name into the form donors are matched and grouped
// by: Unicode case folding with surrounding and repeated blanks collapsed.
func DonorKey(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

func (o PurchaseOrder) Validate() []FieldError {
	var errs []FieldError
	errs = checkRef(errs, "rubroId", o.RubroID)
	errs = checkAmount(errs, o.Amount)
	errs = checkDate(errs, "orderDate", o.OrderDate)
	return errs
}
